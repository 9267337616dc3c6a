package normalizer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dharmasatrya/airfare/internal/models"
	"github.com/dharmasatrya/airfare/internal/timestamp"
	"github.com/dharmasatrya/airfare/internal/xmltree"
)

type Batch struct {
	Tickets []models.Ticket
	Errors  []*models.ItineraryError
	// Indexes holds the document position of each ticket in Tickets.
	Indexes []int
}

// NormalizeAll converts every itinerary in document order. Under FailFast the
// first failure is returned together with the tickets built so far; under
// BestEffort failures are collected and the bad itinerary is skipped.
func NormalizeAll(ctx context.Context, its []xmltree.Itinerary, policy models.Policy) (*Batch, error) {
	batch := &Batch{
		Tickets: make([]models.Ticket, 0, len(its)),
		Indexes: make([]int, 0, len(its)),
	}

	for i, it := range its {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		ticket, err := Normalize(i, it)
		if err != nil {
			var itErr *models.ItineraryError
			if !errors.As(err, &itErr) {
				itErr = models.NewItineraryError(i, err)
			}
			if policy == models.FailFast {
				return batch, itErr
			}
			zap.L().Warn("skipping itinerary", zap.Int("index", i), zap.Error(itErr.Err))
			batch.Errors = append(batch.Errors, itErr)
			continue
		}

		batch.Tickets = append(batch.Tickets, ticket)
		batch.Indexes = append(batch.Indexes, i)
	}

	return batch, nil
}

// Normalize builds the Ticket for the itinerary at position index. Any error
// is an *models.ItineraryError carrying that index.
func Normalize(index int, it xmltree.Itinerary) (models.Ticket, error) {
	prices, err := normalizePrices(it.Pricing)
	if err != nil {
		return models.Ticket{}, models.NewItineraryError(index, err)
	}

	onwardLegs, ok := it.OnwardLegs()
	if !ok {
		return models.Ticket{}, models.NewItineraryError(index, &models.MalformedDocumentError{Node: "OnwardPricedItinerary/Flights/Flight"})
	}

	flights, err := normalizeLegs(onwardLegs, models.Onward, "OnwardPricedItinerary")
	if err != nil {
		return models.Ticket{}, models.NewItineraryError(index, err)
	}

	returnLegs, roundTrip := it.ReturnLegs()
	if roundTrip {
		returnFlights, err := normalizeLegs(returnLegs, models.Return, "ReturnPricedItinerary")
		if err != nil {
			return models.Ticket{}, models.NewItineraryError(index, err)
		}
		flights = append(flights, returnFlights...)
	}

	return models.Ticket{
		RoundTrip: roundTrip,
		Flights:   flights,
		Prices:    prices,
	}, nil
}

func normalizePrices(p *xmltree.Pricing) ([]models.Price, error) {
	if p == nil {
		return nil, &models.MalformedDocumentError{Node: "Pricing"}
	}

	currency, err := requireValue("Pricing", "currency", p.Currency)
	if err != nil {
		return nil, err
	}

	if len(p.Charges) == 0 {
		return nil, &models.MissingAttributeError{Element: "Pricing", Attribute: "ServiceCharges"}
	}

	prices := make([]models.Price, len(p.Charges))
	for i, c := range p.Charges {
		element := fmt.Sprintf("ServiceCharges[%d]", i)

		chargeFor, err := requireValue(element, "type", c.Type)
		if err != nil {
			return nil, err
		}
		chargeType, err := requireValue(element, "ChargeType", c.ChargeType)
		if err != nil {
			return nil, err
		}

		text := strings.TrimSpace(c.Amount)
		if text == "" {
			return nil, &models.MissingAttributeError{Element: element, Attribute: "amount"}
		}
		amount, err := decimal.NewFromString(text)
		if err != nil {
			return nil, &models.MissingAttributeError{Element: element, Attribute: "amount", Reason: "not a decimal: " + text}
		}

		prices[i] = models.Price{
			Currency:   currency,
			Type:       chargeFor,
			ChargeType: chargeType,
			Amount:     amount,
		}
	}

	return prices, nil
}

func normalizeLegs(legs []xmltree.Leg, itType models.ItineraryType, section string) ([]models.Flight, error) {
	flights := make([]models.Flight, len(legs))
	for i, leg := range legs {
		f, err := normalizeLeg(leg, itType, fmt.Sprintf("%s/Flight[%d]", section, i))
		if err != nil {
			return nil, err
		}
		flights[i] = f
	}
	return flights, nil
}

func normalizeLeg(leg xmltree.Leg, itType models.ItineraryType, element string) (models.Flight, error) {
	if leg.Carrier == nil {
		return models.Flight{}, &models.MissingAttributeError{Element: element, Attribute: "Carrier"}
	}
	carrierID, err := requireValue(element+"/Carrier", "id", leg.Carrier.ID)
	if err != nil {
		return models.Flight{}, err
	}
	carrierName := strings.TrimSpace(leg.Carrier.Name)
	if carrierName == "" {
		return models.Flight{}, &models.MissingAttributeError{Element: element + "/Carrier", Attribute: "name"}
	}

	f := models.Flight{
		ItineraryType: itType,
		CarrierID:     carrierID,
		CarrierName:   carrierName,
	}

	fields := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"FlightNumber", leg.FlightNumber, &f.FlightNumber},
		{"Source", leg.Source, &f.Source},
		{"Destination", leg.Destination, &f.Destination},
		{"Class", leg.Class, &f.CabinClass},
		{"FareBasis", leg.FareBasis, &f.FareBasis},
		{"TicketType", leg.TicketType, &f.TicketType},
	}
	for _, field := range fields {
		v, err := requireValue(element, field.name, field.src)
		if err != nil {
			return models.Flight{}, err
		}
		*field.dst = v
	}

	departure, err := requireValue(element, "DepartureTimeStamp", leg.DepartureTimeStamp)
	if err != nil {
		return models.Flight{}, err
	}
	if f.DepartureTime, err = timestamp.Parse(element+"/DepartureTimeStamp", departure); err != nil {
		return models.Flight{}, err
	}

	arrival, err := requireValue(element, "ArrivalTimeStamp", leg.ArrivalTimeStamp)
	if err != nil {
		return models.Flight{}, err
	}
	if f.ArrivalTime, err = timestamp.Parse(element+"/ArrivalTimeStamp", arrival); err != nil {
		return models.Flight{}, err
	}

	stops, err := requireValue(element, "NumberOfStops", leg.NumberOfStops)
	if err != nil {
		return models.Flight{}, err
	}
	n, err := strconv.Atoi(stops)
	if err != nil || n < 0 {
		return models.Flight{}, &models.MissingAttributeError{Element: element, Attribute: "NumberOfStops", Reason: "not a non-negative integer: " + stops}
	}
	f.NumberOfStops = n

	return f, nil
}

// requireValue treats a nil pointer and blank text alike: both are missing.
func requireValue(element, attribute string, v *string) (string, error) {
	if v == nil {
		return "", &models.MissingAttributeError{Element: element, Attribute: attribute}
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return "", &models.MissingAttributeError{Element: element, Attribute: attribute}
	}
	return s, nil
}
