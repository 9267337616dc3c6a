package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItineraryType string

const (
	Onward ItineraryType = "Onward"
	Return ItineraryType = "Return"
)

type Price struct {
	Currency   string          `json:"currency"`
	Type       string          `json:"type"`
	ChargeType string          `json:"charge_type"`
	Amount     decimal.Decimal `json:"amount"`
}

type Flight struct {
	ItineraryType ItineraryType `json:"itinerary_type"`
	CarrierID     string        `json:"carrier_id"`
	CarrierName   string        `json:"carrier_name"`
	FlightNumber  string        `json:"flight_number"`
	Source        string        `json:"source"`
	Destination   string        `json:"destination"`
	DepartureTime time.Time     `json:"departure_time"`
	ArrivalTime   time.Time     `json:"arrival_time"`
	CabinClass    string        `json:"cabin_class"`
	NumberOfStops int           `json:"number_of_stops"`
	FareBasis     string        `json:"fare_basis"`
	TicketType    string        `json:"ticket_type"`
}

// Ticket is one priced itinerary offer. Flights hold onward legs followed by
// return legs, both in document order.
type Ticket struct {
	RoundTrip bool     `json:"round_trip"`
	Flights   []Flight `json:"flights"`
	Prices    []Price  `json:"prices"`
}

// Legs returns the flights tagged with the given itinerary type, keeping
// document order.
func (t Ticket) Legs(it ItineraryType) []Flight {
	var legs []Flight
	for _, f := range t.Flights {
		if f.ItineraryType == it {
			legs = append(legs, f)
		}
	}
	return legs
}

// BasePrice is the first service charge, conventionally the base fare.
func (t Ticket) BasePrice() (Price, bool) {
	if len(t.Prices) == 0 {
		return Price{}, false
	}
	return t.Prices[0], true
}

type Duration struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	TotalMinutes int `json:"total_minutes"`
}
