// Package xmltree decodes AirFareSearchResponse documents into typed
// sub-trees. Repeated nodes are always decoded into slices, so a single leg
// and a list of legs look the same to callers. Optional values are pointers
// so that absence stays observable.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/dharmasatrya/airfare/internal/models"
)

const (
	RootNode      = "AirFareSearchResponse"
	ItineraryList = "PricedItineraries"
)

type Document struct {
	XMLName           xml.Name           `xml:"AirFareSearchResponse"`
	PricedItineraries *PricedItineraries `xml:"PricedItineraries"`
}

type PricedItineraries struct {
	Itineraries []Itinerary `xml:"Flights"`
}

type Itinerary struct {
	Pricing *Pricing `xml:"Pricing"`
	Onward  *Section `xml:"OnwardPricedItinerary"`
	Return  *Section `xml:"ReturnPricedItinerary"`
}

type Pricing struct {
	Currency *string         `xml:"currency,attr"`
	Charges  []ServiceCharge `xml:"ServiceCharges"`
}

type ServiceCharge struct {
	Type       *string `xml:"type,attr"`
	ChargeType *string `xml:"ChargeType,attr"`
	Amount     string  `xml:",chardata"`
}

type Section struct {
	Legs []Leg `xml:"Flights>Flight"`
}

type Leg struct {
	Carrier            *Carrier `xml:"Carrier"`
	FlightNumber       *string  `xml:"FlightNumber"`
	Source             *string  `xml:"Source"`
	Destination        *string  `xml:"Destination"`
	DepartureTimeStamp *string  `xml:"DepartureTimeStamp"`
	ArrivalTimeStamp   *string  `xml:"ArrivalTimeStamp"`
	Class              *string  `xml:"Class"`
	NumberOfStops      *string  `xml:"NumberOfStops"`
	FareBasis          *string  `xml:"FareBasis"`
	TicketType         *string  `xml:"TicketType"`
}

type Carrier struct {
	ID   *string `xml:"id,attr"`
	Name string  `xml:",chardata"`
}

// Decode parses a whole document. Declared non-UTF-8 charsets are transcoded.
func Decode(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &models.MalformedDocumentError{Node: RootNode, Reason: "empty document"}
		}
		return nil, eris.Wrap(&models.MalformedDocumentError{Node: RootNode, Reason: err.Error()}, "xml: decode document")
	}

	return &doc, nil
}

func DecodeBytes(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

// Itineraries returns the itinerary sub-trees in document order.
func (d *Document) Itineraries() ([]Itinerary, error) {
	if d.PricedItineraries == nil {
		return nil, &models.MalformedDocumentError{Node: ItineraryList}
	}
	return d.PricedItineraries.Itineraries, nil
}

// OnwardLegs reports false when the onward section is absent or holds no legs.
func (it Itinerary) OnwardLegs() ([]Leg, bool) {
	if it.Onward == nil || len(it.Onward.Legs) == 0 {
		return nil, false
	}
	return it.Onward.Legs, true
}

// ReturnLegs reports false when the itinerary is one-way. A return section
// without any Flight element counts as absent.
func (it Itinerary) ReturnLegs() ([]Leg, bool) {
	if it.Return == nil || len(it.Return.Legs) == 0 {
		return nil, false
	}
	return it.Return.Legs, true
}
