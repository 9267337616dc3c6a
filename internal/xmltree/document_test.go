package xmltree

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/airfare/internal/models"
)

const legXML = `<Flight>
	<Carrier id="BA">British Airways</Carrier>
	<FlightNumber>117</FlightNumber>
	<Source>LHR</Source>
	<Destination>JFK</Destination>
	<DepartureTimeStamp>2017-03-21T0805</DepartureTimeStamp>
	<ArrivalTimeStamp>2017-03-21T1100</ArrivalTimeStamp>
	<Class>M</Class>
	<NumberOfStops>0</NumberOfStops>
	<FareBasis>MLXP3A</FareBasis>
	<TicketType>E</TicketType>
</Flight>`

func itineraryXML(onwardLegs, returnLegs int) string {
	var b strings.Builder
	b.WriteString(`<Flights><Pricing currency="USD">`)
	b.WriteString(`<ServiceCharges type="SingleAdult" ChargeType="BaseFare">250.00</ServiceCharges>`)
	b.WriteString(`<ServiceCharges type="SingleAdult" ChargeType="AirlineTaxes">80.50</ServiceCharges>`)
	b.WriteString(`</Pricing><OnwardPricedItinerary><Flights>`)
	for i := 0; i < onwardLegs; i++ {
		b.WriteString(legXML)
	}
	b.WriteString(`</Flights></OnwardPricedItinerary>`)
	if returnLegs >= 0 {
		b.WriteString(`<ReturnPricedItinerary><Flights>`)
		for i := 0; i < returnLegs; i++ {
			b.WriteString(legXML)
		}
		b.WriteString(`</Flights></ReturnPricedItinerary>`)
	}
	b.WriteString(`</Flights>`)
	return b.String()
}

func documentXML(itineraries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<AirFareSearchResponse RequestTime="21-03-2017 08:00:00" ResponseTime="21-03-2017 08:00:01">
	<RequestId>1</RequestId>
	<PricedItineraries>` + strings.Join(itineraries, "\n") + `</PricedItineraries>
</AirFareSearchResponse>`
}

func TestDecode_Itineraries(t *testing.T) {
	doc, err := Decode(strings.NewReader(documentXML(itineraryXML(1, -1), itineraryXML(2, 3))))
	require.NoError(t, err)

	its, err := doc.Itineraries()
	require.NoError(t, err)
	require.Len(t, its, 2)

	onward, ok := its[0].OnwardLegs()
	require.True(t, ok)
	assert.Len(t, onward, 1)
	_, ok = its[0].ReturnLegs()
	assert.False(t, ok)

	onward, ok = its[1].OnwardLegs()
	require.True(t, ok)
	assert.Len(t, onward, 2)
	ret, ok := its[1].ReturnLegs()
	require.True(t, ok)
	assert.Len(t, ret, 3)
}

func TestDecode_FieldsAndAttributes(t *testing.T) {
	doc, err := Decode(strings.NewReader(documentXML(itineraryXML(1, -1))))
	require.NoError(t, err)

	its, err := doc.Itineraries()
	require.NoError(t, err)
	require.Len(t, its, 1)

	pricing := its[0].Pricing
	require.NotNil(t, pricing)
	require.NotNil(t, pricing.Currency)
	assert.Equal(t, "USD", *pricing.Currency)
	require.Len(t, pricing.Charges, 2)
	assert.Equal(t, "SingleAdult", *pricing.Charges[0].Type)
	assert.Equal(t, "BaseFare", *pricing.Charges[0].ChargeType)
	assert.Equal(t, "250.00", pricing.Charges[0].Amount)
	assert.Equal(t, "AirlineTaxes", *pricing.Charges[1].ChargeType)

	leg := its[0].Onward.Legs[0]
	require.NotNil(t, leg.Carrier)
	assert.Equal(t, "BA", *leg.Carrier.ID)
	assert.Equal(t, "British Airways", leg.Carrier.Name)
	assert.Equal(t, "117", *leg.FlightNumber)
	assert.Equal(t, "LHR", *leg.Source)
	assert.Equal(t, "JFK", *leg.Destination)
	assert.Equal(t, "2017-03-21T0805", *leg.DepartureTimeStamp)
	assert.Equal(t, "2017-03-21T1100", *leg.ArrivalTimeStamp)
	assert.Equal(t, "M", *leg.Class)
	assert.Equal(t, "0", *leg.NumberOfStops)
	assert.Equal(t, "MLXP3A", *leg.FareBasis)
	assert.Equal(t, "E", *leg.TicketType)
}

func TestDecode_MissingOptionalValuesStayNil(t *testing.T) {
	input := documentXML(`<Flights>
		<Pricing><ServiceCharges>10</ServiceCharges></Pricing>
		<OnwardPricedItinerary><Flights><Flight><Carrier>X</Carrier></Flight></Flights></OnwardPricedItinerary>
	</Flights>`)

	doc, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	its, err := doc.Itineraries()
	require.NoError(t, err)
	require.Len(t, its, 1)

	assert.Nil(t, its[0].Pricing.Currency)
	assert.Nil(t, its[0].Pricing.Charges[0].Type)
	assert.Nil(t, its[0].Pricing.Charges[0].ChargeType)
	leg := its[0].Onward.Legs[0]
	assert.Nil(t, leg.Carrier.ID)
	assert.Nil(t, leg.FlightNumber)
	assert.Nil(t, leg.DepartureTimeStamp)
	assert.Nil(t, its[0].Return)
}

func TestDecode_EmptyReturnSectionCountsAsAbsent(t *testing.T) {
	doc, err := Decode(strings.NewReader(documentXML(itineraryXML(1, 0))))
	require.NoError(t, err)
	its, err := doc.Itineraries()
	require.NoError(t, err)

	require.NotNil(t, its[0].Return)
	_, ok := its[0].ReturnLegs()
	assert.False(t, ok)
}

func TestItineraries_MissingListNode(t *testing.T) {
	doc, err := Decode(strings.NewReader(`<AirFareSearchResponse><RequestId>1</RequestId></AirFareSearchResponse>`))
	require.NoError(t, err)

	_, err = doc.Itineraries()
	var malformed *models.MalformedDocumentError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, ItineraryList, malformed.Node)
}

func TestItineraries_EmptyList(t *testing.T) {
	doc, err := Decode(strings.NewReader(documentXML()))
	require.NoError(t, err)

	its, err := doc.Itineraries()
	require.NoError(t, err)
	assert.Empty(t, its)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \n"},
		{"wrong root", `<SomethingElse><PricedItineraries/></SomethingElse>`},
		{"truncated", `<AirFareSearchResponse><PricedItineraries><Flights>`},
		{"not xml", `{"flights": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)

			var malformed *models.MalformedDocumentError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestDecode_DeclaredCharset(t *testing.T) {
	input := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?>` + documentXML(itineraryXML(1, -1))[len(`<?xml version="1.0" encoding="UTF-8"?>`):])
	input = []byte(strings.Replace(string(input), "British Airways", "A\xe9ro", 1))

	doc, err := DecodeBytes(input)
	require.NoError(t, err)
	its, err := doc.Itineraries()
	require.NoError(t, err)
	assert.Equal(t, "Aéro", its[0].Onward.Legs[0].Carrier.Name)
}

func TestDecode_UnsupportedCharset(t *testing.T) {
	_, err := Decode(strings.NewReader(`<?xml version="1.0" encoding="x-made-up"?><AirFareSearchResponse/>`))
	require.Error(t, err)
}
