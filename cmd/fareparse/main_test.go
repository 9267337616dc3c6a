package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/airfare/internal/models"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "internal", "ingest", "testdata", name)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	parseReq = models.TicketsRequest{Mode: "all", SortOrder: "asc"}
	configPath = ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestModes(t *testing.T) {
	out, err := execute(t, "modes")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(models.QueryModes))
	assert.Equal(t, "all", lines[0])
	assert.Contains(t, lines, "most_expensive")
}

func TestParse_SingleFile(t *testing.T) {
	out, err := execute(t, "parse", "--mode", "cheapest", testdata("one_way.xml"))
	require.NoError(t, err)

	var resp models.TicketsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, models.ModeCheapest, resp.Metadata.Mode)
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, "451", resp.Tickets[0].Flights[0].FlightNumber)
}

func TestParse_SortFlags(t *testing.T) {
	out, err := execute(t, "parse", "--sort-by", "duration", "--sort-order", "desc", testdata("round_trip.xml"))
	require.NoError(t, err)

	var resp models.TicketsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Tickets, 3)
	assert.Equal(t, "996", resp.Tickets[0].Flights[0].FlightNumber)
	assert.Equal(t, "518", resp.Tickets[2].Flights[0].FlightNumber)
}

func TestParse_Batch(t *testing.T) {
	out, err := execute(t, "parse", "--mode", "shortest", testdata("one_way.xml"), testdata("round_trip.xml"))
	require.NoError(t, err)

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.Documents)
	assert.Equal(t, 2, resp.Succeeded)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "one_way.xml", resp.Results[0].Name)
	assert.Equal(t, "518", resp.Results[1].Response.Tickets[0].Flights[0].FlightNumber)
}

func TestParse_BatchReportsFailures(t *testing.T) {
	out, err := execute(t, "parse", "--policy", "fail_fast", testdata("one_way.xml"), testdata("missing_currency.xml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Results[1].Error)
	assert.Contains(t, resp.Results[1].Error.Message, "itinerary 1")
}

func TestParse_Errors(t *testing.T) {
	_, err := execute(t, "parse", "--mode", "fastest", testdata("one_way.xml"))
	assert.ErrorIs(t, err, models.ErrInvalidMode)

	_, err = execute(t, "parse", "--sort-by", "best_value", testdata("one_way.xml"))
	assert.ErrorIs(t, err, models.ErrInvalidSortKey)

	_, err = execute(t, "parse", "--policy", "fail_fast", testdata("missing_currency.xml"))
	var itErr *models.ItineraryError
	assert.ErrorAs(t, err, &itErr)

	_, err = execute(t, "parse", testdata("nope.xml"))
	assert.Error(t, err)

	_, err = execute(t, "parse")
	assert.Error(t, err)
}
