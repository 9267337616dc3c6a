package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/airfare/internal/models"
)

func TestResultResponse(t *testing.T) {
	result, err := newTestIngester().IngestFile(context.Background(), filepath.Join("testdata", "round_trip.xml"), Request{})
	require.NoError(t, err)

	resp := result.Response(models.TicketsRequest{SortBy: "duration"}, time.Now())
	assert.Equal(t, result.ID, resp.Metadata.ResultID)
	assert.Equal(t, 3, resp.Metadata.TotalResults)
	require.Len(t, resp.Tickets, 3)

	shortest := resp.Tickets[0]
	assert.Equal(t, "518", shortest.Flights[0].FlightNumber)
	assert.True(t, shortest.RoundTrip)
	assert.Equal(t, models.Duration{Hours: 9, Minutes: 20, TotalMinutes: 560}, shortest.OnwardElapsed)
	require.NotNil(t, shortest.ReturnElapsed)
	assert.Equal(t, "SGD 546.80", shortest.Prices[0].Formatted)

	assert.Equal(t, "996", resp.Tickets[2].Flights[0].FlightNumber)
}

func TestResultResponse_Failures(t *testing.T) {
	result, err := newTestIngester().IngestFile(context.Background(), filepath.Join("testdata", "missing_currency.xml"), Request{})
	require.NoError(t, err)

	resp := result.Response(models.TicketsRequest{}, time.Now())
	assert.Equal(t, 1, resp.Metadata.Failed)
	require.Len(t, resp.Metadata.FailedItineraries, 1)
	assert.Equal(t, 1, resp.Metadata.FailedItineraries[0].Index)
}
