package ingest

import (
	"time"

	"github.com/dharmasatrya/airfare/internal/models"
	"github.com/dharmasatrya/airfare/internal/query"
	"github.com/dharmasatrya/airfare/internal/timestamp"
	"github.com/dharmasatrya/airfare/pkg/currency"
)

// Response renders the result for output, ordered by req's sort options.
// ParseTimeMs is measured from startTime.
func (r *Result) Response(req models.TicketsRequest, startTime time.Time) *models.TicketsResponse {
	tickets := query.Sort(r.Tickets, req.SortBy, req.SortOrder)

	views := make([]models.TicketView, len(tickets))
	for i, t := range tickets {
		views[i] = TicketView(t)
	}

	failures := make([]models.ItineraryFailure, len(r.Errors))
	for i, e := range r.Errors {
		failures[i] = models.ItineraryFailure{
			Index:   e.Index,
			Message: e.Err.Error(),
		}
	}

	return &models.TicketsResponse{
		Metadata: models.TicketsMetadata{
			ResultID:          r.ID,
			Mode:              r.Mode,
			Policy:            r.Policy,
			TotalItineraries:  r.Itineraries,
			Normalized:        r.Normalized,
			Failed:            len(r.Errors),
			FailedItineraries: failures,
			TotalResults:      len(views),
			ParseTimeMs:       time.Since(startTime).Milliseconds(),
		},
		Tickets: views,
	}
}

func TicketView(t models.Ticket) models.TicketView {
	prices := make([]models.FormattedPrice, len(t.Prices))
	for i, p := range t.Prices {
		prices[i] = models.FormattedPrice{
			Price:     p,
			Formatted: currency.Format(p.Amount, p.Currency),
		}
	}

	view := models.TicketView{
		RoundTrip:     t.RoundTrip,
		Direct:        query.IsDirect(t),
		Flights:       t.Flights,
		Prices:        prices,
		OnwardElapsed: timestamp.Breakdown(query.ElapsedTime(t)),
	}

	if d, ok := query.GroupElapsed(t, models.Return); ok {
		ret := timestamp.Breakdown(d)
		view.ReturnElapsed = &ret
	}

	return view
}
