package query

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/airfare/internal/models"
)

const (
	SortNone      = ""
	SortPrice     = "price"
	SortDuration  = "duration"
	SortDeparture = "departure"
	SortStops     = "stops"
)

// Sort returns a sorted copy of tickets. Unknown or empty keys keep document
// order. The sort is stable, so ties stay in document order too.
func Sort(tickets []models.Ticket, sortBy, sortOrder string) []models.Ticket {
	sorted := make([]models.Ticket, len(tickets))
	copy(sorted, tickets)

	if len(sorted) == 0 {
		return sorted
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	var less func(a, b models.Ticket) bool
	switch strings.ToLower(sortBy) {
	case SortPrice:
		less = func(a, b models.Ticket) bool {
			pa, _ := a.BasePrice()
			pb, _ := b.BasePrice()
			return pa.Amount.LessThan(pb.Amount)
		}
	case SortDuration:
		less = func(a, b models.Ticket) bool {
			return ElapsedTime(a) < ElapsedTime(b)
		}
	case SortDeparture:
		less = func(a, b models.Ticket) bool {
			return firstDeparture(a).Before(firstDeparture(b))
		}
	case SortStops:
		less = func(a, b models.Ticket) bool {
			return totalStops(a) < totalStops(b)
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return less(sorted[i], sorted[j])
		}
		return less(sorted[j], sorted[i])
	})

	return sorted
}

func ValidSortKey(s string) bool {
	switch strings.ToLower(s) {
	case SortNone, SortPrice, SortDuration, SortDeparture, SortStops:
		return true
	}
	return false
}

func firstDeparture(t models.Ticket) time.Time {
	if len(t.Flights) == 0 {
		return time.Time{}
	}
	return t.Flights[0].DepartureTime
}

// totalStops counts intermediate stops plus connections across both groups.
func totalStops(t models.Ticket) int {
	stops := 0
	for _, f := range t.Flights {
		stops += f.NumberOfStops
	}
	connections := len(t.Flights) - 1
	if t.RoundTrip {
		connections--
	}
	if connections > 0 {
		stops += connections
	}
	return stops
}
