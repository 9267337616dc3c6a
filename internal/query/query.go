package query

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/airfare/internal/models"
	"github.com/dharmasatrya/airfare/internal/timestamp"
)

type Extreme int

const (
	Min Extreme = iota
	Max
)

func (e Extreme) String() string {
	if e == Max {
		return "max"
	}
	return "min"
}

// Apply returns the sub-selection of tickets chosen by mode. The input slice
// is never reordered or modified.
func Apply(tickets []models.Ticket, mode models.QueryMode) ([]models.Ticket, error) {
	switch mode {
	case models.ModeAll, "":
		result := make([]models.Ticket, len(tickets))
		copy(result, tickets)
		return result, nil
	case models.ModeDirect:
		direct, _ := PartitionByLegCount(tickets)
		return direct, nil
	case models.ModeWithTransfers:
		_, withTransfers := PartitionByLegCount(tickets)
		return withTransfers, nil
	case models.ModeCheapest:
		return SelectByPrice(tickets, Min)
	case models.ModeMostExpensive:
		return SelectByPrice(tickets, Max)
	case models.ModeShortest:
		return SelectByDuration(tickets, Min)
	case models.ModeLongest:
		return SelectByDuration(tickets, Max)
	default:
		return nil, models.ErrInvalidMode
	}
}

// IsDirect reports whether every direction group present on the ticket has
// exactly one leg.
func IsDirect(t models.Ticket) bool {
	counts := make(map[models.ItineraryType]int, 2)
	for _, f := range t.Flights {
		counts[f.ItineraryType]++
	}
	if len(counts) == 0 {
		return false
	}
	for _, n := range counts {
		if n != 1 {
			return false
		}
	}
	return true
}

func PartitionByLegCount(tickets []models.Ticket) (direct, withTransfers []models.Ticket) {
	direct = make([]models.Ticket, 0, len(tickets))
	withTransfers = make([]models.Ticket, 0, len(tickets))

	for _, t := range tickets {
		if IsDirect(t) {
			direct = append(direct, t)
		} else {
			withTransfers = append(withTransfers, t)
		}
	}

	return direct, withTransfers
}

// GroupElapsed is the last leg's arrival minus the first leg's departure
// within one direction group, in document order.
func GroupElapsed(t models.Ticket, it models.ItineraryType) (time.Duration, bool) {
	legs := t.Legs(it)
	if len(legs) == 0 {
		return 0, false
	}
	return timestamp.Elapsed(legs[0].DepartureTime, legs[len(legs)-1].ArrivalTime), true
}

// ElapsedTime is the onward group's elapsed time, the only value used when
// comparing durations across tickets, round trips included.
func ElapsedTime(t models.Ticket) time.Duration {
	d, _ := GroupElapsed(t, models.Onward)
	return d
}

// SelectByPrice compares the first service charge of each ticket and returns
// every ticket tying the extreme, in input order.
func SelectByPrice(tickets []models.Ticket, ext Extreme) ([]models.Ticket, error) {
	return selectExtreme(tickets, ext, "select by price", func(t models.Ticket) (decimal.Decimal, bool) {
		p, ok := t.BasePrice()
		return p.Amount, ok
	}, func(a, b decimal.Decimal) int {
		return a.Cmp(b)
	})
}

// SelectByDuration returns every ticket tying the shortest or longest onward
// elapsed time, in input order.
func SelectByDuration(tickets []models.Ticket, ext Extreme) ([]models.Ticket, error) {
	return selectExtreme(tickets, ext, "select by duration", func(t models.Ticket) (time.Duration, bool) {
		return GroupElapsed(t, models.Onward)
	}, func(a, b time.Duration) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	})
}

func selectExtreme[K any](tickets []models.Ticket, ext Extreme, op string, key func(models.Ticket) (K, bool), cmp func(a, b K) int) ([]models.Ticket, error) {
	var (
		best    K
		found   bool
		winners []models.Ticket
	)

	for _, t := range tickets {
		k, ok := key(t)
		if !ok {
			continue
		}
		if !found {
			best, found = k, true
			winners = append(winners, t)
			continue
		}

		c := cmp(k, best)
		if ext == Max {
			c = -c
		}
		switch {
		case c < 0:
			best = k
			winners = append(winners[:0], t)
		case c == 0:
			winners = append(winners, t)
		}
	}

	if !found {
		return nil, &models.EmptyInputError{Operation: op + " (" + ext.String() + ")"}
	}
	return winners, nil
}
