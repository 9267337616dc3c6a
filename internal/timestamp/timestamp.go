package timestamp

import (
	"time"

	"github.com/dharmasatrya/airfare/internal/models"
)

// Layout is the fixed-width leg timestamp format, e.g. 2017-03-21T0805.
const Layout = "2006-01-02T1504"

// Parse reads a leg timestamp. Values carry no offset in the source feed, so
// they are interpreted as UTC and never shifted.
func Parse(field, value string) (time.Time, error) {
	if len(value) != len(Layout) {
		return time.Time{}, &models.TimestampParseError{Field: field, Value: value, Layout: "YYYY-MM-DDTHHMM"}
	}

	t, err := time.ParseInLocation(Layout, value, time.UTC)
	if err != nil {
		return time.Time{}, &models.TimestampParseError{Field: field, Value: value, Layout: "YYYY-MM-DDTHHMM"}
	}
	return t, nil
}

// Elapsed is arrival minus departure exactly as given; negative results are
// possible for inconsistent source data and are returned unchanged.
func Elapsed(departure, arrival time.Time) time.Duration {
	return arrival.Sub(departure)
}

func Breakdown(d time.Duration) models.Duration {
	total := int(d / time.Minute)
	return models.Duration{
		Hours:        total / 60,
		Minutes:      total % 60,
		TotalMinutes: total,
	}
}
