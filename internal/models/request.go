package models

import "strings"

type QueryMode string

const (
	ModeAll           QueryMode = "all"
	ModeDirect        QueryMode = "direct"
	ModeWithTransfers QueryMode = "with_transfers"
	ModeCheapest      QueryMode = "cheapest"
	ModeMostExpensive QueryMode = "most_expensive"
	ModeLongest       QueryMode = "longest"
	ModeShortest      QueryMode = "shortest"
)

var QueryModes = []QueryMode{
	ModeAll,
	ModeDirect,
	ModeWithTransfers,
	ModeCheapest,
	ModeMostExpensive,
	ModeLongest,
	ModeShortest,
}

// ParseQueryMode accepts the mode names case-insensitively. An empty string
// selects ModeAll.
func ParseQueryMode(s string) (QueryMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeAll, nil
	}
	for _, m := range QueryModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ErrInvalidMode
}

type Policy string

const (
	FailFast   Policy = "fail_fast"
	BestEffort Policy = "best_effort"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case FailFast:
		return FailFast, nil
	case BestEffort, "":
		return BestEffort, nil
	default:
		return "", ErrInvalidPolicy
	}
}

type TicketsRequest struct {
	Mode      string `query:"mode"`
	Policy    string `query:"policy"`
	SortBy    string `query:"sort_by"`
	SortOrder string `query:"sort_order"`
}

// Validate normalizes the request in place and rejects unknown values.
func (r *TicketsRequest) Validate(defaultPolicy Policy) (QueryMode, Policy, error) {
	mode, err := ParseQueryMode(r.Mode)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(r.Policy) == "" {
		r.Policy = string(defaultPolicy)
	}
	policy, err := ParsePolicy(r.Policy)
	if err != nil {
		return "", "", err
	}
	r.Mode = string(mode)
	r.Policy = string(policy)
	return mode, policy, nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrInvalidMode     ValidationError = "mode must be one of all, direct, with_transfers, cheapest, most_expensive, longest, shortest"
	ErrInvalidPolicy   ValidationError = "policy must be fail_fast or best_effort"
	ErrMissingDocument ValidationError = "an XML document is required"
	ErrInvalidSortKey  ValidationError = "sort_by must be one of price, duration, departure, stops"
	ErrTooLarge        ValidationError = "document exceeds the maximum allowed size"
)
