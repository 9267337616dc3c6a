package models

type FormattedPrice struct {
	Price
	Formatted string `json:"formatted"`
}

type TicketView struct {
	RoundTrip     bool             `json:"round_trip"`
	Direct        bool             `json:"direct"`
	Flights       []Flight         `json:"flights"`
	Prices        []FormattedPrice `json:"prices"`
	OnwardElapsed Duration         `json:"onward_elapsed"`
	ReturnElapsed *Duration        `json:"return_elapsed,omitempty"`
}

type ItineraryFailure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type TicketsMetadata struct {
	ResultID          string             `json:"result_id"`
	Mode              QueryMode          `json:"mode"`
	Policy            Policy             `json:"policy"`
	TotalItineraries  int                `json:"total_itineraries"`
	Normalized        int                `json:"normalized"`
	Failed            int                `json:"failed"`
	FailedItineraries []ItineraryFailure `json:"failed_itineraries,omitempty"`
	TotalResults      int                `json:"total_results"`
	ParseTimeMs       int64              `json:"parse_time_ms"`
	CacheHit          bool               `json:"cache_hit"`
}

type TicketsResponse struct {
	Metadata TicketsMetadata `json:"metadata"`
	Tickets  []TicketView    `json:"tickets"`
}

type BatchEntry struct {
	Name     string           `json:"name"`
	Response *TicketsResponse `json:"response,omitempty"`
	Error    *ErrorResponse   `json:"error,omitempty"`
}

type BatchResponse struct {
	Documents int          `json:"documents"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []BatchEntry `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
