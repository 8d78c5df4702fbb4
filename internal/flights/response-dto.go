package flights

import "github.com/google/uuid"

// FlightSummary is the passenger-free projection returned by flight listings
type FlightSummary struct {
	ID         uuid.UUID `json:"id"`
	FlightCode string    `json:"flightCode"`
	Capacity   int       `json:"capacity"`
}
