package flights

type CreateFlightRequest struct {
	FlightCode string      `json:"flightCode" binding:"required"`
	Capacity   int         `json:"capacity" binding:"required,min=1"`
	Passengers []Passenger `json:"passengers" binding:"omitempty,dive"`
}

// UpdateFlightRequest replaces a flight's attributes. Passengers is a pointer
// so an absent field leaves the manifest untouched while an empty array
// replaces it (and re-runs allocation).
type UpdateFlightRequest struct {
	FlightCode string       `json:"flightCode" binding:"required"`
	Capacity   int          `json:"capacity" binding:"required,min=1"`
	Passengers *[]Passenger `json:"passengers" binding:"omitempty,dive"`
}

// UpdatePassengerRequest carries a partial passenger update; only non-nil
// fields are applied.
type UpdatePassengerRequest struct {
	Name              *string         `json:"name"`
	HasConnections    *bool           `json:"hasConnections"`
	Age               *int            `json:"age" binding:"omitempty,min=0"`
	FlightCategory    *FlightCategory `json:"flightCategory" binding:"omitempty,oneof=Black Platinum Gold Normal"`
	ReservationID     *string         `json:"reservationId"`
	HasCheckedBaggage *bool           `json:"hasCheckedBaggage"`
}

// Changes returns the supplied fields keyed by their canonical wire names,
// ready to be merged into the stored passenger object.
func (r UpdatePassengerRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.HasConnections != nil {
		changes["hasConnections"] = *r.HasConnections
	}
	if r.Age != nil {
		changes["age"] = *r.Age
	}
	if r.FlightCategory != nil {
		changes["flightCategory"] = *r.FlightCategory
	}
	if r.ReservationID != nil {
		changes["reservationId"] = *r.ReservationID
	}
	if r.HasCheckedBaggage != nil {
		changes["hasCheckedBaggage"] = *r.HasCheckedBaggage
	}
	return changes
}

type FlightListQuery struct {
	FlightCode string `form:"flightCode"`
	Limit      int    `form:"limit,default=50" binding:"min=1,max=100"`
	Offset     int    `form:"offset,default=0" binding:"min=0"`
}

type AddPassengersRequest struct {
	Passengers []Passenger `json:"passengers" binding:"required,min=1,dive"`
}
