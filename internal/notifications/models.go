package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BumpedPassenger is the slice of passenger data carried in an overbooking
// notification; enough for downstream rebooking or outreach, nothing more.
type BumpedPassenger struct {
	PassengerID   int    `json:"passengerId"`
	Name          string `json:"name"`
	ReservationID string `json:"reservationId"`
}

// OverbookingNotification is published whenever an allocation run leaves
// passengers off the seated manifest.
type OverbookingNotification struct {
	ID         uuid.UUID         `json:"id"`
	FlightID   uuid.UUID         `json:"flightId"`
	FlightCode string            `json:"flightCode"`
	Capacity   int               `json:"capacity"`
	Passengers []BumpedPassenger `json:"passengers"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewOverbookingNotification builds a notification for one flight's bumped
// passengers.
func NewOverbookingNotification(flightID uuid.UUID, flightCode string, capacity int, passengers []BumpedPassenger) *OverbookingNotification {
	return &OverbookingNotification{
		ID:         uuid.New(),
		FlightID:   flightID,
		FlightCode: flightCode,
		Capacity:   capacity,
		Passengers: passengers,
		CreatedAt:  time.Now().UTC(),
	}
}

// ToJSON serializes the notification for the wire
func (n *OverbookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// GetPartitionKey routes all notifications for one flight to one partition
func (n *OverbookingNotification) GetPartitionKey() string {
	return n.FlightID.String()
}
