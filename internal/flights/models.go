package flights

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// FlightCategory represents a passenger's loyalty tier
type FlightCategory string

const (
	CategoryBlack    FlightCategory = "Black"
	CategoryPlatinum FlightCategory = "Platinum"
	CategoryGold     FlightCategory = "Gold"
	CategoryNormal   FlightCategory = "Normal"
)

// IsValid checks if the flight category is valid
func (fc FlightCategory) IsValid() bool {
	switch fc {
	case CategoryBlack, CategoryPlatinum, CategoryGold, CategoryNormal:
		return true
	default:
		return false
	}
}

// Passenger is a traveler on one reservation. The json tags define the
// canonical wire and storage field names; the stored jsonb uses the same shape.
type Passenger struct {
	ID                int            `json:"id" binding:"required"`
	Name              string         `json:"name" binding:"required"`
	HasConnections    bool           `json:"hasConnections"`
	Age               int            `json:"age" binding:"min=0"`
	FlightCategory    FlightCategory `json:"flightCategory" binding:"omitempty,oneof=Black Platinum Gold Normal"`
	ReservationID     string         `json:"reservationId" binding:"required"`
	HasCheckedBaggage bool           `json:"hasCheckedBaggage"`
}

// PassengerList is a jsonb-backed passenger array column
type PassengerList []Passenger

// Value implements the driver.Valuer interface for database storage
func (pl PassengerList) Value() (driver.Value, error) {
	if pl == nil {
		return json.Marshal([]Passenger{})
	}
	return json.Marshal(pl)
}

// Scan implements the sql.Scanner interface for database retrieval
func (pl *PassengerList) Scan(value interface{}) error {
	if value == nil {
		*pl = PassengerList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, pl)
}

// GormDataType tells GORM how to handle this type
func (PassengerList) GormDataType() string {
	return "jsonb"
}

// IDs returns the identifiers of every passenger in the list
func (pl PassengerList) IDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(pl))
	for _, p := range pl {
		ids[p.ID] = struct{}{}
	}
	return ids
}

// Flight represents a flight with its seated and overbooked manifests.
// The seated list is capacity-bounded by construction at creation and
// full-replacement time; incremental adds append without re-allocation.
type Flight struct {
	ID                   uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FlightCode           string        `json:"flightCode" gorm:"type:varchar(20);not null;index"`
	Capacity             int           `json:"capacity" gorm:"not null"`
	Passengers           PassengerList `json:"passengers" gorm:"type:jsonb;not null;default:'[]'"`
	OverbookedPassengers PassengerList `json:"overbookedPassengers" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt            time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt            time.Time     `json:"updatedAt" gorm:"autoUpdateTime"`
}

// PassengerFilter holds equality predicates evaluated against a flight's
// seated passenger list. Nil fields are not applied; set fields are ANDed.
type PassengerFilter struct {
	Name              *string         `form:"name"`
	HasConnections    *bool           `form:"hasConnections"`
	Age               *int            `form:"age" binding:"omitempty,min=0"`
	FlightCategory    *FlightCategory `form:"flightCategory" binding:"omitempty,oneof=Black Platinum Gold Normal"`
	ReservationID     *string         `form:"reservationId"`
	HasCheckedBaggage *bool           `form:"hasCheckedBaggage"`
}

// Matches reports whether a passenger satisfies every set predicate
func (f PassengerFilter) Matches(p Passenger) bool {
	if f.Name != nil && p.Name != *f.Name {
		return false
	}
	if f.HasConnections != nil && p.HasConnections != *f.HasConnections {
		return false
	}
	if f.Age != nil && p.Age != *f.Age {
		return false
	}
	if f.FlightCategory != nil && p.FlightCategory != *f.FlightCategory {
		return false
	}
	if f.ReservationID != nil && p.ReservationID != *f.ReservationID {
		return false
	}
	if f.HasCheckedBaggage != nil && p.HasCheckedBaggage != *f.HasCheckedBaggage {
		return false
	}
	return true
}
