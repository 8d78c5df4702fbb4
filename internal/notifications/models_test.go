package notifications

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOverbookingNotification(t *testing.T) {
	flightID := uuid.New()
	bumped := []BumpedPassenger{
		{PassengerID: 9, Name: "Ada", ReservationID: "r1"},
	}

	n := NewOverbookingNotification(flightID, "FL-100", 3, bumped)

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.Equal(t, flightID, n.FlightID)
	assert.Equal(t, "FL-100", n.FlightCode)
	assert.Equal(t, 3, n.Capacity)
	assert.Equal(t, bumped, n.Passengers)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestOverbookingNotification_PartitionKeyIsFlightID(t *testing.T) {
	flightID := uuid.New()
	first := NewOverbookingNotification(flightID, "FL-100", 3, nil)
	second := NewOverbookingNotification(flightID, "FL-100", 3, nil)

	assert.Equal(t, flightID.String(), first.GetPartitionKey())
	assert.Equal(t, first.GetPartitionKey(), second.GetPartitionKey())
}

func TestOverbookingNotification_ToJSON(t *testing.T) {
	n := NewOverbookingNotification(uuid.New(), "FL-100", 2, []BumpedPassenger{
		{PassengerID: 4, Name: "Bob", ReservationID: "r2"},
	})

	payload, err := n.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "FL-100", decoded["flightCode"])
	passengers := decoded["passengers"].([]interface{})
	require.Len(t, passengers, 1)
	assert.Equal(t, float64(4), passengers[0].(map[string]interface{})["passengerId"])
}
