package flights

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckUniquePassengers_DisjointBatchPasses(t *testing.T) {
	existing := map[int]struct{}{1: {}, 2: {}}
	incoming := []Passenger{
		{ID: 3, Name: "Ada", ReservationID: "r1"},
		{ID: 4, Name: "Bob", ReservationID: "r2"},
	}

	assert.NoError(t, CheckUniquePassengers(existing, incoming))
}

func TestCheckUniquePassengers_EmptyBatchPasses(t *testing.T) {
	assert.NoError(t, CheckUniquePassengers(map[int]struct{}{1: {}}, nil))
	assert.NoError(t, CheckUniquePassengers(nil, nil))
}

func TestCheckUniquePassengers_InternalDuplicate(t *testing.T) {
	incoming := []Passenger{
		{ID: 7, Name: "Ada", ReservationID: "r1"},
		{ID: 7, Name: "Bob", ReservationID: "r2"},
	}

	err := CheckUniquePassengers(nil, incoming)

	var dup *DuplicatePassengerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []int{7}, dup.PassengerIDs)
}

func TestCheckUniquePassengers_CollisionWithManifest(t *testing.T) {
	existing := map[int]struct{}{5: {}, 9: {}}
	incoming := []Passenger{
		{ID: 9, Name: "Ada", ReservationID: "r1"},
		{ID: 10, Name: "Bob", ReservationID: "r1"},
	}

	err := CheckUniquePassengers(existing, incoming)

	var dup *DuplicatePassengerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []int{9}, dup.PassengerIDs)
}

func TestCheckUniquePassengers_ReportsAllOffendersSorted(t *testing.T) {
	existing := map[int]struct{}{20: {}}
	incoming := []Passenger{
		{ID: 30, ReservationID: "r1"},
		{ID: 30, ReservationID: "r1"},
		{ID: 20, ReservationID: "r2"},
		{ID: 10, ReservationID: "r3"},
	}

	err := CheckUniquePassengers(existing, incoming)

	var dup *DuplicatePassengerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []int{20, 30}, dup.PassengerIDs)
	assert.Contains(t, err.Error(), "duplicate passenger ids")
	assert.False(t, errors.Is(err, ErrNotFound))
}
