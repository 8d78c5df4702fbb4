package flights

import (
	"context"
	"errors"
	"testing"

	"flightly/internal/notifications"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a testify mock of the manifest persistence facade
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListFlights(ctx context.Context, flightCode string, limit, offset int) ([]FlightSummary, error) {
	args := m.Called(ctx, flightCode, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FlightSummary), args.Error(1)
}

func (m *MockRepository) FindFlight(ctx context.Context, id uuid.UUID) (*Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Flight), args.Error(1)
}

func (m *MockRepository) InsertFlight(ctx context.Context, flight *Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockRepository) ReplaceFlightFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*Flight, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Flight), args.Error(1)
}

func (m *MockRepository) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) AppendPassengers(ctx context.Context, id uuid.UUID, passengers []Passenger) (bool, error) {
	args := m.Called(ctx, id, passengers)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) RemovePassengers(ctx context.Context, id uuid.UUID, passengerIDs []int) (bool, int, error) {
	args := m.Called(ctx, id, passengerIDs)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockRepository) PatchPassenger(ctx context.Context, id uuid.UUID, passengerID int, changes map[string]interface{}) (*Passenger, error) {
	args := m.Called(ctx, id, passengerID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Passenger), args.Error(1)
}

func (m *MockRepository) FindPassenger(ctx context.Context, id uuid.UUID, passengerID int) (*Passenger, error) {
	args := m.Called(ctx, id, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Passenger), args.Error(1)
}

func (m *MockRepository) ListPassengers(ctx context.Context, id uuid.UUID, filter PassengerFilter) ([]Passenger, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Passenger), args.Error(1)
}

// recordingProducer captures overbooking notifications instead of hitting a broker
type recordingProducer struct {
	published []*notifications.OverbookingNotification
	err       error
}

func (p *recordingProducer) PublishOverbooking(ctx context.Context, n *notifications.OverbookingNotification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func TestCreateFlight_SplitsManifestByAllocation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	var inserted *Flight
	repo.On("InsertFlight", mock.Anything, mock.AnythingOfType("*flights.Flight")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*Flight)
		}).
		Return(nil)

	req := CreateFlightRequest{
		FlightCode: "FL-100",
		Capacity:   1,
		Passengers: []Passenger{
			solo(1, 5, "low"),
			solo(2, 40, "high"),
		},
	}

	flight, err := svc.CreateFlight(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Same(t, inserted, flight)
	assert.Equal(t, "FL-100", inserted.FlightCode)
	require.Len(t, inserted.Passengers, 1)
	assert.Equal(t, 2, inserted.Passengers[0].ID)
	require.Len(t, inserted.OverbookedPassengers, 1)
	assert.Equal(t, 1, inserted.OverbookedPassengers[0].ID)
	repo.AssertExpectations(t)
}

func TestCreateFlight_DefaultsMissingCategoryToNormal(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("InsertFlight", mock.Anything, mock.AnythingOfType("*flights.Flight")).Return(nil)

	req := CreateFlightRequest{
		FlightCode: "FL-100",
		Capacity:   2,
		Passengers: []Passenger{
			{ID: 1, Name: "Ada", ReservationID: "r1"},
		},
	}

	flight, err := svc.CreateFlight(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, flight.Passengers, 1)
	assert.Equal(t, CategoryNormal, flight.Passengers[0].FlightCategory)
}

func TestCreateFlight_DuplicateBatchWritesNothing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	req := CreateFlightRequest{
		FlightCode: "FL-100",
		Capacity:   2,
		Passengers: []Passenger{
			solo(7, 10, "r1"),
			solo(7, 20, "r1"),
		},
	}

	_, err := svc.CreateFlight(context.Background(), req)

	var dup *DuplicatePassengerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []int{7}, dup.PassengerIDs)
	repo.AssertNotCalled(t, "InsertFlight", mock.Anything, mock.Anything)
}

func TestCreateFlight_PublishesOverbookingNotification(t *testing.T) {
	repo := new(MockRepository)
	producer := &recordingProducer{}
	svc := NewService(repo)
	svc.SetNotificationProducer(producer)

	repo.On("InsertFlight", mock.Anything, mock.AnythingOfType("*flights.Flight")).Return(nil)

	req := CreateFlightRequest{
		FlightCode: "FL-200",
		Capacity:   1,
		Passengers: []Passenger{
			solo(1, 40, "high"),
			solo(2, 5, "low"),
		},
	}

	_, err := svc.CreateFlight(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, producer.published, 1)
	assert.Equal(t, "FL-200", producer.published[0].FlightCode)
	require.Len(t, producer.published[0].Passengers, 1)
	assert.Equal(t, 2, producer.published[0].Passengers[0].PassengerID)
}

func TestCreateFlight_ProducerFailureDoesNotFailRequest(t *testing.T) {
	repo := new(MockRepository)
	producer := &recordingProducer{err: errors.New("broker down")}
	svc := NewService(repo)
	svc.SetNotificationProducer(producer)

	repo.On("InsertFlight", mock.Anything, mock.AnythingOfType("*flights.Flight")).Return(nil)

	req := CreateFlightRequest{
		FlightCode: "FL-200",
		Capacity:   1,
		Passengers: []Passenger{
			solo(1, 40, "high"),
			solo(2, 5, "low"),
		},
	}

	flight, err := svc.CreateFlight(context.Background(), req)

	require.NoError(t, err)
	assert.NotNil(t, flight)
}

func TestUpdateFlight_WithoutPassengersLeavesManifestAlone(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("ReplaceFlightFields", mock.Anything, id, mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, hasPassengers := fields["passengers"]
		_, hasOverbooked := fields["overbooked_passengers"]
		return fields["flight_code"] == "FL-300" && fields["capacity"] == 5 && !hasPassengers && !hasOverbooked
	})).Return(&Flight{ID: id, FlightCode: "FL-300", Capacity: 5}, nil)

	flight, err := svc.UpdateFlight(context.Background(), id, UpdateFlightRequest{FlightCode: "FL-300", Capacity: 5})

	require.NoError(t, err)
	assert.Equal(t, "FL-300", flight.FlightCode)
	repo.AssertExpectations(t)
}

func TestUpdateFlight_WithPassengersRerunsAllocation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("ReplaceFlightFields", mock.Anything, id, mock.MatchedBy(func(fields map[string]interface{}) bool {
		seated, ok := fields["passengers"].(PassengerList)
		if !ok || len(seated) != 1 || seated[0].ID != 2 {
			return false
		}
		overbooked, ok := fields["overbooked_passengers"].(PassengerList)
		return ok && len(overbooked) == 1 && overbooked[0].ID == 1
	})).Return(&Flight{ID: id, FlightCode: "FL-300", Capacity: 1}, nil)

	passengers := []Passenger{
		solo(1, 5, "low"),
		solo(2, 40, "high"),
	}
	req := UpdateFlightRequest{FlightCode: "FL-300", Capacity: 1, Passengers: &passengers}

	_, err := svc.UpdateFlight(context.Background(), id, req)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateFlight_EmptyPassengersClearsManifest(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("ReplaceFlightFields", mock.Anything, id, mock.MatchedBy(func(fields map[string]interface{}) bool {
		seated, ok := fields["passengers"].(PassengerList)
		if !ok || len(seated) != 0 {
			return false
		}
		overbooked, ok := fields["overbooked_passengers"].(PassengerList)
		return ok && len(overbooked) == 0
	})).Return(&Flight{ID: id}, nil)

	empty := []Passenger{}
	_, err := svc.UpdateFlight(context.Background(), id, UpdateFlightRequest{FlightCode: "FL-300", Capacity: 3, Passengers: &empty})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAddPassengers_DuplicateAgainstManifestWritesNothing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(&Flight{
		ID:         id,
		Capacity:   5,
		Passengers: PassengerList{solo(1, 10, "r1")},
	}, nil)

	_, err := svc.AddPassengers(context.Background(), id, []Passenger{solo(1, 20, "r2")})

	var dup *DuplicatePassengerError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, []int{1}, dup.PassengerIDs)
	repo.AssertNotCalled(t, "AppendPassengers", mock.Anything, mock.Anything, mock.Anything)
}

// Incremental adds never re-run allocation, so the seated manifest can grow
// past capacity. The append below takes a full flight to capacity+1 and still
// succeeds.
func TestAddPassengers_NoCapacityRecheck(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(&Flight{
		ID:         id,
		Capacity:   1,
		Passengers: PassengerList{solo(1, 10, "r1")},
	}, nil)
	repo.On("AppendPassengers", mock.Anything, id, mock.Anything).Return(true, nil)

	added, err := svc.AddPassengers(context.Background(), id, []Passenger{solo(2, 20, "r2")})

	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, 2, added[0].ID)
	repo.AssertExpectations(t)
}

func TestAddPassengers_FlightMissing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(nil, ErrFlightNotFound)

	_, err := svc.AddPassengers(context.Background(), id, []Passenger{solo(1, 10, "r1")})

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestRemovePassengers_FlightMissing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("RemovePassengers", mock.Anything, id, []int{1}).Return(false, 0, nil)

	err := svc.RemovePassengers(context.Background(), id, []int{1})

	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestRemovePassengers_PassengerMissing(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("RemovePassengers", mock.Anything, id, []int{99}).Return(true, 0, nil)

	err := svc.RemovePassengers(context.Background(), id, []int{99})

	assert.ErrorIs(t, err, ErrPassengerNotFound)
}

func TestRemovePassengers_Success(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("RemovePassengers", mock.Anything, id, []int{1, 2}).Return(true, 2, nil)

	err := svc.RemovePassengers(context.Background(), id, []int{1, 2})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdatePassenger_PatchesSuppliedFieldsOnly(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(&Flight{ID: id}, nil)
	repo.On("PatchPassenger", mock.Anything, id, 4, map[string]interface{}{"name": "Renamed"}).
		Return(&Passenger{ID: 4, Name: "Renamed"}, nil)

	name := "Renamed"
	passenger, err := svc.UpdatePassenger(context.Background(), id, 4, UpdatePassengerRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", passenger.Name)
	repo.AssertExpectations(t)
}

func TestUpdatePassenger_EmptyPatchReturnsCurrentState(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(&Flight{ID: id}, nil)
	repo.On("FindPassenger", mock.Anything, id, 4).Return(&Passenger{ID: 4, Name: "Ada"}, nil)

	passenger, err := svc.UpdatePassenger(context.Background(), id, 4, UpdatePassengerRequest{})

	require.NoError(t, err)
	assert.Equal(t, "Ada", passenger.Name)
	repo.AssertNotCalled(t, "PatchPassenger", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePassenger_FlightMissingBeforePatch(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(nil, ErrFlightNotFound)

	name := "Renamed"
	_, err := svc.UpdatePassenger(context.Background(), id, 4, UpdatePassengerRequest{Name: &name})

	assert.ErrorIs(t, err, ErrFlightNotFound)
	repo.AssertNotCalled(t, "PatchPassenger", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOverbookedPassengers(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)
	id := uuid.New()

	repo.On("FindFlight", mock.Anything, id).Return(&Flight{
		ID:                   id,
		OverbookedPassengers: PassengerList{solo(9, 10, "bumped")},
	}, nil)

	overbooked, err := svc.GetOverbookedPassengers(context.Background(), id)

	require.NoError(t, err)
	require.Len(t, overbooked, 1)
	assert.Equal(t, 9, overbooked[0].ID)
}

func TestListFlights_DelegatesToRepository(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	summaries := []FlightSummary{{ID: uuid.New(), FlightCode: "FL-100", Capacity: 3}}
	repo.On("ListFlights", mock.Anything, "FL-100", 50, 0).Return(summaries, nil)

	got, err := svc.ListFlights(context.Background(), FlightListQuery{FlightCode: "FL-100", Limit: 50, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, summaries, got)
	repo.AssertExpectations(t)
}
