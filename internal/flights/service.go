package flights

import (
	"context"
	"log/slog"
	"time"

	"flightly/internal/notifications"
	"flightly/internal/shared/constants"
	"flightly/pkg/cache"
	"flightly/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Optional collaborators injected after construction
	SetCacheService(cacheService cache.Service)
	SetNotificationProducer(producer notifications.Producer)

	ListFlights(ctx context.Context, query FlightListQuery) ([]FlightSummary, error)
	GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error)
	CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error)
	UpdateFlight(ctx context.Context, id uuid.UUID, req UpdateFlightRequest) (*Flight, error)
	DeleteFlight(ctx context.Context, id uuid.UUID) error

	AddPassengers(ctx context.Context, id uuid.UUID, passengers []Passenger) ([]Passenger, error)
	RemovePassengers(ctx context.Context, id uuid.UUID, passengerIDs []int) error
	UpdatePassenger(ctx context.Context, id uuid.UUID, passengerID int, req UpdatePassengerRequest) (*Passenger, error)
	GetPassenger(ctx context.Context, id uuid.UUID, passengerID int) (*Passenger, error)
	ListPassengers(ctx context.Context, id uuid.UUID, filter PassengerFilter) ([]Passenger, error)
	GetOverbookedPassengers(ctx context.Context, id uuid.UUID) ([]Passenger, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	producer     notifications.Producer
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetNotificationProducer(producer notifications.Producer) {
	s.producer = producer
}

// Cache helper methods

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		logger.GetDefault().Warn("Cache set failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cacheService == nil {
		return false
	}
	return s.cacheService.Get(ctx, key, dest) == nil
}

func (s *service) invalidateFlightCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_FLIGHTS_ALL); err != nil {
		logger.GetDefault().Warn("Cache invalidation failed", slog.Any("error", err))
	}
}

// publishOverbooking notifies downstream consumers about bumped passengers.
// Fire-and-forget: a broker failure never fails the request that ran the
// allocation.
func (s *service) publishOverbooking(ctx context.Context, flight *Flight) {
	if s.producer == nil || len(flight.OverbookedPassengers) == 0 {
		return
	}

	bumped := make([]notifications.BumpedPassenger, 0, len(flight.OverbookedPassengers))
	for _, p := range flight.OverbookedPassengers {
		bumped = append(bumped, notifications.BumpedPassenger{
			PassengerID:   p.ID,
			Name:          p.Name,
			ReservationID: p.ReservationID,
		})
	}

	notification := notifications.NewOverbookingNotification(flight.ID, flight.FlightCode, flight.Capacity, bumped)
	if err := s.producer.PublishOverbooking(ctx, notification); err != nil {
		logger.GetDefault().Error("Failed to publish overbooking notification",
			slog.String("flight_id", flight.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	logger.GetDefault().LogPassengersOverbooked(ctx, flight.ID.String(), len(flight.OverbookedPassengers))
}

// normalizePassengers applies the default tier to passengers that omit it
func normalizePassengers(passengers []Passenger) []Passenger {
	normalized := make([]Passenger, len(passengers))
	copy(normalized, passengers)
	for i := range normalized {
		if normalized[i].FlightCategory == "" {
			normalized[i].FlightCategory = CategoryNormal
		}
	}
	return normalized
}

func (s *service) ListFlights(ctx context.Context, query FlightListQuery) ([]FlightSummary, error) {
	key := constants.BuildFlightListKey(query.FlightCode, query.Limit, query.Offset)

	var cached []FlightSummary
	if s.getCache(ctx, key, &cached) {
		return cached, nil
	}

	summaries, err := s.repo.ListFlights(ctx, query.FlightCode, query.Limit, query.Offset)
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, key, summaries, constants.TTL_FLIGHT_LIST)
	return summaries, nil
}

func (s *service) GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error) {
	key := constants.BuildFlightDetailKey(id.String())

	var cached Flight
	if s.getCache(ctx, key, &cached) {
		return &cached, nil
	}

	flight, err := s.repo.FindFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, key, flight, constants.TTL_FLIGHT_DETAIL)
	return flight, nil
}

// CreateFlight runs the allocation engine over the candidate passenger list,
// checks both resulting manifests for duplicate identifiers, and persists the
// flight in one atomic insert. Nothing is written when the guard rejects.
func (s *service) CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error) {
	passengers := normalizePassengers(req.Passengers)
	seated, overbooked := AllocatePassengers(passengers, req.Capacity)

	if err := CheckUniquePassengers(nil, seated); err != nil {
		return nil, err
	}
	if err := CheckUniquePassengers(nil, overbooked); err != nil {
		return nil, err
	}

	flight := &Flight{
		FlightCode:           req.FlightCode,
		Capacity:             req.Capacity,
		Passengers:           seated,
		OverbookedPassengers: overbooked,
	}
	if err := s.repo.InsertFlight(ctx, flight); err != nil {
		return nil, err
	}

	s.invalidateFlightCache(ctx)
	s.publishOverbooking(ctx, flight)
	logger.GetDefault().LogFlightCreated(ctx, flight.ID.String(), flight.FlightCode)
	return flight, nil
}

// UpdateFlight changes flight attributes and, when the request carries a
// passengers field, replaces the whole manifest through a fresh allocation
// run. An absent passengers field leaves both manifests untouched.
func (s *service) UpdateFlight(ctx context.Context, id uuid.UUID, req UpdateFlightRequest) (*Flight, error) {
	fields := map[string]interface{}{
		"flight_code": req.FlightCode,
		"capacity":    req.Capacity,
	}

	if req.Passengers != nil {
		passengers := normalizePassengers(*req.Passengers)
		seated, overbooked := AllocatePassengers(passengers, req.Capacity)

		if err := CheckUniquePassengers(nil, seated); err != nil {
			return nil, err
		}
		if err := CheckUniquePassengers(nil, overbooked); err != nil {
			return nil, err
		}

		fields["passengers"] = PassengerList(seated)
		fields["overbooked_passengers"] = PassengerList(overbooked)
	}

	flight, err := s.repo.ReplaceFlightFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.invalidateFlightCache(ctx)
	if req.Passengers != nil {
		s.publishOverbooking(ctx, flight)
	}
	return flight, nil
}

func (s *service) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteFlight(ctx, id); err != nil {
		return err
	}
	s.invalidateFlightCache(ctx)
	return nil
}

// AddPassengers appends to the seated manifest without re-running allocation:
// capacity is enforced at creation and full-replacement time only, so
// repeated adds can take the seated count past capacity. Uniqueness is
// checked against the flight's current seated identifiers before the append.
func (s *service) AddPassengers(ctx context.Context, id uuid.UUID, passengers []Passenger) ([]Passenger, error) {
	flight, err := s.repo.FindFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	incoming := normalizePassengers(passengers)
	if err := CheckUniquePassengers(flight.Passengers.IDs(), incoming); err != nil {
		return nil, err
	}

	matched, err := s.repo.AppendPassengers(ctx, id, incoming)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrFlightNotFound
	}

	s.invalidateFlightCache(ctx)
	return incoming, nil
}

func (s *service) RemovePassengers(ctx context.Context, id uuid.UUID, passengerIDs []int) error {
	matched, removed, err := s.repo.RemovePassengers(ctx, id, passengerIDs)
	if err != nil {
		return err
	}
	if !matched {
		return ErrFlightNotFound
	}
	if removed == 0 {
		return ErrPassengerNotFound
	}

	s.invalidateFlightCache(ctx)
	return nil
}

func (s *service) UpdatePassenger(ctx context.Context, id uuid.UUID, passengerID int, req UpdatePassengerRequest) (*Passenger, error) {
	// Resolve the flight first so a missing flight and a missing passenger
	// surface as distinct conditions.
	if _, err := s.repo.FindFlight(ctx, id); err != nil {
		return nil, err
	}

	changes := req.Changes()
	if len(changes) == 0 {
		return s.repo.FindPassenger(ctx, id, passengerID)
	}

	passenger, err := s.repo.PatchPassenger(ctx, id, passengerID, changes)
	if err != nil {
		return nil, err
	}

	s.invalidateFlightCache(ctx)
	return passenger, nil
}

func (s *service) GetPassenger(ctx context.Context, id uuid.UUID, passengerID int) (*Passenger, error) {
	return s.repo.FindPassenger(ctx, id, passengerID)
}

func (s *service) ListPassengers(ctx context.Context, id uuid.UUID, filter PassengerFilter) ([]Passenger, error) {
	return s.repo.ListPassengers(ctx, id, filter)
}

func (s *service) GetOverbookedPassengers(ctx context.Context, id uuid.UUID) ([]Passenger, error) {
	flight, err := s.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	return flight.OverbookedPassengers, nil
}
