package flights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the manifest persistence facade the flights service depends
// on. Every mutating operation is a single atomic statement against the
// flight's row; there is no cross-operation transaction, so concurrent
// writers race at the storage layer by design of the calling service.
type Repository interface {
	ListFlights(ctx context.Context, flightCode string, limit, offset int) ([]FlightSummary, error)
	FindFlight(ctx context.Context, id uuid.UUID) (*Flight, error)
	InsertFlight(ctx context.Context, flight *Flight) error
	ReplaceFlightFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*Flight, error)
	DeleteFlight(ctx context.Context, id uuid.UUID) error

	AppendPassengers(ctx context.Context, id uuid.UUID, passengers []Passenger) (bool, error)
	RemovePassengers(ctx context.Context, id uuid.UUID, passengerIDs []int) (matched bool, removed int, err error)
	PatchPassenger(ctx context.Context, id uuid.UUID, passengerID int, changes map[string]interface{}) (*Passenger, error)
	FindPassenger(ctx context.Context, id uuid.UUID, passengerID int) (*Passenger, error)
	ListPassengers(ctx context.Context, id uuid.UUID, filter PassengerFilter) ([]Passenger, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new flight manifest repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListFlights returns passenger-free flight summaries, optionally filtered by
// exact flight code.
func (r *repository) ListFlights(ctx context.Context, flightCode string, limit, offset int) ([]FlightSummary, error) {
	var summaries []FlightSummary

	query := r.db.WithContext(ctx).Model(&Flight{}).Select("id", "flight_code", "capacity")
	if flightCode != "" {
		query = query.Where("flight_code = ?", flightCode)
	}

	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	return summaries, nil
}

func (r *repository) FindFlight(ctx context.Context, id uuid.UUID) (*Flight, error) {
	var flight Flight
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&flight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}

	return &flight, nil
}

func (r *repository) InsertFlight(ctx context.Context, flight *Flight) error {
	flight.ID = uuid.New()
	if flight.Passengers == nil {
		flight.Passengers = PassengerList{}
	}
	if flight.OverbookedPassengers == nil {
		flight.OverbookedPassengers = PassengerList{}
	}

	if err := r.db.WithContext(ctx).Create(flight).Error; err != nil {
		return fmt.Errorf("failed to insert flight: %w", err)
	}
	return nil
}

// ReplaceFlightFields applies a partial update atomically. When the caller
// replaces the manifest, fields carries the already-allocated passengers and
// overbooked_passengers pair alongside the attribute changes.
func (r *repository) ReplaceFlightFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*Flight, error) {
	result := r.db.WithContext(ctx).Model(&Flight{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update flight: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrFlightNotFound
	}

	return r.FindFlight(ctx, id)
}

func (r *repository) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Flight{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete flight: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFlightNotFound
	}
	return nil
}

// AppendPassengers atomically appends to the seated array. It reports whether
// the flight existed; it does not enforce the capacity bound, which is a
// creation and full-replacement concern.
func (r *repository) AppendPassengers(ctx context.Context, id uuid.UUID, passengers []Passenger) (bool, error) {
	payload, err := json.Marshal(passengers)
	if err != nil {
		return false, fmt.Errorf("failed to marshal passengers: %w", err)
	}

	result := r.db.WithContext(ctx).Model(&Flight{}).Where("id = ?", id).
		Update("passengers", gorm.Expr("passengers || ?::jsonb", string(payload)))
	if result.Error != nil {
		return false, fmt.Errorf("failed to append passengers: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// RemovePassengers filters the given identifiers out of the seated array in a
// single statement and reports how many elements were dropped.
func (r *repository) RemovePassengers(ctx context.Context, id uuid.UUID, passengerIDs []int) (bool, int, error) {
	var row struct {
		Matched bool
		Removed int
	}

	err := r.db.WithContext(ctx).Raw(`
		WITH target AS (
			SELECT id, jsonb_array_length(passengers) AS before_len
			FROM flights
			WHERE id = ?
		), updated AS (
			UPDATE flights f
			SET passengers = COALESCE(
					(SELECT jsonb_agg(elem)
					 FROM jsonb_array_elements(f.passengers) elem
					 WHERE (elem->>'id')::bigint NOT IN (?)),
					'[]'::jsonb),
				updated_at = NOW()
			FROM target t
			WHERE f.id = t.id
			RETURNING t.before_len - jsonb_array_length(f.passengers) AS removed
		)
		SELECT EXISTS (SELECT 1 FROM target) AS matched,
		       COALESCE((SELECT removed FROM updated), 0) AS removed
	`, id, passengerIDs).Scan(&row).Error
	if err != nil {
		return false, 0, fmt.Errorf("failed to remove passengers: %w", err)
	}

	return row.Matched, row.Removed, nil
}

// PatchPassenger merges the supplied field changes into the matching array
// element in a single statement. Returns ErrPassengerNotFound when the flight
// row exists but holds no passenger with the given id; the caller is expected
// to have resolved the flight first.
func (r *repository) PatchPassenger(ctx context.Context, id uuid.UUID, passengerID int, changes map[string]interface{}) (*Passenger, error) {
	patch, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal passenger changes: %w", err)
	}
	match, err := json.Marshal([]map[string]int{{"id": passengerID}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal passenger match: %w", err)
	}

	var row struct {
		Passengers PassengerList
	}
	result := r.db.WithContext(ctx).Raw(`
		UPDATE flights
		SET passengers = (
				SELECT jsonb_agg(
					CASE WHEN (elem->>'id')::bigint = ? THEN elem || ?::jsonb ELSE elem END
				)
				FROM jsonb_array_elements(passengers) elem
			),
			updated_at = NOW()
		WHERE id = ? AND passengers @> ?::jsonb
		RETURNING passengers
	`, passengerID, string(patch), id, string(match)).Scan(&row)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to patch passenger: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPassengerNotFound
	}

	for _, p := range row.Passengers {
		if p.ID == passengerID {
			return &p, nil
		}
	}
	return nil, ErrPassengerNotFound
}

func (r *repository) FindPassenger(ctx context.Context, id uuid.UUID, passengerID int) (*Passenger, error) {
	flight, err := r.FindFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, p := range flight.Passengers {
		if p.ID == passengerID {
			return &p, nil
		}
	}
	return nil, ErrPassengerNotFound
}

// ListPassengers evaluates the equality filters against a snapshot of the
// flight's seated list.
func (r *repository) ListPassengers(ctx context.Context, id uuid.UUID, filter PassengerFilter) ([]Passenger, error) {
	flight, err := r.FindFlight(ctx, id)
	if err != nil {
		return nil, err
	}

	matched := make([]Passenger, 0, len(flight.Passengers))
	for _, p := range flight.Passengers {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
