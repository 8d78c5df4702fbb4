package flights

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is the base not-found error for the flights module
	ErrNotFound = errors.New("not found")

	// ErrFlightNotFound means the flight id does not exist
	ErrFlightNotFound = fmt.Errorf("flight %w", ErrNotFound)

	// ErrPassengerNotFound means the flight exists but the passenger id does not
	ErrPassengerNotFound = fmt.Errorf("passenger %w", ErrNotFound)
)

// DuplicatePassengerError is returned by the uniqueness guard when an incoming
// passenger batch repeats identifiers internally or collides with the flight's
// existing manifest. It carries the offending identifiers.
type DuplicatePassengerError struct {
	PassengerIDs []int
}

func (e *DuplicatePassengerError) Error() string {
	ids := make([]string, 0, len(e.PassengerIDs))
	for _, id := range e.PassengerIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	return fmt.Sprintf("duplicate passenger ids: %s", strings.Join(ids, ", "))
}

func newDuplicatePassengerError(ids map[int]struct{}) *DuplicatePassengerError {
	sorted := make([]int, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Ints(sorted)
	return &DuplicatePassengerError{PassengerIDs: sorted}
}
