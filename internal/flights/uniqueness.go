package flights

// CheckUniquePassengers validates that an incoming passenger batch neither
// repeats identifiers internally nor collides with the identifiers already
// present on the flight. It must run before any persistence write; a failed
// check means the batch is rejected wholesale and nothing reaches storage.
func CheckUniquePassengers(existing map[int]struct{}, incoming []Passenger) error {
	offending := make(map[int]struct{})

	seen := make(map[int]struct{}, len(incoming))
	for _, p := range incoming {
		if _, dup := seen[p.ID]; dup {
			offending[p.ID] = struct{}{}
		}
		seen[p.ID] = struct{}{}
	}

	for _, p := range incoming {
		if _, exists := existing[p.ID]; exists {
			offending[p.ID] = struct{}{}
		}
	}

	if len(offending) > 0 {
		return newDuplicatePassengerError(offending)
	}
	return nil
}
