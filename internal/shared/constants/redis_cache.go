package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for the flightly service.
// Pattern: flightly:{module}:{operation}:{identifier}:{params?}

const (
	CACHE_PREFIX = "flightly"
)

// Flight cache keys
const (
	CACHE_KEY_FLIGHTS_LIST  = CACHE_PREFIX + ":flights:list"         // + :limit:X:offset:Y:code:Z
	CACHE_KEY_FLIGHT_DETAIL = CACHE_PREFIX + ":flights:detail:uuid:" // + flight-id
)

// Flight cache TTLs. Manifests change on every passenger write, so both are
// short-lived; every mutation also invalidates by pattern.
const (
	TTL_FLIGHT_LIST   = 5 * time.Minute
	TTL_FLIGHT_DETAIL = 10 * time.Minute
)

// Invalidation patterns (used with the cache service's DeletePattern)
const (
	PATTERN_INVALIDATE_FLIGHTS_ALL = CACHE_PREFIX + ":flights:*"
)

func BuildFlightListKey(flightCode string, limit, offset int) string {
	key := fmt.Sprintf("%s:limit:%d:offset:%d", CACHE_KEY_FLIGHTS_LIST, limit, offset)
	if flightCode != "" {
		key += ":code:" + flightCode
	}
	return key
}

func BuildFlightDetailKey(flightID string) string {
	return CACHE_KEY_FLIGHT_DETAIL + flightID
}
