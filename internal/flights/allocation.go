package flights

import "sort"

// Priority weights for the reservation group score
const (
	connectionWeight     = 3
	checkedBaggageWeight = 2
	ageWeight            = 1
)

var categoryWeights = map[FlightCategory]int{
	CategoryBlack:    10,
	CategoryPlatinum: 7,
	CategoryGold:     5,
	CategoryNormal:   2,
}

// PassengerWeight computes a single passenger's contribution to their
// reservation group's score.
func PassengerWeight(p Passenger) int {
	weight := categoryWeights[p.FlightCategory]
	if p.HasConnections {
		weight += connectionWeight
	}
	if p.HasCheckedBaggage {
		weight += checkedBaggageWeight
	}
	return weight + ageWeight*p.Age
}

// reservationGroup is the set of passengers sharing one reservation id,
// derived during allocation and never persisted.
type reservationGroup struct {
	reservationID string
	members       []Passenger
	total         int
}

func (g *reservationGroup) size() int {
	return len(g.members)
}

func (g *reservationGroup) averageScore() float64 {
	return float64(g.total) / float64(len(g.members))
}

// AllocatePassengers partitions a candidate passenger list into seated and
// overbooked manifests against the given capacity.
//
// Passengers are grouped by reservation id in first-encounter order, each
// group is scored, and groups are ranked by descending average score with
// ties broken by descending size and then original order. The ranked groups
// are walked best-effort: a group is seated in its entirety when it fits in
// the remaining capacity, otherwise the whole group is overbooked and later
// groups are still considered. Groups are never split.
func AllocatePassengers(passengers []Passenger, capacity int) (seated, overbooked []Passenger) {
	byReservation := make(map[string]*reservationGroup)
	groups := make([]*reservationGroup, 0)

	for _, p := range passengers {
		group, ok := byReservation[p.ReservationID]
		if !ok {
			group = &reservationGroup{reservationID: p.ReservationID}
			byReservation[p.ReservationID] = group
			groups = append(groups, group)
		}
		group.members = append(group.members, p)
		group.total += PassengerWeight(p)
	}

	// Stable sort keeps first-appearance order as the tie-break of last resort
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].averageScore() != groups[j].averageScore() {
			return groups[i].averageScore() > groups[j].averageScore()
		}
		return groups[i].size() > groups[j].size()
	})

	seated = make([]Passenger, 0, len(passengers))
	overbooked = make([]Passenger, 0)
	for _, group := range groups {
		if len(seated)+group.size() <= capacity {
			seated = append(seated, group.members...)
		} else {
			overbooked = append(overbooked, group.members...)
		}
	}

	return seated, overbooked
}
