package fillin

import (
	"github.com/russ8887/coach-tool-api/internal/models"
)

// Placement is the outcome of a pairing-rule check. A violation carries a
// human-readable reason; malformed input is reported as a violation rather
// than an error so one bad record cannot abort a whole pass.
type Placement struct {
	Violation bool
	Reason    string
}

func violation(reason string) Placement {
	return Placement{Violation: true, Reason: reason}
}

var placementOK = Placement{}

// CheckPlacement decides whether the candidate may be added to a slot with
// the given current occupants and capacity. Rules are evaluated in order:
// capacity, solo exclusivity, paired exclusivity, group mixing, sub-group
// cohesion. Occupants are assumed to hold at most one distinct non-empty
// sub-group; that invariant is maintained by the recommender.
func CheckPlacement(candidate models.Student, occupants []models.Student, capacity int) Placement {
	if capacity < 1 {
		return violation("capacity must be at least 1")
	}
	if candidate.GroupOf < 1 {
		return violation("candidate has an invalid group size")
	}
	for _, occ := range occupants {
		if occ.GroupOf < 1 {
			return violation("occupant has an invalid group size")
		}
	}

	total := len(occupants) + 1
	if total > capacity {
		return violation("capacity exceeded")
	}

	soloInvolved := candidate.GroupOf == 1
	pairedInvolved := candidate.GroupOf == 2
	occupantBelowGroup := false
	for _, occ := range occupants {
		if occ.GroupOf == 1 {
			soloInvolved = true
		}
		if occ.GroupOf == 2 {
			pairedInvolved = true
		}
		if occ.GroupOf < 3 {
			occupantBelowGroup = true
		}
	}

	if soloInvolved && total != 1 {
		return violation("solo lessons cannot share a slot")
	}
	if pairedInvolved && total > 2 {
		return violation("paired lessons allow at most two students")
	}
	if candidate.GroupOf >= 3 && occupantBelowGroup {
		return violation("group students cannot join solo or paired slots")
	}

	if established := EstablishedSubGroup(occupants); established != "" {
		if candidate.SubGroup != "" && candidate.SubGroup != established {
			return violation("candidate belongs to a different sub-group")
		}
	}

	return placementOK
}

// EstablishedSubGroup returns the sub-group already locked in by the
// occupants: the first non-empty sub-group value, or "" when none is set.
func EstablishedSubGroup(occupants []models.Student) string {
	for _, occ := range occupants {
		if occ.SubGroup != "" {
			return occ.SubGroup
		}
	}
	return ""
}
