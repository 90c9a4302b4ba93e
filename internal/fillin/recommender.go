package fillin

import (
	"sort"

	"github.com/russ8887/coach-tool-api/internal/models"
)

// RecommendedGroupMember is a snapshot of a selected fill-in candidate,
// independent of later roster mutation.
type RecommendedGroupMember struct {
	StudentID   int64  `json:"student_id"`
	Name        string `json:"name"`
	LessonsOwed int    `json:"lessons_owed"`
	GroupOf     int    `json:"group_of"`
	SubGroup    string `json:"sub_group,omitempty"`
}

// EffectiveCapacity derives the real per-date capacity of a slot from the
// group sizes of its original occupants: any solo original caps the slot at
// 1, any paired original at 2, otherwise the stored capacity stands.
func EffectiveCapacity(slot models.SlotInstance) int {
	paired := false
	for _, s := range slot.OriginalStudents {
		if s.GroupOf == 1 {
			return 1
		}
		if s.GroupOf == 2 {
			paired = true
		}
	}
	if paired {
		return 2
	}
	return slot.Capacity
}

// Recommend produces the ranked fill-in list for one slot. Candidates are
// ordered by descending lessons owed; ties keep the candidate list's input
// order (stable sort). Selection is greedy: each candidate is checked
// against the running occupant list, and the first accepted sub-grouped
// candidate locks the slot to that sub-group for the rest of the pass.
// The result is empty when the slot has no spare effective capacity.
func Recommend(slot models.SlotInstance, candidates []models.Student) []RecommendedGroupMember {
	capacity := EffectiveCapacity(slot)
	needed := capacity - len(slot.CurrentOccupants)
	if needed <= 0 {
		return []RecommendedGroupMember{}
	}
	result := make([]RecommendedGroupMember, 0, needed)

	ranked := make([]models.Student, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LessonsOwed > ranked[j].LessonsOwed
	})

	occupants := append([]models.Student(nil), slot.CurrentOccupants...)
	compulsory := EstablishedSubGroup(occupants)

	for _, candidate := range ranked {
		if compulsory != "" && candidate.SubGroup != "" && candidate.SubGroup != compulsory {
			continue
		}
		if placement := CheckPlacement(candidate, occupants, capacity); placement.Violation {
			continue
		}

		result = append(result, RecommendedGroupMember{
			StudentID:   candidate.ID,
			Name:        candidate.Name,
			LessonsOwed: candidate.LessonsOwed,
			GroupOf:     candidate.GroupOf,
			SubGroup:    candidate.SubGroup,
		})
		occupants = append(occupants, candidate)
		if compulsory == "" && len(result) == 1 && candidate.SubGroup != "" {
			compulsory = candidate.SubGroup
		}
		if len(result) == needed {
			break
		}
	}

	return result
}
