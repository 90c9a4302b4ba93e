package fillin

import (
	"github.com/russ8887/coach-tool-api/internal/models"
)

// FilterCandidates computes the eligible fill-in pool for one slot instance.
// A student qualifies when they are active, owe at least one lesson, are not
// already rostered on or occupying the slot, are available at the slot's day
// and start time, do not clash with an established sub-group, and are not
// blocked on the slot's date. Input order is preserved; ranking happens in
// Recommend.
func FilterCandidates(roster []models.Student, slot models.SlotInstance, blocks []models.DailyBlock, avail *Cache) []models.Student {
	if avail == nil {
		avail = NewCache()
	}

	taken := make(map[int64]struct{}, len(slot.OriginalStudents)+len(slot.CurrentOccupants))
	for _, s := range slot.OriginalStudents {
		taken[s.ID] = struct{}{}
	}
	for _, s := range slot.CurrentOccupants {
		taken[s.ID] = struct{}{}
	}

	established := EstablishedSubGroup(slot.CurrentOccupants)

	candidates := make([]models.Student, 0, len(roster))
	for _, student := range roster {
		if !student.Active || student.LessonsOwed <= 0 {
			continue
		}
		if _, ok := taken[student.ID]; ok {
			continue
		}
		if !avail.IsAvailable(student, slot.DayOfWeek, slot.StartTime) {
			continue
		}
		if established != "" && student.SubGroup != "" && student.SubGroup != established {
			continue
		}
		if IsBlocked(student, slot.SlotDate, slot.CoachID, blocks) {
			continue
		}
		candidates = append(candidates, student)
	}

	return candidates
}
