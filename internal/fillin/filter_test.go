package fillin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/russ8887/coach-tool-api/internal/models"
)

func mondaySlot() models.SlotInstance {
	return models.SlotInstance{
		LessonSlot: models.LessonSlot{
			ID:        10,
			CoachID:   4,
			DayOfWeek: "Monday",
			StartTime: "09:00",
			Capacity:  3,
		},
		SlotDate: date(2025, time.June, 9),
	}
}

func candidate(id int64, name string, owed int) models.Student {
	return models.Student{
		ID:           id,
		Name:         name,
		GroupOf:      3,
		LessonsOwed:  owed,
		Availability: "Monday: 09:00",
		Active:       true,
	}
}

func TestFilterCandidatesPreconditions(t *testing.T) {
	inactive := candidate(1, "Inactive", 3)
	inactive.Active = false
	nothingOwed := candidate(2, "Paid up", 0)
	negativeOwed := candidate(3, "In credit", -2)
	eligible := candidate(4, "Eligible", 1)

	got := FilterCandidates([]models.Student{inactive, nothingOwed, negativeOwed, eligible}, mondaySlot(), nil, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)
}

func TestFilterCandidatesExcludesRosteredAndOccupying(t *testing.T) {
	original := candidate(1, "Original", 5)
	occupant := candidate(2, "Occupant", 5)
	eligible := candidate(3, "Eligible", 5)

	slot := mondaySlot()
	slot.OriginalStudents = []models.Student{original}
	slot.CurrentOccupants = []models.Student{occupant}

	got := FilterCandidates([]models.Student{original, occupant, eligible}, slot, nil, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestFilterCandidatesAvailabilityGate(t *testing.T) {
	available := candidate(1, "Available", 2)
	wrongDay := candidate(2, "Wrong day", 2)
	wrongDay.Availability = "Tuesday: 09:00"
	wrongTime := candidate(3, "Wrong time", 2)
	wrongTime.Availability = "Monday: 10:00"
	noText := candidate(4, "No availability", 2)
	noText.Availability = ""

	got := FilterCandidates([]models.Student{available, wrongDay, wrongTime, noText}, mondaySlot(), nil, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilterCandidatesSubGroupGate(t *testing.T) {
	slot := mondaySlot()
	slot.CurrentOccupants = []models.Student{withSubGroup(candidate(9, "Occupant", 0), "squad-a")}

	sameSquad := withSubGroup(candidate(1, "Same", 2), "squad-a")
	otherSquad := withSubGroup(candidate(2, "Other", 2), "squad-b")
	noSquad := candidate(3, "None", 2)

	got := FilterCandidates([]models.Student{sameSquad, otherSquad, noSquad}, slot, nil, nil)

	ids := make([]int64, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestFilterCandidatesBlockGate(t *testing.T) {
	blocked := candidate(1, "Blocked", 2)
	blocked.ClassName = "Year 7A"
	free := candidate(2, "Free", 2)
	free.ClassName = "Year 8A"

	blocks := []models.DailyBlock{
		{BlockDate: date(2025, time.June, 9), BlockType: models.BlockYearLevelAbsence, Identifier: "Year 7"},
	}

	got := FilterCandidates([]models.Student{blocked, free}, mondaySlot(), blocks, nil)

	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestFilterCandidatesIsIdempotentAndOrderPreserving(t *testing.T) {
	roster := []models.Student{
		candidate(1, "A", 1),
		candidate(2, "B", 9),
		candidate(3, "C", 4),
	}
	slot := mondaySlot()

	first := FilterCandidates(roster, slot, nil, nil)
	second := FilterCandidates(roster, slot, nil, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, int64(2), first[1].ID)
	assert.Equal(t, int64(3), first[2].ID)
}

func TestFilterCandidatesSharesCacheAcrossSlots(t *testing.T) {
	cache := NewCache()
	roster := []models.Student{candidate(1, "A", 2)}

	slotA := mondaySlot()
	slotB := mondaySlot()
	slotB.ID = 11
	slotB.StartTime = "10:00"

	assert.Len(t, FilterCandidates(roster, slotA, nil, cache), 1)
	assert.Len(t, FilterCandidates(roster, slotB, nil, cache), 0)
}
