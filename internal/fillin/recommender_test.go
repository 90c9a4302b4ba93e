package fillin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/russ8887/coach-tool-api/internal/models"
)

func TestEffectiveCapacity(t *testing.T) {
	slot := mondaySlot()
	assert.Equal(t, 3, EffectiveCapacity(slot))

	slot.OriginalStudents = []models.Student{grouped(1), grouped(2)}
	assert.Equal(t, 3, EffectiveCapacity(slot))

	slot.OriginalStudents = []models.Student{grouped(1), paired(2)}
	assert.Equal(t, 2, EffectiveCapacity(slot))

	slot.OriginalStudents = []models.Student{paired(1), solo(2)}
	assert.Equal(t, 1, EffectiveCapacity(slot))
}

func TestRecommendRanksByLessonsOwedWithStableTieBreak(t *testing.T) {
	slot := mondaySlot()
	candidates := []models.Student{
		candidate(1, "A", 5),
		candidate(2, "B", 5),
		candidate(3, "C", 3),
		candidate(4, "D", 1),
	}

	got := Recommend(slot, candidates)

	// Equal owed counts keep input order: A before B, always.
	assert.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, "C", got[2].Name)
}

func TestRecommendFullSlotReturnsEmpty(t *testing.T) {
	slot := mondaySlot()
	slot.Capacity = 2
	slot.CurrentOccupants = []models.Student{grouped(8), grouped(9)}

	got := Recommend(slot, []models.Student{
		candidate(1, "A", 5),
		candidate(2, "B", 5),
	})

	assert.Empty(t, got)
}

func TestRecommendSoloLockLimitsToOne(t *testing.T) {
	// Stored capacity 3, but the original occupant takes solo lessons, so the
	// effective capacity is 1 and only a single fill-in is offered.
	slot := mondaySlot()
	slot.Capacity = 3
	slot.OriginalStudents = []models.Student{solo(8)}

	a := candidate(1, "A", 5)
	a.GroupOf = 1
	b := candidate(2, "B", 4)
	b.GroupOf = 1

	got := Recommend(slot, []models.Student{a, b})

	assert.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestRecommendLocksSubGroupOnFirstAccept(t *testing.T) {
	slot := mondaySlot()

	first := withSubGroup(candidate(1, "A", 5), "squad-a")
	rival := withSubGroup(candidate(2, "B", 4), "squad-b")
	mate := withSubGroup(candidate(3, "C", 3), "squad-a")

	got := Recommend(slot, []models.Student{first, rival, mate})

	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "C", got[1].Name)
}

func TestRecommendSkippedCandidateDoesNotConsumeCapacity(t *testing.T) {
	slot := mondaySlot()
	slot.Capacity = 2
	slot.CurrentOccupants = []models.Student{withSubGroup(grouped(9), "squad-a")}

	rival := withSubGroup(candidate(1, "Rival", 9), "squad-b")
	mate := withSubGroup(candidate(2, "Mate", 1), "squad-a")

	got := Recommend(slot, []models.Student{rival, mate})

	assert.Len(t, got, 1)
	assert.Equal(t, "Mate", got[0].Name)
}

func TestRecommendRespectsExistingSubGroup(t *testing.T) {
	slot := mondaySlot()
	slot.CurrentOccupants = []models.Student{withSubGroup(grouped(9), "squad-a")}

	other := withSubGroup(candidate(1, "Other", 9), "squad-b")
	free := candidate(2, "Free", 1)

	got := Recommend(slot, []models.Student{other, free})

	assert.Len(t, got, 1)
	assert.Equal(t, "Free", got[0].Name)
}

func TestRecommendCapacityInvariant(t *testing.T) {
	slot := mondaySlot()
	slot.Capacity = 4
	slot.CurrentOccupants = []models.Student{grouped(8)}

	candidates := make([]models.Student, 0, 10)
	for i := int64(1); i <= 10; i++ {
		candidates = append(candidates, candidate(i, "S", int(i)))
	}

	got := Recommend(slot, candidates)

	assert.LessOrEqual(t, len(slot.CurrentOccupants)+len(got), EffectiveCapacity(slot))
	assert.Len(t, got, 3)
}

func TestRecommendOutputIsSnapshot(t *testing.T) {
	slot := mondaySlot()
	roster := []models.Student{candidate(1, "A", 5)}

	got := Recommend(slot, roster)
	roster[0].Name = "Renamed"
	roster[0].LessonsOwed = 0

	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, 5, got[0].LessonsOwed)
}

func TestRecommendPairedCandidates(t *testing.T) {
	slot := mondaySlot()
	slot.Capacity = 4

	a := candidate(1, "A", 5)
	a.GroupOf = 2
	b := candidate(2, "B", 4)
	b.GroupOf = 2
	c := candidate(3, "C", 3)
	c.GroupOf = 2

	got := Recommend(slot, []models.Student{a, b, c})

	// Two paired students fill the slot; the third would exceed the pair limit.
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
}

func TestRecommendIsPureAcrossInvocations(t *testing.T) {
	slot := mondaySlot()
	slot.SlotDate = date(2025, time.June, 9)
	candidates := []models.Student{
		candidate(1, "A", 5),
		candidate(2, "B", 5),
	}

	first := Recommend(slot, candidates)
	second := Recommend(slot, candidates)

	assert.Equal(t, first, second)
}
