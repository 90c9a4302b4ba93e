package fillin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/russ8887/coach-tool-api/internal/models"
)

func solo(id int64) models.Student   { return models.Student{ID: id, GroupOf: 1} }
func paired(id int64) models.Student { return models.Student{ID: id, GroupOf: 2} }
func grouped(id int64) models.Student {
	return models.Student{ID: id, GroupOf: 3}
}

func withSubGroup(s models.Student, sub string) models.Student {
	s.SubGroup = sub
	return s
}

func TestCheckPlacementCapacity(t *testing.T) {
	p := CheckPlacement(grouped(1), []models.Student{grouped(2), grouped(3)}, 2)
	assert.True(t, p.Violation)
	assert.Equal(t, "capacity exceeded", p.Reason)

	p = CheckPlacement(grouped(1), []models.Student{grouped(2)}, 2)
	assert.False(t, p.Violation)
}

func TestCheckPlacementSoloExclusivity(t *testing.T) {
	// A solo candidate may only take an empty slot.
	assert.False(t, CheckPlacement(solo(1), nil, 3).Violation)
	assert.True(t, CheckPlacement(solo(1), []models.Student{grouped(2)}, 3).Violation)

	// Nobody may join a slot already holding a solo student.
	assert.True(t, CheckPlacement(grouped(1), []models.Student{solo(2)}, 3).Violation)
	assert.True(t, CheckPlacement(solo(1), []models.Student{solo(2)}, 3).Violation)
}

func TestCheckPlacementPairedExclusivity(t *testing.T) {
	assert.False(t, CheckPlacement(paired(1), nil, 3).Violation)
	assert.False(t, CheckPlacement(paired(1), []models.Student{paired(2)}, 3).Violation)
	assert.True(t, CheckPlacement(paired(1), []models.Student{paired(2), paired(3)}, 4).Violation)
	assert.True(t, CheckPlacement(grouped(1), []models.Student{paired(2), paired(3)}, 4).Violation)
}

func TestCheckPlacementGroupMixing(t *testing.T) {
	// A group-sized candidate may not join a paired occupant even though the
	// paired rule alone would allow a total of two.
	p := CheckPlacement(grouped(1), []models.Student{paired(2)}, 4)
	assert.True(t, p.Violation)
	assert.Equal(t, "group students cannot join solo or paired slots", p.Reason)

	assert.False(t, CheckPlacement(grouped(1), []models.Student{grouped(2), grouped(3)}, 4).Violation)
}

func TestCheckPlacementSubGroupCohesion(t *testing.T) {
	occupants := []models.Student{withSubGroup(grouped(2), "squad-a")}

	assert.True(t, CheckPlacement(withSubGroup(grouped(1), "squad-b"), occupants, 4).Violation)
	assert.False(t, CheckPlacement(withSubGroup(grouped(1), "squad-a"), occupants, 4).Violation)

	// Candidates without a sub-group may always join.
	assert.False(t, CheckPlacement(grouped(1), occupants, 4).Violation)

	// No established sub-group yet: any candidate may join.
	assert.False(t, CheckPlacement(withSubGroup(grouped(1), "squad-b"), []models.Student{grouped(2)}, 4).Violation)
}

func TestCheckPlacementInvalidInputsFailClosed(t *testing.T) {
	assert.True(t, CheckPlacement(grouped(1), nil, 0).Violation)
	assert.True(t, CheckPlacement(models.Student{ID: 1}, nil, 3).Violation)
	assert.True(t, CheckPlacement(grouped(1), []models.Student{{ID: 2}}, 3).Violation)
}

func TestEstablishedSubGroup(t *testing.T) {
	assert.Equal(t, "", EstablishedSubGroup(nil))
	assert.Equal(t, "", EstablishedSubGroup([]models.Student{grouped(1)}))
	assert.Equal(t, "squad-a", EstablishedSubGroup([]models.Student{
		grouped(1),
		withSubGroup(grouped(2), "squad-a"),
	}))
}
