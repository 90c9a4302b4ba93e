package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type mockSlotReader struct {
	instances      []models.SlotInstance
	instance       *models.SlotInstance
	findErr        error
	listErr        error
	findInstCalled int
}

func (m *mockSlotReader) FindInstance(ctx context.Context, id int64, date time.Time) (*models.SlotInstance, error) {
	m.findInstCalled++
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.instance, nil
}

func (m *mockSlotReader) ListInstances(ctx context.Context, date time.Time) ([]models.SlotInstance, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.instances, nil
}

type mockRosterReader struct {
	roster  []models.Student
	listErr error
}

func (m *mockRosterReader) ListRoster(ctx context.Context) ([]models.Student, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.roster, nil
}

type mockBlockReader struct {
	blocks  []models.DailyBlock
	listErr error
}

func (m *mockBlockReader) ListByDates(ctx context.Context, dates []time.Time) ([]models.DailyBlock, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.blocks, nil
}

func monday() time.Time {
	return time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
}

func slotInstance(id int64, capacity int, occupants ...models.Student) models.SlotInstance {
	return models.SlotInstance{
		LessonSlot: models.LessonSlot{
			ID:        id,
			CoachID:   7,
			CoachName: "Dana",
			DayOfWeek: "Monday",
			StartTime: "09:00",
			Capacity:  capacity,
		},
		SlotDate:         monday(),
		CurrentOccupants: occupants,
	}
}

func owingStudent(id int64, name string, owed int) models.Student {
	return models.Student{
		ID:           id,
		Name:         name,
		GroupOf:      2,
		LessonsOwed:  owed,
		Availability: "Monday: 09:00-17:00",
		Active:       true,
	}
}

func TestSuggestForDateRequiresDate(t *testing.T) {
	svc := NewFillInService(&mockSlotReader{}, &mockRosterReader{}, &mockBlockReader{}, nil, nil, zap.NewNop())

	_, _, err := svc.SuggestForDate(context.Background(), time.Time{})
	assert.ErrorIs(t, err, appErrors.ErrMissingSlotDate)
}

func TestSuggestForDateRecommendsOpenSlots(t *testing.T) {
	slots := &mockSlotReader{instances: []models.SlotInstance{
		slotInstance(1, 2),
		slotInstance(2, 1, owingStudent(50, "Occupied", 0)),
	}}
	roster := &mockRosterReader{roster: []models.Student{
		owingStudent(10, "Alice", 3),
		owingStudent(11, "Bob", 1),
	}}
	svc := NewFillInService(slots, roster, &mockBlockReader{}, nil, nil, zap.NewNop())

	got, cached, err := svc.SuggestForDate(context.Background(), monday())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, got, 1, "full slot must be omitted")
	assert.Equal(t, int64(1), got[0].SlotID)
	assert.Equal(t, 2, got[0].NeededCount)
	require.Len(t, got[0].RecommendedGroup, 2)
	assert.Equal(t, "Alice", got[0].RecommendedGroup[0].Name)
	assert.Equal(t, "Bob", got[0].RecommendedGroup[1].Name)
}

func TestSuggestForDateSkipsBlockedStudents(t *testing.T) {
	slots := &mockSlotReader{instances: []models.SlotInstance{slotInstance(1, 2)}}
	roster := &mockRosterReader{roster: []models.Student{owingStudent(10, "Alice", 3)}}
	blocks := &mockBlockReader{blocks: []models.DailyBlock{{
		ID:        1,
		BlockDate: monday(),
		BlockType: models.BlockPublicHoliday,
	}}}
	svc := NewFillInService(slots, roster, blocks, nil, nil, zap.NewNop())

	got, _, err := svc.SuggestForDate(context.Background(), monday())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].RecommendedGroup)
}

func TestSuggestForDatePropagatesRepositoryError(t *testing.T) {
	slots := &mockSlotReader{listErr: errors.New("boom")}
	svc := NewFillInService(slots, &mockRosterReader{}, &mockBlockReader{}, nil, nil, zap.NewNop())

	_, _, err := svc.SuggestForDate(context.Background(), monday())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestSuggestForSlotUnknownSlot(t *testing.T) {
	slots := &mockSlotReader{findErr: sql.ErrNoRows}
	svc := NewFillInService(slots, &mockRosterReader{}, &mockBlockReader{}, nil, nil, zap.NewNop())

	_, err := svc.SuggestForSlot(context.Background(), 99, monday())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestSuggestForSlotFreshOccupancy(t *testing.T) {
	inst := slotInstance(1, 2, owingStudent(20, "Seated", 0))
	slots := &mockSlotReader{instance: &inst}
	roster := &mockRosterReader{roster: []models.Student{owingStudent(10, "Alice", 3)}}
	svc := NewFillInService(slots, roster, &mockBlockReader{}, nil, nil, zap.NewNop())

	got, err := svc.SuggestForSlot(context.Background(), 1, monday())
	require.NoError(t, err)
	assert.Equal(t, 1, slots.findInstCalled)
	assert.Equal(t, 1, got.NeededCount)
	require.Len(t, got.CurrentOccupants, 1)
	assert.Equal(t, int64(20), got.CurrentOccupants[0].StudentID)
	require.Len(t, got.RecommendedGroup, 1)
	assert.Equal(t, "Alice", got.RecommendedGroup[0].Name)
}

func TestSuggestForSlotSoloEffectiveCapacity(t *testing.T) {
	inst := slotInstance(1, 4)
	inst.OriginalStudents = []models.Student{{ID: 30, Name: "Solo", GroupOf: 1, Active: true}}
	slots := &mockSlotReader{instance: &inst}
	roster := &mockRosterReader{roster: []models.Student{
		{ID: 40, Name: "Maya", GroupOf: 1, LessonsOwed: 2, Availability: "Monday: 09:00-10:00", Active: true},
	}}
	svc := NewFillInService(slots, roster, &mockBlockReader{}, nil, nil, zap.NewNop())

	got, err := svc.SuggestForSlot(context.Background(), 1, monday())
	require.NoError(t, err)
	assert.Equal(t, 1, got.EffectiveCapacity, "solo slot capacity is pinned to one")
	require.Len(t, got.RecommendedGroup, 1)
	assert.Equal(t, "Maya", got.RecommendedGroup[0].Name)
}
