package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/russ8887/coach-tool-api/internal/models"
	appErrors "github.com/russ8887/coach-tool-api/pkg/errors"
)

type mockStudentRepo struct {
	students   []models.Student
	total      int
	student    *models.Student
	listErr    error
	findErr    error
	createErr  error
	updateErr  error
	adjustErr  error
	created    *models.Student
	updated    *models.Student
	lastDelta  int
	lastFilter models.StudentFilter
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.students, m.total, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.student, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = 1
	m.created = student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = student
	return nil
}

func (m *mockStudentRepo) Deactivate(ctx context.Context, id int64) error {
	return m.updateErr
}

func (m *mockStudentRepo) AdjustLessonsOwed(ctx context.Context, id int64, delta int) (*models.Student, error) {
	if m.adjustErr != nil {
		return nil, m.adjustErr
	}
	m.lastDelta = delta
	adjusted := *m.student
	adjusted.LessonsOwed += delta
	return &adjusted, nil
}

func newStudentService(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, nil, validator.New(), zap.NewNop())
}

func TestStudentServiceListPagination(t *testing.T) {
	repo := &mockStudentRepo{students: []models.Student{{ID: 1, Name: "Alice"}}, total: 41}
	svc := newStudentService(repo)

	students, page, err := svc.List(context.Background(), StudentListRequest{Page: 2, PageSize: 20, Owing: true})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 41, page.TotalCount)
	assert.Equal(t, 2, page.Page)
	assert.True(t, repo.lastFilter.Owing)
}

func TestStudentServiceCreateValidates(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	_, err := svc.Create(context.Background(), CreateStudentRequest{Name: "", GroupOf: 2})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateDefaultsActive(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		Name:         "Alice",
		GroupOf:      2,
		SubGroup:     "A",
		LessonsOwed:  1,
		Availability: "Monday: 09:00-10:00",
	})
	require.NoError(t, err)
	assert.True(t, student.Active)
	assert.Equal(t, int64(1), student.ID)
	require.NotNil(t, repo.created)
	assert.Equal(t, "A", repo.created.SubGroup)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{findErr: sql.ErrNoRows})

	_, err := svc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceAdjustLessonsOwed(t *testing.T) {
	repo := &mockStudentRepo{student: &models.Student{ID: 1, Name: "Alice", LessonsOwed: 2}}
	svc := newStudentService(repo)

	student, err := svc.AdjustLessonsOwed(context.Background(), 1, AdjustLessonsOwedRequest{Delta: -2})
	require.NoError(t, err)
	assert.Equal(t, -2, repo.lastDelta)
	assert.Equal(t, 0, student.LessonsOwed)
}

func TestStudentServiceAdjustRequiresDelta(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{student: &models.Student{ID: 1}})

	_, err := svc.AdjustLessonsOwed(context.Background(), 1, AdjustLessonsOwedRequest{Delta: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
