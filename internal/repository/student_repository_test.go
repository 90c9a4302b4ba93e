package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russ8887/coach-tool-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "group_of", "sub_group", "lessons_owed", "availability", "class_name", "active", "created_at", "updated_at"})
}

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT s.id, s.name, .+ FROM students s WHERE 1=1 ORDER BY s.name ASC LIMIT 20 OFFSET 0").
		WillReturnRows(studentRows().
			AddRow(1, "Alice", 3, "squad-a", 2, "Monday: 09:00", "Year 7A", true, time.Now(), time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "squad-a", students[0].SubGroup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListOwingFilter(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`FROM students s WHERE 1=1 AND s.lessons_owed > 0`).
		WillReturnRows(studentRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students s WHERE 1=1 AND s.lessons_owed > 0`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Owing: true})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListRoster(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM students s WHERE s.active = true ORDER BY s.id").
		WillReturnRows(studentRows().
			AddRow(1, "Alice", 1, "", 2, "Monday: 09:00", "", true, time.Now(), time.Now()).
			AddRow(2, "Bob", 2, "", 0, "", "Year 8", true, time.Now(), time.Now()))

	roster, err := repo.ListRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "", roster[0].SubGroup)
	assert.Equal(t, "Year 8", roster[1].ClassName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Alice", 3, "squad-a", 2, "Monday: 09:00", "Year 7A", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	student := &models.Student{
		Name:         "Alice",
		GroupOf:      3,
		SubGroup:     "squad-a",
		LessonsOwed:  2,
		Availability: "Monday: 09:00",
		ClassName:    "Year 7A",
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(42), student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAdjustLessonsOwed(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET lessons_owed = lessons_owed").
		WithArgs(int64(1), 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM students s WHERE s.id =").
		WithArgs(int64(1)).
		WillReturnRows(studentRows().
			AddRow(1, "Alice", 3, "", 4, "", "", true, time.Now(), time.Now()))

	student, err := repo.AdjustLessonsOwed(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, student.LessonsOwed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryAdjustLessonsOwedMissingStudent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET lessons_owed = lessons_owed").
		WithArgs(int64(9), -1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.AdjustLessonsOwed(context.Background(), 9, -1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
