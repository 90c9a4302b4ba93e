package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/russ8887/coach-tool-api/internal/models"
)

// AttendanceRepository records per-date absences and fill-in assignments.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// MarkAbsent records that a rostered student misses one slot instance.
// Marking the same (slot, student, date) twice is a no-op.
func (r *AttendanceRepository) MarkAbsent(ctx context.Context, absence *models.Absence) error {
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO absences (slot_id, student_id, date, reason, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5)
        ON CONFLICT (slot_id, student_id, date) DO NOTHING
        RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		absence.SlotID, absence.StudentID, absence.Date, absence.Reason, absence.CreatedAt,
	).Scan(&absence.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict: the absence was already recorded.
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark absent: %w", err)
	}
	return nil
}

// RemoveAbsence deletes an absence record. Returns sql.ErrNoRows when no
// matching record exists.
func (r *AttendanceRepository) RemoveAbsence(ctx context.Context, slotID, studentID int64, date time.Time) error {
	const query = `DELETE FROM absences WHERE slot_id = $1 AND student_id = $2 AND date = $3`
	res, err := r.db.ExecContext(ctx, query, slotID, studentID, date)
	if err != nil {
		return fmt.Errorf("remove absence: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AssignFillIn persists a fill-in placement for one slot instance.
func (r *AttendanceRepository) AssignFillIn(ctx context.Context, assignment *models.FillInAssignment) error {
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO fill_in_assignments (slot_id, student_id, date, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		assignment.SlotID, assignment.StudentID, assignment.Date, assignment.CreatedAt,
	).Scan(&assignment.ID)
	if err != nil {
		return fmt.Errorf("assign fill-in: %w", err)
	}
	return nil
}

// RemoveFillIn deletes a fill-in placement. Returns sql.ErrNoRows when no
// matching record exists.
func (r *AttendanceRepository) RemoveFillIn(ctx context.Context, slotID, studentID int64, date time.Time) error {
	const query = `DELETE FROM fill_in_assignments WHERE slot_id = $1 AND student_id = $2 AND date = $3`
	res, err := r.db.ExecContext(ctx, query, slotID, studentID, date)
	if err != nil {
		return fmt.Errorf("remove fill-in: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
