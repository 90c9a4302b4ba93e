package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/russ8887/coach-tool-api/internal/models"
)

// SlotRepository manages recurring lesson slots, their rostered students and
// per-date instances.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository constructs a SlotRepository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

const slotColumns = `s.id, s.coach_id, c.name AS coach_name, s.day_of_week, s.start_time, s.capacity, s.created_at, s.updated_at`

// List returns lesson slots matching the provided filters.
func (r *SlotRepository) List(ctx context.Context, filter models.SlotFilter) ([]models.LessonSlot, int, error) {
	base := "FROM lesson_slots s JOIN coaches c ON c.id = s.coach_id"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.CoachID != 0 {
		conditions = append(conditions, fmt.Sprintf("s.coach_id = $%d", len(args)+1))
		args = append(args, filter.CoachID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("s.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.day_of_week, s.start_time, s.id LIMIT %d OFFSET %d", slotColumns, base, size, offset)

	var slots []models.LessonSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}
	return slots, total, nil
}

// FindByID fetches a lesson slot by ID.
func (r *SlotRepository) FindByID(ctx context.Context, id int64) (*models.LessonSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM lesson_slots s JOIN coaches c ON c.id = s.coach_id WHERE s.id = $1", slotColumns)
	var slot models.LessonSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a new lesson slot and assigns the generated id.
func (r *SlotRepository) Create(ctx context.Context, slot *models.LessonSlot) error {
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now
	const query = `INSERT INTO lesson_slots (coach_id, day_of_week, start_time, capacity, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		slot.CoachID, slot.DayOfWeek, slot.StartTime, slot.Capacity, slot.CreatedAt, slot.UpdatedAt,
	).Scan(&slot.ID); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// Update modifies an existing lesson slot.
func (r *SlotRepository) Update(ctx context.Context, slot *models.LessonSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lesson_slots SET coach_id = $2, day_of_week = $3, start_time = $4, capacity = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query,
		slot.ID, slot.CoachID, slot.DayOfWeek, slot.StartTime, slot.Capacity, slot.UpdatedAt,
	); err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return nil
}

// Delete removes a lesson slot and its roster membership rows.
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slot_students WHERE slot_id = $1`, id); err != nil {
		return fmt.Errorf("delete slot members: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lesson_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

// ReplaceMembers rewrites the ordered roster membership for a slot.
func (r *SlotRepository) ReplaceMembers(ctx context.Context, slotID int64, studentIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM slot_students WHERE slot_id = $1`, slotID); err != nil {
		return fmt.Errorf("clear slot members: %w", err)
	}
	for position, studentID := range studentIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO slot_students (slot_id, student_id, position) VALUES ($1, $2, $3)`,
			slotID, studentID, position,
		); err != nil {
			return fmt.Errorf("insert slot member: %w", err)
		}
	}
	return nil
}

type slotMemberRow struct {
	SlotID int64 `db:"slot_id"`
	models.Student
}

// FindInstance materialises one slot on a concrete date: the recurring
// definition plus original roster and current occupants (originals minus
// absentees plus assigned fill-ins).
func (r *SlotRepository) FindInstance(ctx context.Context, id int64, date time.Time) (*models.SlotInstance, error) {
	slot, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	instances, err := r.materialise(ctx, []models.LessonSlot{*slot}, date)
	if err != nil {
		return nil, err
	}
	return &instances[0], nil
}

// ListInstances materialises every slot recurring on the date's weekday.
func (r *SlotRepository) ListInstances(ctx context.Context, date time.Time) ([]models.SlotInstance, error) {
	day := date.Weekday().String()
	query := fmt.Sprintf("SELECT %s FROM lesson_slots s JOIN coaches c ON c.id = s.coach_id WHERE s.day_of_week = $1 ORDER BY s.start_time, s.id", slotColumns)

	var slots []models.LessonSlot
	if err := r.db.SelectContext(ctx, &slots, query, day); err != nil {
		return nil, fmt.Errorf("list slots for %s: %w", day, err)
	}
	if len(slots) == 0 {
		return nil, nil
	}
	return r.materialise(ctx, slots, date)
}

func (r *SlotRepository) materialise(ctx context.Context, slots []models.LessonSlot, date time.Time) ([]models.SlotInstance, error) {
	ids := make([]int64, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}

	members, err := r.listMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	absences, err := r.listAbsentees(ctx, ids, date)
	if err != nil {
		return nil, err
	}
	fillIns, err := r.listFillIns(ctx, ids, date)
	if err != nil {
		return nil, err
	}

	instances := make([]models.SlotInstance, 0, len(slots))
	for _, slot := range slots {
		instance := models.SlotInstance{LessonSlot: slot, SlotDate: date}
		instance.OriginalStudents = members[slot.ID]

		absent := absences[slot.ID]
		for _, student := range instance.OriginalStudents {
			if _, gone := absent[student.ID]; !gone {
				instance.CurrentOccupants = append(instance.CurrentOccupants, student)
			}
		}
		instance.CurrentOccupants = append(instance.CurrentOccupants, fillIns[slot.ID]...)

		instances = append(instances, instance)
	}
	return instances, nil
}

func (r *SlotRepository) listMembers(ctx context.Context, slotIDs []int64) (map[int64][]models.Student, error) {
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT m.slot_id, %s FROM slot_students m JOIN students s ON s.id = m.student_id
        WHERE m.slot_id IN (?) ORDER BY m.slot_id, m.position`, studentColumns), slotIDs)
	if err != nil {
		return nil, fmt.Errorf("build slot members query: %w", err)
	}

	var rows []slotMemberRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list slot members: %w", err)
	}

	members := make(map[int64][]models.Student, len(slotIDs))
	for _, row := range rows {
		members[row.SlotID] = append(members[row.SlotID], row.Student)
	}
	return members, nil
}

func (r *SlotRepository) listAbsentees(ctx context.Context, slotIDs []int64, date time.Time) (map[int64]map[int64]struct{}, error) {
	query, args, err := sqlx.In(`SELECT slot_id, student_id FROM absences WHERE date = ? AND slot_id IN (?)`, date, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("build absences query: %w", err)
	}

	var rows []struct {
		SlotID    int64 `db:"slot_id"`
		StudentID int64 `db:"student_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}

	absent := make(map[int64]map[int64]struct{})
	for _, row := range rows {
		if absent[row.SlotID] == nil {
			absent[row.SlotID] = make(map[int64]struct{})
		}
		absent[row.SlotID][row.StudentID] = struct{}{}
	}
	return absent, nil
}

func (r *SlotRepository) listFillIns(ctx context.Context, slotIDs []int64, date time.Time) (map[int64][]models.Student, error) {
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT f.slot_id, %s FROM fill_in_assignments f JOIN students s ON s.id = f.student_id
        WHERE f.date = ? AND f.slot_id IN (?) ORDER BY f.slot_id, f.id`, studentColumns), date, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("build fill-in query: %w", err)
	}

	var rows []slotMemberRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list fill-ins: %w", err)
	}

	fillIns := make(map[int64][]models.Student)
	for _, row := range rows {
		fillIns[row.SlotID] = append(fillIns[row.SlotID], row.Student)
	}
	return fillIns, nil
}
