package models

import "time"

// LessonSlot represents a recurring lesson time owned by a coach.
type LessonSlot struct {
	ID        int64     `db:"id" json:"id"`
	CoachID   int64     `db:"coach_id" json:"coach_id"`
	CoachName string    `db:"coach_name" json:"coach_name"`
	DayOfWeek string    `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SlotFilter describes query params for listing lesson slots.
type SlotFilter struct {
	CoachID   int64
	DayOfWeek string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SlotInstance is one lesson slot materialised on a concrete date:
// the recurring definition plus who was originally rostered and who is
// actually present once absences and assigned fill-ins are applied.
type SlotInstance struct {
	LessonSlot
	SlotDate         time.Time `json:"slot_date"`
	OriginalStudents []Student `json:"original_students"`
	CurrentOccupants []Student `json:"current_occupants"`
}

// Absence records that a rostered student misses one slot instance.
type Absence struct {
	ID        int64     `db:"id" json:"id"`
	SlotID    int64     `db:"slot_id" json:"slot_id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Date      time.Time `db:"date" json:"date"`
	Reason    string    `db:"reason" json:"reason,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FillInAssignment records a fill-in placed into a slot instance.
type FillInAssignment struct {
	ID        int64     `db:"id" json:"id"`
	SlotID    int64     `db:"slot_id" json:"slot_id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
