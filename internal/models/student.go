package models

import "time"

// Student is the canonical roster record. Field-name variants from the
// legacy spreadsheet import are normalised away at the repository boundary;
// nothing downstream special-cases alternate names.
type Student struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	GroupOf      int       `db:"group_of" json:"group_of"`
	SubGroup     string    `db:"sub_group" json:"sub_group,omitempty"`
	LessonsOwed  int       `db:"lessons_owed" json:"lessons_owed"`
	Availability string    `db:"availability" json:"availability,omitempty"`
	ClassName    string    `db:"class_name" json:"class_name,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Active    *bool
	Owing     bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
