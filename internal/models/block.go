package models

import "time"

// BlockType enumerates date-scoped blocking rules.
type BlockType string

const (
	BlockPublicHoliday    BlockType = "PUBLIC_HOLIDAY"
	BlockYearLevelAbsence BlockType = "YEAR_LEVEL_ABSENCE"
	BlockClassAbsence     BlockType = "CLASS_ABSENCE"
	BlockCoachUnavailable BlockType = "COACH_UNAVAILABLE"
	BlockOther            BlockType = "OTHER"
)

// Valid reports whether the block type is a known value.
func (t BlockType) Valid() bool {
	switch t {
	case BlockPublicHoliday, BlockYearLevelAbsence, BlockClassAbsence, BlockCoachUnavailable, BlockOther:
		return true
	}
	return false
}

// DailyBlock prevents certain students (or everyone, or a coach) from being
// scheduled on a given date. Identifier semantics depend on the type:
// class-name prefix for YEAR_LEVEL_ABSENCE, exact class name for
// CLASS_ABSENCE, coach id for COACH_UNAVAILABLE, unused otherwise.
type DailyBlock struct {
	ID         int64     `db:"id" json:"id"`
	BlockDate  time.Time `db:"block_date" json:"block_date"`
	BlockType  BlockType `db:"block_type" json:"block_type"`
	Identifier string    `db:"identifier" json:"identifier,omitempty"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// BlockFilter narrows down daily blocks.
type BlockFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	BlockType *BlockType
	Page      int
	PageSize  int
}
