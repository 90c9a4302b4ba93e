package dto

import (
	"github.com/russ8887/coach-tool-api/internal/fillin"
)

// OccupantSummary describes a student currently occupying a slot instance.
type OccupantSummary struct {
	StudentID int64  `json:"student_id"`
	Name      string `json:"name"`
	GroupOf   int    `json:"group_of"`
	SubGroup  string `json:"sub_group,omitempty"`
}

// SlotRecommendation is the API shape for one slot needing fill-ins,
// carrying the slot instance context plus the ranked recommendation list.
type SlotRecommendation struct {
	SlotID            int64                           `json:"slot_id"`
	CoachID           int64                           `json:"coach_id"`
	CoachName         string                          `json:"coach_name"`
	DayOfWeek         string                          `json:"day_of_week"`
	StartTime         string                          `json:"start_time"`
	SlotDate          string                          `json:"slot_date"`
	Capacity          int                             `json:"capacity"`
	EffectiveCapacity int                             `json:"effective_capacity"`
	NeededCount       int                             `json:"needed_count"`
	CurrentOccupants  []OccupantSummary               `json:"current_occupants"`
	RecommendedGroup  []fillin.RecommendedGroupMember `json:"recommended_group"`
}
