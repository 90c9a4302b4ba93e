package fillin

import (
	"strconv"
	"strings"
	"time"

	"github.com/russ8887/coach-tool-api/internal/models"
)

// IsBlocked reports whether the student is prevented from attending the
// given coach's slot on the given date. Blocks are filtered to the exact
// date defensively even when the caller pre-filtered by date set; any
// matching block on that date means blocked.
func IsBlocked(student models.Student, date time.Time, coachID int64, blocks []models.DailyBlock) bool {
	for _, block := range blocks {
		if !sameDate(block.BlockDate, date) {
			continue
		}
		if blockApplies(block, student, coachID) {
			return true
		}
	}
	return false
}

func blockApplies(block models.DailyBlock, student models.Student, coachID int64) bool {
	switch block.BlockType {
	case models.BlockPublicHoliday:
		return true
	case models.BlockYearLevelAbsence:
		return block.Identifier != "" && strings.HasPrefix(student.ClassName, block.Identifier)
	case models.BlockClassAbsence:
		return block.Identifier != "" && student.ClassName == block.Identifier
	case models.BlockCoachUnavailable:
		id, err := strconv.ParseInt(strings.TrimSpace(block.Identifier), 10, 64)
		return err == nil && id == coachID
	default:
		// OTHER is informational only.
		return false
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
