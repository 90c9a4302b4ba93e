// Package fillin implements the fill-in recommendation engine: weekly
// availability parsing, group pairing rules, date-scoped blocking rules,
// candidate filtering and greedy slot recommendation. Everything in this
// package is pure computation over in-memory snapshots; callers own all
// fetching, caching between calls and presentation.
package fillin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/russ8887/coach-tool-api/internal/models"
)

// rangeStepMinutes is the expansion step for availability ranges:
// "09:00-10:00" yields 09:00, 09:30 and 10:00.
const rangeStepMinutes = 30

var dayNames = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// WeekSchedule maps a lowercase day name to the set of "HH:MM" time points a
// student is available at.
type WeekSchedule map[string]map[string]struct{}

// ParseWeeklyAvailability converts free-text weekly availability into a
// WeekSchedule. Entries are delimited by newlines or semicolons; an entry is
// either "<Day>: <time-spec>" or a bare time-spec that inherits the most
// recently seen day. A time-spec is a single time or a "start-end" range.
// Invalid tokens contribute nothing; parsing never fails.
func ParseWeeklyAvailability(raw string) WeekSchedule {
	sched := make(WeekSchedule)
	currentDay := ""

	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ';'
	})
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if idx := strings.Index(token, ":"); idx > 0 {
			head := strings.ToLower(strings.TrimSpace(token[:idx]))
			if _, ok := dayNames[head]; ok {
				currentDay = head
				token = strings.TrimSpace(token[idx+1:])
				if token == "" {
					continue
				}
			}
		}
		if currentDay == "" {
			continue
		}

		for _, point := range expandTimeSpec(token) {
			points, ok := sched[currentDay]
			if !ok {
				points = make(map[string]struct{})
				sched[currentDay] = points
			}
			points[point] = struct{}{}
		}
	}

	return sched
}

// IsAvailable reports whether the schedule contains an exact time point for
// the given day and clock time. The day is matched case-insensitively and
// the clock time is normalised (seconds dropped, am/pm resolved) before
// lookup. Unparseable input means not available.
func (s WeekSchedule) IsAvailable(day, clock string) bool {
	if s == nil {
		return false
	}
	points, ok := s[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return false
	}
	minutes, ok := parseClockTime(clock)
	if !ok {
		return false
	}
	_, ok = points[formatClock(minutes)]
	return ok
}

// expandTimeSpec resolves a single time or a "start-end" range into "HH:MM"
// points. An inverted or malformed range contributes nothing.
func expandTimeSpec(spec string) []string {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	if start, end, ok := strings.Cut(spec, "-"); ok {
		from, okFrom := parseClockTime(start)
		to, okTo := parseClockTime(end)
		if !okFrom || !okTo || from >= to {
			return nil
		}
		points := make([]string, 0, (to-from)/rangeStepMinutes+1)
		for m := from; m <= to; m += rangeStepMinutes {
			points = append(points, formatClock(m))
		}
		return points
	}

	if minutes, ok := parseClockTime(spec); ok {
		return []string{formatClock(minutes)}
	}
	return nil
}

// parseClockTime understands "HH:MM", "H:MM", "HH:MM:SS" (seconds dropped)
// and 4-digit "HHMM", each with an optional am/pm suffix. 12am maps to
// 00:00 and 12pm to 12:00. It returns minutes since midnight.
func parseClockTime(raw string) (int, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return 0, false
	}

	meridiem := ""
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(token, suffix) {
			meridiem = suffix
			token = strings.TrimSpace(strings.TrimSuffix(token, suffix))
			break
		}
	}

	var hourPart, minutePart string
	switch parts := strings.Split(token, ":"); len(parts) {
	case 1:
		if len(parts[0]) != 4 {
			return 0, false
		}
		hourPart, minutePart = parts[0][:2], parts[0][2:]
	case 2, 3:
		hourPart, minutePart = parts[0], parts[1]
	default:
		return 0, false
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil {
		return 0, false
	}
	if minute < 0 || minute > 59 {
		return 0, false
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, false
		}
	}

	return hour*60 + minute, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Cache memoises parsed availability per student so that parsing cost is paid
// once per student per recommendation pass, not once per (student, slot)
// pair. It is not safe for concurrent use; create one per pass.
type Cache struct {
	byStudent map[int64]WeekSchedule
}

// NewCache returns an empty availability cache.
func NewCache() *Cache {
	return &Cache{byStudent: make(map[int64]WeekSchedule)}
}

// Schedule returns the parsed weekly schedule for the student, parsing and
// memoising on first use.
func (c *Cache) Schedule(student models.Student) WeekSchedule {
	if sched, ok := c.byStudent[student.ID]; ok {
		return sched
	}
	sched := ParseWeeklyAvailability(student.Availability)
	c.byStudent[student.ID] = sched
	return sched
}

// IsAvailable answers a point-in-time availability query through the cache.
func (c *Cache) IsAvailable(student models.Student, day, clock string) bool {
	return c.Schedule(student).IsAvailable(day, clock)
}
