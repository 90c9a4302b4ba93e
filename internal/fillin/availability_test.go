package fillin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/russ8887/coach-tool-api/internal/models"
)

func TestParseWeeklyAvailabilityRangeExpansion(t *testing.T) {
	sched := ParseWeeklyAvailability("Monday: 09:00-10:00")

	assert.True(t, sched.IsAvailable("Monday", "09:00"))
	assert.True(t, sched.IsAvailable("Monday", "09:30"))
	assert.True(t, sched.IsAvailable("Monday", "10:00"))
	assert.False(t, sched.IsAvailable("Monday", "08:30"))
	assert.False(t, sched.IsAvailable("Monday", "10:30"))
}

func TestParseWeeklyAvailabilityFormats(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		day   string
		clock string
		want  bool
	}{
		{"single time", "Tuesday: 14:00", "Tuesday", "14:00", true},
		{"short hour", "Tuesday: 9:30", "Tuesday", "09:30", true},
		{"seconds dropped", "Wednesday: 10:00:00", "Wednesday", "10:00", true},
		{"four digit", "Thursday: 0930", "Thursday", "09:30", true},
		{"pm suffix", "Friday: 2:00pm", "Friday", "14:00", true},
		{"am suffix", "Friday: 8:00am", "Friday", "08:00", true},
		{"bare hour rejected", "Friday: 9am", "Friday", "09:00", false},
		{"twelve pm", "Friday: 12:00pm", "Friday", "12:00", true},
		{"twelve am", "Friday: 12:00am", "Friday", "00:00", true},
		{"case insensitive day", "monday: 09:00", "MONDAY", "09:00", true},
		{"wrong day", "Monday: 09:00", "Tuesday", "09:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sched := ParseWeeklyAvailability(tc.raw)
			assert.Equal(t, tc.want, sched.IsAvailable(tc.day, tc.clock))
		})
	}
}

func TestParseWeeklyAvailabilityContinuationInheritsDay(t *testing.T) {
	sched := ParseWeeklyAvailability("Monday: 09:00; 10:00; 15:00-16:00\nTuesday: 11:00")

	assert.True(t, sched.IsAvailable("Monday", "09:00"))
	assert.True(t, sched.IsAvailable("Monday", "10:00"))
	assert.True(t, sched.IsAvailable("Monday", "15:30"))
	assert.True(t, sched.IsAvailable("Tuesday", "11:00"))
	assert.False(t, sched.IsAvailable("Tuesday", "09:00"))
}

func TestParseWeeklyAvailabilitySkipsInvalidTokens(t *testing.T) {
	sched := ParseWeeklyAvailability("Monday: garbage; 25:00; 09:00; 10:00-09:00; Fishday: 11:00")

	assert.True(t, sched.IsAvailable("Monday", "09:00"))
	assert.False(t, sched.IsAvailable("Monday", "10:00"))
	assert.False(t, sched.IsAvailable("Fishday", "11:00"))
}

func TestParseWeeklyAvailabilityTimeBeforeAnyDay(t *testing.T) {
	sched := ParseWeeklyAvailability("09:00; Monday: 10:00")

	assert.False(t, sched.IsAvailable("Monday", "09:00"))
	assert.True(t, sched.IsAvailable("Monday", "10:00"))
}

func TestIsAvailableFailsClosed(t *testing.T) {
	var nilSched WeekSchedule
	assert.False(t, nilSched.IsAvailable("Monday", "09:00"))

	sched := ParseWeeklyAvailability("")
	assert.False(t, sched.IsAvailable("Monday", "09:00"))

	sched = ParseWeeklyAvailability("Monday: 09:00")
	assert.False(t, sched.IsAvailable("Monday", "not-a-time"))
}

func TestIsAvailableNormalisesQueryTime(t *testing.T) {
	sched := ParseWeeklyAvailability("Monday: 09:00")

	assert.True(t, sched.IsAvailable("Monday", "09:00:00"))
	assert.True(t, sched.IsAvailable("Monday", "9:00"))
	assert.True(t, sched.IsAvailable("Monday", "9:00am"))
}

func TestCacheParsesOncePerStudent(t *testing.T) {
	cache := NewCache()
	student := models.Student{ID: 7, Availability: "Monday: 09:00"}

	assert.True(t, cache.IsAvailable(student, "Monday", "09:00"))

	// Mutating the raw text does not affect subsequent queries for the same
	// student within the same pass: the parsed schedule is memoised by id.
	student.Availability = "Tuesday: 10:00"
	assert.True(t, cache.IsAvailable(student, "Monday", "09:00"))
	assert.False(t, cache.IsAvailable(student, "Tuesday", "10:00"))
}
