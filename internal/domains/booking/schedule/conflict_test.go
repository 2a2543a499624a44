package schedule_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terras/internal/domains/booking/schedule"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func slot(id string, start, end time.Time, startClock, endClock string, activity string) schedule.Slot {
	startMinute, _ := schedule.ClockMinutes(startClock)
	endMinute, _ := schedule.ClockMinutes(endClock)

	return schedule.Slot{
		BookingID:    id,
		StartDate:    start,
		EndDate:      end,
		StartMinute:  startMinute,
		EndMinute:    endMinute,
		ActivityName: activity,
	}
}

func TestFindConflict(t *testing.T) {
	d := day(2026, time.March, 10)

	existing := []schedule.Slot{
		slot("bk-1", d, d, "09:00", "12:00", "Town hall"),
	}

	tests := []struct {
		name      string
		candidate schedule.Slot
		existing  []schedule.Slot
		wantID    string
	}{
		{
			name:      "overlapping window clashes",
			candidate: slot("", d, d, "11:00", "13:00", ""),
			existing:  existing,
			wantID:    "bk-1",
		},
		{
			name:      "candidate encompasses existing",
			candidate: slot("", d, d, "08:00", "13:00", ""),
			existing:  existing,
			wantID:    "bk-1",
		},
		{
			name:      "existing encompasses candidate",
			candidate: slot("", d, d, "10:00", "11:00", ""),
			existing:  existing,
			wantID:    "bk-1",
		},
		{
			name:      "back to back after is allowed",
			candidate: slot("", d, d, "12:00", "14:00", ""),
			existing:  existing,
		},
		{
			name:      "back to back before is allowed",
			candidate: slot("", d, d, "08:00", "09:00", ""),
			existing:  existing,
		},
		{
			name:      "different day does not clash",
			candidate: slot("", day(2026, time.March, 11), day(2026, time.March, 11), "09:00", "12:00", ""),
			existing:  existing,
		},
		{
			name:      "no existing slots",
			candidate: slot("", d, d, "09:00", "12:00", ""),
			existing:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict := schedule.FindConflict(tt.candidate, tt.existing)

			if tt.wantID == "" {
				assert.Nil(t, conflict)

				return
			}

			require.NotNil(t, conflict)
			assert.Equal(t, tt.wantID, conflict.BookingID)
		})
	}
}

func TestFindConflict_MultiDayContainment(t *testing.T) {
	// A long booking with a short daily window must clash with a single-day
	// booking that falls in the middle of its date range.
	candidate := slot("", day(2026, time.January, 30), day(2026, time.February, 3), "10:30", "10:45", "Retreat")
	existing := []schedule.Slot{
		slot("bk-7", day(2026, time.February, 1), day(2026, time.February, 1), "10:00", "11:00", "Standup"),
	}

	conflict := schedule.FindConflict(candidate, existing)

	require.NotNil(t, conflict)
	assert.Equal(t, "bk-7", conflict.BookingID)
	assert.Equal(t, day(2026, time.February, 1), conflict.Date)
	assert.Equal(t, "Standup", conflict.ActivityName)
}

func TestFindConflict_ReportsFirstClashDay(t *testing.T) {
	candidate := slot("", day(2026, time.March, 10), day(2026, time.March, 14), "09:00", "10:00", "")
	existing := []schedule.Slot{
		slot("bk-late", day(2026, time.March, 13), day(2026, time.March, 13), "09:30", "10:30", "Late"),
		slot("bk-early", day(2026, time.March, 11), day(2026, time.March, 11), "09:30", "10:30", "Early"),
	}

	conflict := schedule.FindConflict(candidate, existing)

	require.NotNil(t, conflict)
	assert.Equal(t, "bk-early", conflict.BookingID)
	assert.Equal(t, day(2026, time.March, 11), conflict.Date)
}

func TestFindConflict_RandomizedAgainstBruteForce(t *testing.T) {
	// Seeded so failures reproduce. The oracle checks every covered day minute
	// by minute, so it cannot share a bug with the interval arithmetic.
	rng := rand.New(rand.NewSource(20260601))
	base := day(2026, time.June, 1)

	randomSlot := func(id string) schedule.Slot {
		start := base.AddDate(0, 0, rng.Intn(10))
		end := start.AddDate(0, 0, rng.Intn(3))
		startMinute := schedule.OpeningMinute + rng.Intn(schedule.ClosingMinute-schedule.OpeningMinute-1)
		endMinute := startMinute + 1 + rng.Intn(schedule.ClosingMinute-startMinute-1)

		return schedule.Slot{
			BookingID:   id,
			StartDate:   start,
			EndDate:     end,
			StartMinute: startMinute,
			EndMinute:   endMinute,
		}
	}

	minuteTaken := func(d time.Time, minute int, slots []schedule.Slot) bool {
		for _, s := range slots {
			if s.Covers(d) && s.StartMinute <= minute && minute < s.EndMinute {
				return true
			}
		}

		return false
	}

	bruteForce := func(candidate schedule.Slot, existing []schedule.Slot) bool {
		for _, d := range schedule.DatesBetween(candidate.StartDate, candidate.EndDate) {
			for m := candidate.StartMinute; m < candidate.EndMinute; m++ {
				if minuteTaken(d, m, existing) {
					return true
				}
			}
		}

		return false
	}

	for i := 0; i < 250; i++ {
		candidate := randomSlot("")

		existing := make([]schedule.Slot, rng.Intn(5))
		for j := range existing {
			existing[j] = randomSlot(fmt.Sprintf("bk-%d-%d", i, j))
		}

		conflict := schedule.FindConflict(candidate, existing)
		want := bruteForce(candidate, existing)

		if !want {
			require.Nilf(t, conflict, "iteration %d: candidate %+v existing %+v", i, candidate, existing)

			continue
		}

		require.NotNilf(t, conflict, "iteration %d: candidate %+v existing %+v", i, candidate, existing)

		// The reported clash must be a real one on the reported day.
		assert.True(t, candidate.Covers(conflict.Date))
		assert.Less(t, candidate.StartMinute, conflict.EndMinute)
		assert.Greater(t, candidate.EndMinute, conflict.StartMinute)
	}
}

func TestFindConflict_Idempotent(t *testing.T) {
	candidate := slot("", day(2026, time.March, 10), day(2026, time.March, 12), "09:00", "11:00", "")
	existing := []schedule.Slot{
		slot("bk-1", day(2026, time.March, 11), day(2026, time.March, 11), "10:00", "12:00", "Clash"),
	}

	first := schedule.FindConflict(candidate, existing)
	second := schedule.FindConflict(candidate, existing)

	assert.Equal(t, first, second)
}
