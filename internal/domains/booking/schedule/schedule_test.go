package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terras/internal/domains/booking/schedule"
	"terras/shared/failure"
)

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    int
		wantErr bool
	}{
		{name: "midnight", clock: "00:00", want: 0},
		{name: "opening", clock: "05:00", want: 300},
		{name: "closing", clock: "22:00", want: 1320},
		{name: "arbitrary", clock: "13:45", want: 825},
		{name: "missing colon", clock: "1345", wantErr: true},
		{name: "hour out of range", clock: "24:00", wantErr: true},
		{name: "minute out of range", clock: "10:60", wantErr: true},
		{name: "not a number", clock: "ab:cd", wantErr: true},
		{name: "empty", clock: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schedule.ClockMinutes(tt.clock)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, failure.KindInvalidTimeRange, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "05:00", schedule.FormatClock(300))
	assert.Equal(t, "22:00", schedule.FormatClock(1320))
	assert.Equal(t, "09:05", schedule.FormatClock(545))
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr string
	}{
		{name: "full operating day", start: 300, end: 1320},
		{name: "inside operating hours", start: 540, end: 720},
		{name: "one minute window at opening", start: 300, end: 301},
		{name: "starts one minute early", start: 299, end: 600, wantErr: "booking cannot start before 05:00"},
		{name: "ends one minute late", start: 600, end: 1321, wantErr: "booking cannot end after 22:00"},
		{name: "zero duration", start: 540, end: 540, wantErr: "start time must be before end time"},
		{name: "inverted window", start: 720, end: 540, wantErr: "start time must be before end time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schedule.ValidateTimeRange(tt.start, tt.end)

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, failure.KindInvalidTimeRange, failure.GetKind(err))
		})
	}
}

func TestDatesBetween(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []time.Time
	}{
		{
			name:  "single day",
			start: day(2026, time.March, 10),
			end:   day(2026, time.March, 10),
			want:  []time.Time{day(2026, time.March, 10)},
		},
		{
			name:  "multi day",
			start: day(2026, time.March, 10),
			end:   day(2026, time.March, 12),
			want: []time.Time{
				day(2026, time.March, 10),
				day(2026, time.March, 11),
				day(2026, time.March, 12),
			},
		},
		{
			name:  "crosses month boundary",
			start: day(2026, time.January, 30),
			end:   day(2026, time.February, 2),
			want: []time.Time{
				day(2026, time.January, 30),
				day(2026, time.January, 31),
				day(2026, time.February, 1),
				day(2026, time.February, 2),
			},
		},
		{
			name:  "end before start",
			start: day(2026, time.March, 12),
			end:   day(2026, time.March, 10),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.DatesBetween(tt.start, tt.end))
		})
	}
}

func TestDatesBetween_IgnoresClockAndZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	start := time.Date(2026, time.March, 10, 23, 59, 0, 0, jakarta)
	end := time.Date(2026, time.March, 11, 0, 1, 0, 0, jakarta)

	days := schedule.DatesBetween(start, end)

	assert.Len(t, days, 2)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), days[1])
}
