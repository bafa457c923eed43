package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
		wantErr bool
	}{
		{name: "daily", pattern: "daily", want: "daily"},
		{name: "daily uppercase", pattern: "Daily", want: "daily"},
		{name: "weekday set", pattern: "2,4", want: "2,4"},
		{name: "unordered set normalizes", pattern: "5,1,3", want: "1,3,5"},
		{name: "spaces tolerated", pattern: " 6, 7", want: "6,7"},
		{name: "empty", pattern: "", wantErr: true},
		{name: "out of range", pattern: "0,3", wantErr: true},
		{name: "eighth day", pattern: "8", wantErr: true},
		{name: "garbage", pattern: "mon,tue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRecurrence(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestRecurrenceOccursOn(t *testing.T) {
	daily := Daily()
	for day := time.Sunday; day <= time.Saturday; day++ {
		assert.True(t, daily.OccursOn(day), "daily should match %s", day)
	}

	tueThu, err := ParseRecurrence("2,4")
	require.NoError(t, err)
	assert.True(t, tueThu.OccursOn(time.Tuesday))
	assert.True(t, tueThu.OccursOn(time.Thursday))
	assert.False(t, tueThu.OccursOn(time.Monday))
	assert.False(t, tueThu.OccursOn(time.Sunday))

	sunday, err := ParseRecurrence("7")
	require.NoError(t, err)
	assert.True(t, sunday.OccursOn(time.Sunday))
	assert.False(t, sunday.OccursOn(time.Saturday))
}

func TestIsLate(t *testing.T) {
	// Wednesday 10:30 local time.
	now := time.Date(2024, 8, 14, 10, 30, 0, 0, time.Local)

	assert.True(t, IsLate("08:00", false, now))
	assert.False(t, IsLate("12:00", false, now))
	// Done reminders are never late, even long past the scheduled time.
	assert.False(t, IsLate("06:00", true, now))
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2024, 8, 14, 10, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		clock string
		done  bool
		want  string
	}{
		{name: "hours ahead", clock: "13:45", want: "in 3h 15m"},
		{name: "minutes ahead", clock: "10:50", want: "in 20m"},
		{name: "hours late", clock: "08:00", want: "2h 30m late"},
		{name: "minutes late", clock: "10:05", want: "25m late"},
		{name: "done", clock: "08:00", done: true, want: "Completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeRemaining(tt.clock, tt.done, now))
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, 8, 14, 10, 30, 0, 0, time.Local)

	daily := Daily()

	// Later today.
	next := NextOccurrence("18:00", daily, now)
	assert.Equal(t, time.Date(2024, 8, 14, 18, 0, 0, 0, time.Local), next)

	// Already past today, rolls to tomorrow.
	next = NextOccurrence("08:00", daily, now)
	assert.Equal(t, time.Date(2024, 8, 15, 8, 0, 0, 0, time.Local), next)

	// Tue/Thu pattern asked on a Wednesday lands on Thursday.
	tueThu, err := ParseRecurrence("2,4")
	require.NoError(t, err)
	next = NextOccurrence("08:00", tueThu, now)
	assert.Equal(t, time.Date(2024, 8, 15, 8, 0, 0, 0, time.Local), next)

	// Same weekday next week when today's instant has passed.
	wed, err := ParseRecurrence("3")
	require.NoError(t, err)
	next = NextOccurrence("08:00", wed, now)
	assert.Equal(t, time.Date(2024, 8, 21, 8, 0, 0, 0, time.Local), next)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	_, _, err = ParseClock("25:00")
	assert.Error(t, err)
	_, _, err = ParseClock("nope")
	assert.Error(t, err)
}

func TestCanonicalClock(t *testing.T) {
	tests := []struct {
		clock   string
		want    string
		wantErr bool
	}{
		{clock: "09:30", want: "09:30"},
		{clock: "9:30", want: "09:30"},
		{clock: "23:59", want: "23:59"},
		{clock: "24:00", wantErr: true},
		{clock: "nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			got, err := CanonicalClock(tt.clock)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinutesOfDay(t *testing.T) {
	assert.Equal(t, 0, MinutesOfDay("00:00"))
	assert.Equal(t, 23*60+59, MinutesOfDay("23:59"))
	assert.Equal(t, 8*60+15, MinutesOfDay("08:15"))
}

func TestDayStamp(t *testing.T) {
	assert.Equal(t, "2024-08-14", DayStamp(time.Date(2024, 8, 14, 23, 59, 0, 0, time.Local)))
}
