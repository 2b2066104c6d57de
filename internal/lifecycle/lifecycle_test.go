package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestParseCalendarDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "plain date",
			input:  "2024-05-10",
			want:   date(2024, time.May, 10),
			wantOK: true,
		},
		{
			name:   "date with time suffix",
			input:  "2024-05-10T15:04:05Z",
			want:   date(2024, time.May, 10),
			wantOK: true,
		},
		{
			name:   "date with space separated time",
			input:  "2024-05-10 23:59:59",
			want:   date(2024, time.May, 10),
			wantOK: true,
		},
		{
			name:   "surrounding whitespace",
			input:  "  2024-05-10  ",
			want:   date(2024, time.May, 10),
			wantOK: true,
		},
		{
			name:   "empty",
			input:  "",
			wantOK: false,
		},
		{
			name:   "slash format",
			input:  "10/05/2024",
			wantOK: false,
		},
		{
			name:   "month out of range",
			input:  "2024-13-01",
			wantOK: false,
		},
		{
			name:   "not numeric",
			input:  "abcd-ef-gh",
			wantOK: false,
		},
		{
			name:   "two parts only",
			input:  "2024-05",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCalendarDate(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatCalendarDateRoundTrip(t *testing.T) {
	parsed, ok := ParseCalendarDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, "2024-02-29", FormatCalendarDate(parsed))
}

func TestDaysUntilDue(t *testing.T) {
	today := date(2024, time.May, 10)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"same day", date(2024, time.May, 10), 0},
		{"one week ahead", date(2024, time.May, 17), 7},
		{"three days past", date(2024, time.May, 7), -3},
		{"across month boundary", date(2024, time.June, 2), 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntilDue(tt.due, today))
		})
	}
}

func TestDaysUntilDueIgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2024, time.May, 17, 23, 30, 0, 0, time.Local)
	today := time.Date(2024, time.May, 10, 0, 15, 0, 0, time.Local)
	assert.Equal(t, 7, DaysUntilDue(due, today))
}

func TestDaysUntilDueAntisymmetry(t *testing.T) {
	a := date(2024, time.March, 3)
	b := date(2024, time.March, 20)
	assert.Equal(t, -DaysUntilDue(a, b), DaysUntilDue(b, a))
}

func TestIsActive(t *testing.T) {
	today := date(2024, time.May, 10)

	assert.True(t, IsActive(date(2024, time.May, 10), today), "due today is still active")
	assert.True(t, IsActive(date(2024, time.May, 11), today))
	assert.False(t, IsActive(date(2024, time.May, 9), today))
}

func TestIsExpiringWindow(t *testing.T) {
	tests := []struct {
		days int
		want bool
	}{
		{-8, false},
		{-7, true},
		{0, true},
		{7, true},
		{8, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsExpiringWindow(tt.days), "days=%d", tt.days)
	}
}

func TestIsNotifyThreshold(t *testing.T) {
	assert.True(t, IsNotifyThreshold(7))
	assert.False(t, IsNotifyThreshold(6))
	assert.False(t, IsNotifyThreshold(8))
	assert.False(t, IsNotifyThreshold(0))
}

func TestRolloverDueDate(t *testing.T) {
	tests := []struct {
		name   string
		due    time.Time
		today  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "active extends from due date",
			due:    date(2024, time.May, 20),
			today:  date(2024, time.May, 10),
			months: 1,
			want:   date(2024, time.June, 20),
		},
		{
			name:   "expired extends from today",
			due:    date(2024, time.January, 1),
			today:  date(2024, time.March, 15),
			months: 1,
			want:   date(2024, time.April, 15),
		},
		{
			name:   "end of month clamps on leap february",
			due:    date(2024, time.January, 31),
			today:  date(2024, time.January, 15),
			months: 1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "quarterly plan crossing year",
			due:    date(2024, time.November, 30),
			today:  date(2024, time.November, 1),
			months: 3,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "due today counts as active",
			due:    date(2024, time.May, 10),
			today:  date(2024, time.May, 10),
			months: 1,
			want:   date(2024, time.June, 10),
		},
		{
			name:   "zero months treated as one",
			due:    date(2024, time.May, 20),
			today:  date(2024, time.May, 10),
			months: 0,
			want:   date(2024, time.June, 20),
		},
		{
			name:   "zero due date treated as expired",
			due:    time.Time{},
			today:  date(2024, time.May, 10),
			months: 1,
			want:   date(2024, time.June, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RolloverDueDate(tt.due, tt.today, tt.months))
		})
	}
}
