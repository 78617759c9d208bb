package recurrence_test

import (
	"testing"
	"time"

	"todone/internal/models/task"
	"todone/internal/recurrence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

// TestDescribe тестирует текстовое описание правил повтора
func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		pattern  task.RecurringPattern
		expected string
	}{
		{
			name:     "weekly with days",
			pattern:  task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 1, DaysOfWeek: []int{1, 3, 5}},
			expected: "Weekly on Mon, Wed, Fri",
		},
		{
			name:     "monthly every two months",
			pattern:  task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 2, DayOfMonth: 21},
			expected: "Every 2 months on the 21st",
		},
		{
			name:     "daily with end date",
			pattern:  task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1, EndDate: datePtr(2025, time.December, 31)},
			expected: "Daily (ends Dec 31, 2025)",
		},
		{
			name:     "every 3 days",
			pattern:  task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 3},
			expected: "Every 3 days",
		},
		{
			name:     "weekly without days",
			pattern:  task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 2},
			expected: "Every 2 weeks",
		},
		{
			name:     "monthly without day",
			pattern:  task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1},
			expected: "Monthly",
		},
		{
			name:     "yearly",
			pattern:  task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1},
			expected: "Yearly",
		},
		{
			name:     "every 2 years",
			pattern:  task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 2},
			expected: "Every 2 years",
		},
		{
			name: "custom with exceptions",
			pattern: task.RecurringPattern{
				Type:       task.RecurrenceCustom,
				Interval:   1,
				Exceptions: []time.Time{date(2025, time.January, 1)},
			},
			expected: "Repeats, skips 1 date",
		},
		{
			name: "unknown type with end and exceptions",
			pattern: task.RecurringPattern{
				Type:       "hourly",
				Interval:   1,
				EndDate:    datePtr(2026, time.March, 5),
				Exceptions: []time.Time{date(2025, time.January, 1), date(2025, time.January, 2)},
			},
			expected: "Repeats (ends Mar 5, 2026), skips 2 dates",
		},
		{
			name:     "zero interval treated as one",
			pattern:  task.RecurringPattern{Type: task.RecurrenceDaily},
			expected: "Daily",
		},
		{
			name:     "invalid weekday skipped",
			pattern:  task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 1, DaysOfWeek: []int{0, 9, 6}},
			expected: "Weekly on Sun, Sat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, recurrence.Describe(tt.pattern))
		})
	}
}

// TestDescribe_Ordinals тестирует суффиксы дня месяца
func TestDescribe_Ordinals(t *testing.T) {
	expected := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th",
		11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 23: "23rd", 31: "31st",
	}

	for day, suffix := range expected {
		p := task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1, DayOfMonth: day}
		assert.Equal(t, "Monthly on the "+suffix, recurrence.Describe(p))
	}
}

// TestValidate тестирует проверку правил
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		pattern task.RecurringPattern
		field   string
	}{
		{"valid daily", task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1}, ""},
		{"valid monthly without day", task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1}, ""},
		{"unknown type", task.RecurringPattern{Type: "hourly", Interval: 1}, "type"},
		{"zero interval", task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 0}, "interval"},
		{"interval too large", task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 366}, "interval"},
		{"bad weekday", task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 1, DaysOfWeek: []int{7}}, "days_of_week"},
		{"bad day of month", task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1, DayOfMonth: 32}, "day_of_month"},
		{"bad anchor day", task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1, AnchorDay: 32}, "anchor_day"},
		{"day of month ignored for daily", task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1, DayOfMonth: 40}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := recurrence.Validate(tt.pattern)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var fieldErr *recurrence.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

// TestNext тестирует вычисление следующего вхождения
func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		pattern  task.RecurringPattern
		after    time.Time
		expected time.Time
		ok       bool
	}{
		{
			name:     "daily",
			pattern:  task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 19),
			ok:       true,
		},
		{
			name:     "every 3 days",
			pattern:  task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 3},
			after:    date(2025, time.June, 30),
			expected: date(2025, time.July, 3),
			ok:       true,
		},
		{
			// 18.06.2025 - среда
			name:     "weekly picks next listed weekday",
			pattern:  task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 1, DaysOfWeek: []int{1, 5}},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 20),
			ok:       true,
		},
		{
			name:     "every 2 weeks skips the odd week",
			pattern:  task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 2, DaysOfWeek: []int{1}},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 30),
			ok:       true,
		},
		{
			name:     "weekly without days",
			pattern:  task.RecurringPattern{Type: task.RecurrenceWeekly, Interval: 1},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 25),
			ok:       true,
		},
		{
			name:     "monthly later this month",
			pattern:  task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1, DayOfMonth: 21},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 21),
			ok:       true,
		},
		{
			name:     "monthly clamps to month length",
			pattern:  task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1, DayOfMonth: 31},
			after:    date(2025, time.January, 31),
			expected: date(2025, time.February, 28),
			ok:       true,
		},
		{
			name:     "monthly uses due day when unset",
			pattern:  task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 2},
			after:    date(2025, time.June, 10),
			expected: date(2025, time.August, 10),
			ok:       true,
		},
		{
			name:     "yearly",
			pattern:  task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1},
			after:    date(2024, time.February, 29),
			expected: date(2025, time.February, 28),
			ok:       true,
		},
		{
			name: "exception is skipped",
			pattern: task.RecurringPattern{
				Type:       task.RecurrenceDaily,
				Interval:   1,
				Exceptions: []time.Time{date(2025, time.June, 19)},
			},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 20),
			ok:       true,
		},
		{
			name: "end date reached",
			pattern: task.RecurringPattern{
				Type:     task.RecurrenceDaily,
				Interval: 1,
				EndDate:  datePtr(2025, time.June, 18),
			},
			after: date(2025, time.June, 18),
			ok:    false,
		},
		{
			name: "end date is inclusive",
			pattern: task.RecurringPattern{
				Type:     task.RecurrenceDaily,
				Interval: 1,
				EndDate:  datePtr(2025, time.June, 19),
			},
			after:    date(2025, time.June, 18),
			expected: date(2025, time.June, 19),
			ok:       true,
		},
		{
			name:    "custom has no occurrences",
			pattern: task.RecurringPattern{Type: task.RecurrenceCustom, Interval: 1},
			after:   date(2025, time.June, 18),
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := recurrence.Next(tt.pattern, tt.after)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(next), "expected %s, got %s", tt.expected, next)
			}
		})
	}
}

// TestNext_KeepsClock тестирует, что время суток и зона сохраняются
func TestNext_KeepsClock(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	after := time.Date(2025, time.June, 18, 9, 30, 0, 0, loc)

	next, ok := recurrence.Next(task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1}, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.June, 19, 9, 30, 0, 0, loc), next)
}

// TestOccurrences тестирует серию вхождений
func TestOccurrences(t *testing.T) {
	p := task.RecurringPattern{
		Type:       task.RecurrenceWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3},
		EndDate:    datePtr(2025, time.July, 2),
		Exceptions: []time.Time{date(2025, time.June, 25)},
	}

	got := recurrence.Occurrences(p, date(2025, time.June, 18), 10)

	assert.Equal(t, []time.Time{
		date(2025, time.June, 23),
		date(2025, time.June, 30),
		date(2025, time.July, 2),
	}, got)

	assert.Empty(t, recurrence.Occurrences(p, date(2025, time.June, 18), 0))
}

// TestOccurrences_KeepsAnchorDay тестирует, что короткий месяц не сдвигает день серии
func TestOccurrences_KeepsAnchorDay(t *testing.T) {
	monthly := recurrence.Occurrences(task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1}, date(2025, time.January, 31), 5)
	assert.Equal(t, []time.Time{
		date(2025, time.February, 28),
		date(2025, time.March, 31),
		date(2025, time.April, 30),
		date(2025, time.May, 31),
		date(2025, time.June, 30),
	}, monthly)

	yearly := recurrence.Occurrences(task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1}, date(2024, time.February, 29), 5)
	assert.Equal(t, []time.Time{
		date(2025, time.February, 28),
		date(2026, time.February, 28),
		date(2027, time.February, 28),
		date(2028, time.February, 29),
		date(2029, time.February, 28),
	}, yearly)
}

// TestNext_AnchorDay тестирует возврат к закреплённому дню после усечения
func TestNext_AnchorDay(t *testing.T) {
	next, ok := recurrence.Next(task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1, AnchorDay: 31}, date(2025, time.February, 28))
	require.True(t, ok)
	assert.Equal(t, date(2025, time.March, 31), next)

	next, ok = recurrence.Next(task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1, AnchorDay: 29}, date(2027, time.February, 28))
	require.True(t, ok)
	assert.Equal(t, date(2028, time.February, 29), next)
}

// TestPin тестирует закрепление дня серии
func TestPin(t *testing.T) {
	start := date(2025, time.January, 31)

	tests := []struct {
		name     string
		pattern  task.RecurringPattern
		expected int
	}{
		{"monthly without day", task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1}, 31},
		{"monthly with day", task.RecurringPattern{Type: task.RecurrenceMonthly, Interval: 1, DayOfMonth: 15}, 0},
		{"yearly", task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1}, 31},
		{"already pinned", task.RecurringPattern{Type: task.RecurrenceYearly, Interval: 1, AnchorDay: 29}, 29},
		{"daily", task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, recurrence.Pin(tt.pattern, start).AnchorDay)
		})
	}
}

// TestOccurrences_Limit тестирует верхнюю границу числа дат
func TestOccurrences_Limit(t *testing.T) {
	got := recurrence.Occurrences(task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1}, date(2025, time.June, 18), 1<<50)
	assert.Len(t, got, recurrence.MaxOccurrences)
}
