package recurrence

import (
	"fmt"
	"strings"
	"time"

	"todone/internal/models/task"

	"github.com/dustin/go-humanize"
)

const endDateLayout = "Jan 2, 2006"

// Describe возвращает описание правила повтора для отображения.
// Неизвестный тип не считается ошибкой и описывается как "Repeats".
func Describe(p task.RecurringPattern) string {
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}

	var base string
	switch p.Type {
	case task.RecurrenceDaily:
		base = every(interval, "Daily", "day")
	case task.RecurrenceWeekly:
		base = every(interval, "Weekly", "week")
		if days := weekdayNames(p.DaysOfWeek); len(days) > 0 {
			base += " on " + strings.Join(days, ", ")
		}
	case task.RecurrenceMonthly:
		base = every(interval, "Monthly", "month")
		if p.DayOfMonth > 0 {
			base += " on the " + humanize.Ordinal(p.DayOfMonth)
		}
	case task.RecurrenceYearly:
		base = every(interval, "Yearly", "year")
	default:
		base = "Repeats"
	}

	return base + endSuffix(p.EndDate) + exceptionSuffix(len(p.Exceptions))
}

func every(interval int, single, unit string) string {
	if interval == 1 {
		return single
	}
	return fmt.Sprintf("Every %d %ss", interval, unit)
}

// индексы вне 0..6 пропускаются
func weekdayNames(days []int) []string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d < 0 || d > 6 {
			continue
		}
		names = append(names, time.Weekday(d).String()[:3])
	}
	return names
}

func endSuffix(end *time.Time) string {
	if end == nil {
		return ""
	}
	return " (ends " + end.Format(endDateLayout) + ")"
}

func exceptionSuffix(n int) string {
	switch {
	case n == 0:
		return ""
	case n == 1:
		return ", skips 1 date"
	default:
		return fmt.Sprintf(", skips %d dates", n)
	}
}
