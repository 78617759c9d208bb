package recurrence

import (
	"fmt"
	"time"

	"todone/internal/models/task"
)

const (
	MaxInterval    = 365
	MaxOccurrences = 100
	maxSteps       = 1000
)

type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate проверяет правило перед сохранением
func Validate(p task.RecurringPattern) error {
	switch p.Type {
	case task.RecurrenceDaily, task.RecurrenceWeekly, task.RecurrenceMonthly, task.RecurrenceYearly, task.RecurrenceCustom:
	default:
		return &FieldError{Field: "type", Reason: fmt.Sprintf("неизвестный тип повтора %q", p.Type)}
	}

	if p.Interval < 1 || p.Interval > MaxInterval {
		return &FieldError{Field: "interval", Reason: fmt.Sprintf("интервал должен быть от 1 до %d", MaxInterval)}
	}

	if p.Type == task.RecurrenceWeekly {
		for _, d := range p.DaysOfWeek {
			if d < 0 || d > 6 {
				return &FieldError{Field: "days_of_week", Reason: fmt.Sprintf("день недели %d вне диапазона 0..6", d)}
			}
		}
	}

	if p.Type == task.RecurrenceMonthly && p.DayOfMonth != 0 && (p.DayOfMonth < 1 || p.DayOfMonth > 31) {
		return &FieldError{Field: "day_of_month", Reason: "день месяца должен быть от 1 до 31"}
	}

	if p.AnchorDay < 0 || p.AnchorDay > 31 {
		return &FieldError{Field: "anchor_day", Reason: "день якоря должен быть от 1 до 31"}
	}

	return nil
}

// Pin закрепляет день серии по первому сроку start, чтобы короткий месяц
// не сдвигал все следующие даты. Уже закреплённый день не меняется.
func Pin(p task.RecurringPattern, start time.Time) task.RecurringPattern {
	if p.AnchorDay != 0 {
		return p
	}
	if (p.Type == task.RecurrenceMonthly && p.DayOfMonth == 0) || p.Type == task.RecurrenceYearly {
		p.AnchorDay = start.Day()
	}
	return p
}

// Next возвращает первое вхождение строго после календарного дня after.
// Отсчёт серии ведётся от after, время суток и зона берутся из него же.
// false - если вхождений больше нет (custom, конец серии).
func Next(p task.RecurringPattern, after time.Time) (time.Time, bool) {
	anchor := civil(after)
	cur := anchor

	var end time.Time
	if p.EndDate != nil {
		end = civil(*p.EndDate)
	}

	for i := 0; i < maxSteps; i++ {
		next, ok := step(p, anchor, cur)
		if !ok {
			return time.Time{}, false
		}
		if p.EndDate != nil && next.After(end) {
			return time.Time{}, false
		}
		cur = next
		if isException(p.Exceptions, next) {
			continue
		}
		return time.Date(next.Year(), next.Month(), next.Day(),
			after.Hour(), after.Minute(), after.Second(), after.Nanosecond(), after.Location()), true
	}

	return time.Time{}, false
}

// Occurrences возвращает до limit последовательных вхождений после from,
// но не больше MaxOccurrences. День серии закрепляется по from.
func Occurrences(p task.RecurringPattern, from time.Time, limit int) []time.Time {
	p = Pin(p, from)
	limit = min(limit, MaxOccurrences)
	res := make([]time.Time, 0, max(limit, 0))
	cur := from
	for len(res) < limit {
		next, ok := Next(p, cur)
		if !ok {
			break
		}
		res = append(res, next)
		cur = next
	}
	return res
}

func step(p task.RecurringPattern, anchor, cur time.Time) (time.Time, bool) {
	interval := p.Interval
	if interval < 1 {
		interval = 1
	}

	switch p.Type {
	case task.RecurrenceDaily:
		return cur.AddDate(0, 0, interval), true

	case task.RecurrenceWeekly:
		days := weekdaySet(p.DaysOfWeek)
		if len(days) == 0 {
			return cur.AddDate(0, 0, 7*interval), true
		}
		for i := 1; i <= 7*interval+7; i++ {
			d := cur.AddDate(0, 0, i)
			if days[d.Weekday()] && weeksBetween(anchor, d)%interval == 0 {
				return d, true
			}
		}
		return time.Time{}, false

	case task.RecurrenceMonthly:
		dom := p.DayOfMonth
		if dom < 1 || dom > 31 {
			dom = anchorDay(p, anchor)
		}
		for k := monthsBetween(anchor, cur) / interval; ; k++ {
			c := clampedDate(anchor.Year(), anchor.Month()+time.Month(k*interval), dom)
			if c.After(cur) {
				return c, true
			}
		}

	case task.RecurrenceYearly:
		day := anchorDay(p, anchor)
		for k := (cur.Year() - anchor.Year()) / interval; ; k++ {
			c := clampedDate(anchor.Year()+k*interval, anchor.Month(), day)
			if c.After(cur) {
				return c, true
			}
		}
	}

	return time.Time{}, false
}

func anchorDay(p task.RecurringPattern, anchor time.Time) int {
	if p.AnchorDay >= 1 && p.AnchorDay <= 31 {
		return p.AnchorDay
	}
	return anchor.Day()
}

// civil переводит момент в календарную дату (полночь UTC) по его собственной зоне
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// clampedDate: 31-е число в коротком месяце становится последним днём месяца
func clampedDate(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// недели считаются с воскресенья
func weeksBetween(a, b time.Time) int {
	wa := a.AddDate(0, 0, -int(a.Weekday()))
	wb := b.AddDate(0, 0, -int(b.Weekday()))
	return int(wb.Sub(wa).Hours()/24) / 7
}

func weekdaySet(days []int) map[time.Weekday]bool {
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			set[time.Weekday(d)] = true
		}
	}
	return set
}

func isException(exceptions []time.Time, day time.Time) bool {
	for _, e := range exceptions {
		if civil(e).Equal(day) {
			return true
		}
	}
	return false
}
