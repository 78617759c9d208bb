package task

import "time"

type RecurrenceType string

const RecurrenceDaily RecurrenceType = "daily"
const RecurrenceWeekly RecurrenceType = "weekly"
const RecurrenceMonthly RecurrenceType = "monthly"
const RecurrenceYearly RecurrenceType = "yearly"
const RecurrenceCustom RecurrenceType = "custom"

// RecurringPattern описывает правило повтора задачи.
// DaysOfWeek читается только для weekly, DayOfMonth только для monthly,
// хотя структура позволяет задать оба поля.
// AnchorDay - день месяца первого срока серии для monthly без DayOfMonth
// и для yearly, заполняется при сохранении задачи.
type RecurringPattern struct {
	Type       RecurrenceType `json:"type" yaml:"type"`
	Interval   int            `json:"interval" yaml:"interval"`
	DaysOfWeek []int          `json:"days_of_week,omitempty" yaml:"days_of_week,omitempty"`
	DayOfMonth int            `json:"day_of_month,omitempty" yaml:"day_of_month,omitempty"`
	AnchorDay  int            `json:"anchor_day,omitempty" yaml:"anchor_day,omitempty"`
	EndDate    *time.Time     `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Exceptions []time.Time    `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
}

func (p RecurringPattern) Clone() RecurringPattern {
	c := p
	if p.DaysOfWeek != nil {
		c.DaysOfWeek = append([]int(nil), p.DaysOfWeek...)
	}
	if p.Exceptions != nil {
		c.Exceptions = append([]time.Time(nil), p.Exceptions...)
	}
	c.EndDate = cloneTime(p.EndDate)
	return c
}
