package filterquery

import (
	"strings"
	"time"

	"todone/internal/models/task"
)

// Apply фильтрует задачи по запросу относительно текущего дня в локальной зоне.
func Apply(tasks []*task.Task, q Query) []*task.Task {
	return ApplyAt(tasks, q, time.Now())
}

// ApplyAt - то же, что Apply, но "сегодня" берётся из now в его часовом поясе.
// Порядок задач сохраняется, входной срез не меняется.
func ApplyAt(tasks []*task.Task, q Query, now time.Time) []*task.Task {
	filtered := make([]*task.Task, len(tasks))
	copy(filtered, tasks)

	if q.Search != "" {
		search := strings.ToLower(q.Search)
		filtered = keep(filtered, func(t *task.Task) bool {
			return strings.Contains(strings.ToLower(t.Content), search)
		})
	}

	if len(q.Priorities) > 0 {
		filtered = keep(filtered, func(t *task.Task) bool {
			return t.Priority != task.PriorityNone && containsPriority(q.Priorities, t.Priority)
		})
	}

	if len(q.Labels) > 0 {
		filtered = keep(filtered, func(t *task.Task) bool {
			return hasAnyLabel(t.Labels, q.Labels)
		})
	}

	if q.Dates.isSet() {
		today := StartOfDay(now, now.Location())

		if q.Dates.Today {
			filtered = keep(filtered, func(t *task.Task) bool {
				if t.DueDate == nil {
					return false
				}
				return StartOfDay(*t.DueDate, now.Location()).Equal(today)
			})
		}

		if q.Dates.Overdue {
			filtered = keep(filtered, func(t *task.Task) bool {
				if t.DueDate == nil {
					return false
				}
				return StartOfDay(*t.DueDate, now.Location()).Before(today) && !t.Completed
			})
		}

		if q.Dates.NoDate {
			filtered = keep(filtered, func(t *task.Task) bool {
				return t.DueDate == nil
			})
		}
	}

	if q.Recurring != nil {
		want := *q.Recurring
		filtered = keep(filtered, func(t *task.Task) bool {
			return t.IsRecurring() == want
		})
	}

	if q.IsSubtask != nil {
		want := *q.IsSubtask
		filtered = keep(filtered, func(t *task.Task) bool {
			return t.IsSubtask() == want
		})
	}

	if q.Completed != nil {
		want := *q.Completed
		filtered = keep(filtered, func(t *task.Task) bool {
			return t.Completed == want
		})
	}

	return filtered
}

// Execute = Apply(tasks, Parse(text))
func Execute(tasks []*task.Task, text string) []*task.Task {
	return Apply(tasks, Parse(text))
}

// StartOfDay отбрасывает время суток в указанной зоне
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// keep фильтрует срез на месте, сохраняя порядок
func keep(tasks []*task.Task, pred func(*task.Task) bool) []*task.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

func containsPriority(list []task.Priority, p task.Priority) bool {
	for _, item := range list {
		if item == p {
			return true
		}
	}
	return false
}

func hasAnyLabel(taskLabels, wanted []string) bool {
	for _, w := range wanted {
		for _, l := range taskLabels {
			if strings.EqualFold(l, w) {
				return true
			}
		}
	}
	return false
}
