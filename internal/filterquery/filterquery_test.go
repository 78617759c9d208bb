package filterquery_test

import (
	"testing"
	"time"

	"todone/internal/filterquery"
	"todone/internal/models/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 18, 15, 30, 0, 0, time.UTC)

func dayOffset(days int) *time.Time {
	d := time.Date(2025, time.June, 18, 9, 0, 0, 0, time.UTC).AddDate(0, 0, days)
	return &d
}

func newTask(content string, opts ...task.TaskOption) *task.Task {
	t := &task.Task{UUID: uuid.New(), Content: content}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// TestTokenize тестирует классификацию токенов
func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []filterquery.TokenKind
	}{
		{
			name:     "empty query",
			query:    "   ",
			expected: []filterquery.TokenKind{},
		},
		{
			name:  "operators are unknown",
			query: "p1 & today | @work",
			expected: []filterquery.TokenKind{
				filterquery.TokenPriority,
				filterquery.TokenUnknown,
				filterquery.TokenToday,
				filterquery.TokenUnknown,
				filterquery.TokenLabel,
			},
		},
		{
			name:     "no date consumes two tokens",
			query:    "No Date overdue",
			expected: []filterquery.TokenKind{filterquery.TokenNoDate, filterquery.TokenOverdue},
		},
		{
			name:     "no without date is unknown",
			query:    "no today",
			expected: []filterquery.TokenKind{filterquery.TokenUnknown, filterquery.TokenToday},
		},
		{
			name:  "subtask and negation",
			query: "subtask !subtask recurring #home",
			expected: []filterquery.TokenKind{
				filterquery.TokenSubtask,
				filterquery.TokenNotSubtask,
				filterquery.TokenRecurring,
				filterquery.TokenProject,
			},
		},
		{
			name:     "search wins over other rules",
			query:    "search:today",
			expected: []filterquery.TokenKind{filterquery.TokenSearch},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := filterquery.Tokenize(tt.query)
			kinds := make([]filterquery.TokenKind, 0, len(tokens))
			for _, tok := range tokens {
				kinds = append(kinds, tok.Kind)
			}
			assert.Equal(t, tt.expected, kinds)
		})
	}
}

// TestParse тестирует сборку запроса из токенов
func TestParse(t *testing.T) {
	q := filterquery.Parse("search:Report P1 p3 @Work #Home today overdue no date recurring !subtask")

	assert.Equal(t, "Report", q.Search)
	assert.Equal(t, []task.Priority{task.PriorityP1, task.PriorityP3}, q.Priorities)
	assert.Equal(t, []string{"work"}, q.Labels)
	assert.Equal(t, []string{"home"}, q.Projects)
	assert.True(t, q.Dates.Today)
	assert.True(t, q.Dates.Overdue)
	assert.True(t, q.Dates.NoDate)
	require.NotNil(t, q.Recurring)
	assert.True(t, *q.Recurring)
	require.NotNil(t, q.IsSubtask)
	assert.False(t, *q.IsSubtask)
	assert.Nil(t, q.Completed)
	assert.False(t, q.IsEmpty())
}

// TestParse_Empty тестирует пустые и мусорные запросы
func TestParse_Empty(t *testing.T) {
	for _, query := range []string{"", "   ", "& | foo bar", "no"} {
		assert.True(t, filterquery.Parse(query).IsEmpty(), query)
	}
}

// TestApply_EmptyQueryIsIdentity тестирует, что пустой запрос ничего не отбрасывает
func TestApply_EmptyQueryIsIdentity(t *testing.T) {
	tasks := []*task.Task{
		newTask("a"),
		newTask("b", task.WithPriority(task.PriorityP2)),
		newTask("c", task.WithDueDate(dayOffset(-3))),
	}

	result := filterquery.ApplyAt(tasks, filterquery.Parse(""), fixedNow)
	assert.Equal(t, tasks, result)
}

// TestApply_DoesNotMutateInput тестирует, что входной срез не меняется
func TestApply_DoesNotMutateInput(t *testing.T) {
	a := newTask("a", task.WithPriority(task.PriorityP1))
	b := newTask("b")
	c := newTask("c", task.WithPriority(task.PriorityP1))
	tasks := []*task.Task{a, b, c}

	result := filterquery.ApplyAt(tasks, filterquery.Parse("p1"), fixedNow)

	assert.Equal(t, []*task.Task{a, c}, result)
	assert.Equal(t, []*task.Task{a, b, c}, tasks)
}

// TestApply_Idempotent тестирует повторное применение запроса
func TestApply_Idempotent(t *testing.T) {
	tasks := []*task.Task{
		newTask("Write docs", task.WithPriority(task.PriorityP2), task.WithLabels([]string{"work"})),
		newTask("Plan trip", task.WithLabels([]string{"home"})),
		newTask("Fix bug", task.WithPriority(task.PriorityP1), task.WithLabels([]string{"Work"})),
	}
	query := "p1 p2 @work"

	first := filterquery.ApplyAt(tasks, filterquery.Parse(query), fixedNow)
	second := filterquery.ApplyAt(first, filterquery.Parse(query), fixedNow)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.Equal(t, "Write docs", first[0].Content)
	assert.Equal(t, "Fix bug", first[1].Content)
}

// TestApply_Stages тестирует отдельные стадии фильтрации
func TestApply_Stages(t *testing.T) {
	parentID := uuid.New()
	pattern := &task.RecurringPattern{Type: task.RecurrenceDaily, Interval: 1}

	noPriority := newTask("No priority")
	p1 := newTask("Urgent report", task.WithPriority(task.PriorityP1))
	labeled := newTask("Labeled", task.WithLabels([]string{"WORK"}))
	dueToday := newTask("Due today", task.WithDueDate(dayOffset(0)))
	overdueOpen := newTask("Overdue open", task.WithDueDate(dayOffset(-1)))
	overdueDone := newTask("Overdue done", task.WithDueDate(dayOffset(-2)))
	overdueDone.Completed = true
	future := newTask("Future", task.WithDueDate(dayOffset(2)))
	recurring := newTask("Recurring", task.WithRecurringPattern(pattern))
	subtask := newTask("Subtask", task.WithParent(&parentID))

	all := []*task.Task{noPriority, p1, labeled, dueToday, overdueOpen, overdueDone, future, recurring, subtask}

	tests := []struct {
		name     string
		query    string
		expected []*task.Task
	}{
		{"search is case-insensitive", "search:REPORT", []*task.Task{p1}},
		{"priority excludes tasks without priority", "p1 p2 p3 p4", []*task.Task{p1}},
		{"label lower-case", "@work", []*task.Task{labeled}},
		{"label mixed case", "@Work", []*task.Task{labeled}},
		{"today", "today", []*task.Task{dueToday}},
		{"overdue skips completed", "overdue", []*task.Task{overdueOpen}},
		{"recurring", "recurring", []*task.Task{recurring}},
		{"subtask", "subtask", []*task.Task{subtask}},
		{"projects are not evaluated", "#work", all},
		{"operators ignored", "p1 | today", []*task.Task{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filterquery.ApplyAt(all, filterquery.Parse(tt.query), fixedNow)
			assert.Equal(t, tt.expected, result)
		})
	}

	t.Run("no date", func(t *testing.T) {
		result := filterquery.ApplyAt(all, filterquery.Parse("no date"), fixedNow)
		for _, r := range result {
			assert.Nil(t, r.DueDate)
		}
		assert.Len(t, result, 5)
	})

	t.Run("not subtask", func(t *testing.T) {
		result := filterquery.ApplyAt(all, filterquery.Parse("!subtask"), fixedNow)
		assert.Len(t, result, len(all)-1)
		assert.NotContains(t, result, subtask)
	})
}

// TestApply_Completed тестирует программное условие по завершённости
func TestApply_Completed(t *testing.T) {
	open := newTask("open")
	done := newTask("done")
	done.Completed = true

	completed := true
	q := filterquery.Query{Completed: &completed}

	assert.Equal(t, []*task.Task{done}, filterquery.ApplyAt([]*task.Task{open, done}, q, fixedNow))
}

// TestApply_TodayUsesCalendarDay тестирует сравнение по календарному дню в зоне now
func TestApply_TodayUsesCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, time.June, 18, 1, 0, 0, 0, loc)

	// 22:30 UTC 17 июня = 01:30 18 июня по UTC+3
	late := time.Date(2025, time.June, 17, 22, 30, 0, 0, time.UTC)
	tk := newTask("late", task.WithDueDate(&late))

	result := filterquery.ApplyAt([]*task.Task{tk}, filterquery.Parse("today"), now)
	assert.Equal(t, []*task.Task{tk}, result)

	result = filterquery.ApplyAt([]*task.Task{tk}, filterquery.Parse("overdue"), now)
	assert.Empty(t, result)
}

// TestExecute_ShipReport тестирует сценарий "p1 & today"
func TestExecute_ShipReport(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	ship := &task.Task{
		UUID:     uuid.New(),
		Content:  "Ship report",
		Priority: task.PriorityP1,
		Labels:   []string{"work"},
		DueDate:  &now,
	}
	milk := &task.Task{
		UUID:    uuid.New(),
		Content: "Buy milk",
		Labels:  []string{},
		DueDate: &yesterday,
	}

	result := filterquery.Execute([]*task.Task{ship, milk}, "p1 & today")
	assert.Equal(t, []*task.Task{ship}, result)
}
