package productivity_test

import (
	"testing"
	"time"

	"todone/internal/models/task"
	"todone/internal/productivity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)

func completedOn(daysAgo, n int) []*task.Task {
	res := make([]*task.Task, 0, n)
	for i := 0; i < n; i++ {
		at := now.AddDate(0, 0, -daysAgo).Add(-time.Hour)
		res = append(res, &task.Task{Content: "done", Completed: true, CompletedAt: &at})
	}
	return res
}

// TestKarma тестирует расчёт кармы и уровней
func TestKarma(t *testing.T) {
	assert.Equal(t, 96, productivity.Karma(10, 2))
	assert.Equal(t, 0, productivity.Karma(1, 10))

	levels := map[int]string{
		0:       "Beginner",
		999:     "Beginner",
		1000:    "Novice",
		2500:    "Intermediate",
		5000:    "Advanced",
		10000:   "Professional",
		20000:   "Expert",
		40000:   "Master",
		80000:   "Grandmaster",
		160000:  "Enlightened",
		9999999: "Enlightened",
	}
	for karma, level := range levels {
		assert.Equal(t, level, productivity.KarmaLevel(karma), karma)
	}
}

// TestStreaks тестирует текущую и самую длинную серию
func TestStreaks(t *testing.T) {
	var tasks []*task.Task
	// сегодня цель ещё не выполнена, вчера и позавчера выполнена
	tasks = append(tasks, completedOn(0, 1)...)
	tasks = append(tasks, completedOn(1, 2)...)
	tasks = append(tasks, completedOn(2, 2)...)
	// разрыв на 3 дня назад, затем три дня подряд
	tasks = append(tasks, completedOn(4, 2)...)
	tasks = append(tasks, completedOn(5, 3)...)
	tasks = append(tasks, completedOn(6, 2)...)

	current, longest := productivity.Streaks(tasks, 2, now)
	assert.Equal(t, 2, current)
	assert.Equal(t, 3, longest)

	current, longest = productivity.Streaks(nil, 5, now)
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, longest)
}

// TestHistory тестирует историю выполнения по дням
func TestHistory(t *testing.T) {
	var tasks []*task.Task
	tasks = append(tasks, completedOn(0, 3)...)
	tasks = append(tasks, completedOn(2, 1)...)
	tasks = append(tasks, completedOn(10, 4)...)

	history := productivity.History(tasks, 3, now)
	require.Len(t, history, 3)
	assert.Equal(t, productivity.DayCount{Date: "2025-06-16", Count: 1}, history[0])
	assert.Equal(t, productivity.DayCount{Date: "2025-06-17", Count: 0}, history[1])
	assert.Equal(t, productivity.DayCount{Date: "2025-06-18", Count: 3}, history[2])
}

// TestCalculate тестирует сводную статистику
func TestCalculate(t *testing.T) {
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	tasks := []*task.Task{
		{Content: "overdue", DueDate: &past},
		{Content: "upcoming", DueDate: &future},
		{Content: "done long ago", Completed: true},
	}
	tasks = append(tasks, completedOn(0, 2)...)
	tasks = append(tasks, completedOn(3, 1)...)
	tasks = append(tasks, completedOn(9, 1)...)

	stats := productivity.Calculate(tasks, productivity.DefaultSettings(), now)

	assert.Equal(t, 5, stats.TotalCompleted)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 48, stats.Karma)
	assert.Equal(t, "Beginner", stats.KarmaLevel)
	assert.Equal(t, 2, stats.TodayCompleted)
	assert.Equal(t, 3, stats.ThisWeekCompleted)
	assert.Equal(t, 5, stats.DailyGoal)
	assert.Equal(t, 25, stats.WeeklyGoal)
	assert.Equal(t, now, stats.LastUpdated)
}
