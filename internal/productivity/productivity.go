package productivity

import (
	"math"
	"time"

	"todone/internal/models/task"
)

const dateLayout = "2006-01-02"

type Settings struct {
	DailyGoal  int `json:"daily_goal" mapstructure:"daily_goal"`
	WeeklyGoal int `json:"weekly_goal" mapstructure:"weekly_goal"`
}

func DefaultSettings() Settings {
	return Settings{DailyGoal: 5, WeeklyGoal: 25}
}

type Stats struct {
	TotalCompleted    int       `json:"total_completed"`
	Karma             int       `json:"karma"`
	KarmaLevel        string    `json:"karma_level"`
	CurrentStreak     int       `json:"current_streak"`
	LongestStreak     int       `json:"longest_streak"`
	DailyGoal         int       `json:"daily_goal"`
	WeeklyGoal        int       `json:"weekly_goal"`
	TodayCompleted    int       `json:"today_completed"`
	ThisWeekCompleted int       `json:"this_week_completed"`
	Overdue           int       `json:"overdue"`
	LastUpdated       time.Time `json:"last_updated"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type karmaLevel struct {
	name string
	min  int
	max  int
}

var karmaLevels = []karmaLevel{
	{"Beginner", 0, 999},
	{"Novice", 1000, 2499},
	{"Intermediate", 2500, 4999},
	{"Advanced", 5000, 9999},
	{"Professional", 10000, 19999},
	{"Expert", 20000, 39999},
	{"Master", 40000, 79999},
	{"Grandmaster", 80000, 159999},
	{"Enlightened", 160000, math.MaxInt},
}

// Karma = 10 за каждую выполненную задачу минус 2 за каждую просроченную, не меньше нуля
func Karma(completed, overdue int) int {
	return max(0, completed*10-overdue*2)
}

func KarmaLevel(karma int) string {
	for _, l := range karmaLevels {
		if karma >= l.min && karma <= l.max {
			return l.name
		}
	}
	return karmaLevels[0].name
}

// Calculate считает статистику по всем задачам на момент now
func Calculate(tasks []*task.Task, settings Settings, now time.Time) Stats {
	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -7)

	stats := Stats{
		DailyGoal:   settings.DailyGoal,
		WeeklyGoal:  settings.WeeklyGoal,
		LastUpdated: now,
	}

	for _, t := range tasks {
		if !t.Completed {
			if t.DueDate != nil && t.DueDate.Before(now) {
				stats.Overdue++
			}
			continue
		}

		stats.TotalCompleted++
		if t.CompletedAt == nil {
			continue
		}
		completedAt := t.CompletedAt.In(now.Location())
		if startOfDay(completedAt).Equal(today) {
			stats.TodayCompleted++
		}
		if !completedAt.Before(weekStart) {
			stats.ThisWeekCompleted++
		}
	}

	stats.Karma = Karma(stats.TotalCompleted, stats.Overdue)
	stats.KarmaLevel = KarmaLevel(stats.Karma)
	stats.CurrentStreak, stats.LongestStreak = Streaks(tasks, settings.DailyGoal, now)

	return stats
}

// History - число выполненных задач по дням за последние days дней, от старых к новым
func History(tasks []*task.Task, days int, now time.Time) []DayCount {
	byDay := countByDay(tasks, now.Location())

	history := make([]DayCount, 0, max(days, 0))
	for i := days - 1; i >= 0; i-- {
		key := now.AddDate(0, 0, -i).Format(dateLayout)
		history = append(history, DayCount{Date: key, Count: byDay[key]})
	}
	return history
}

// Streaks возвращает текущую и самую длинную серию дней, в которые
// выполнено не меньше dailyGoal задач. Сегодня и вчера серию не обрывают,
// пока день ещё может быть засчитан.
func Streaks(tasks []*task.Task, dailyGoal int, now time.Time) (current, longest int) {
	if dailyGoal < 1 {
		dailyGoal = 1
	}
	byDay := countByDay(tasks, now.Location())
	today := startOfDay(now)

	for day, offset := today, 0; ; day, offset = day.AddDate(0, 0, -1), offset+1 {
		count := byDay[day.Format(dateLayout)]
		if count >= dailyGoal {
			current++
			continue
		}
		if offset <= 1 {
			continue
		}
		break
	}

	var first, last time.Time
	for key := range byDay {
		day, err := time.ParseInLocation(dateLayout, key, now.Location())
		if err != nil {
			continue
		}
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}
	if first.IsZero() {
		return current, 0
	}

	run := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if byDay[day.Format(dateLayout)] >= dailyGoal {
			run++
			longest = max(longest, run)
		} else {
			run = 0
		}
	}

	return current, longest
}

func countByDay(tasks []*task.Task, loc *time.Location) map[string]int {
	byDay := make(map[string]int)
	for _, t := range tasks {
		if !t.Completed || t.CompletedAt == nil {
			continue
		}
		byDay[t.CompletedAt.In(loc).Format(dateLayout)]++
	}
	return byDay
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
