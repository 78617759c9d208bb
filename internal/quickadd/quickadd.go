// Package quickadd разбирает строку быстрого добавления задачи:
// "Позвонить маме tomorrow p1 @home #family for30".
package quickadd

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"todone/internal/models/task"
)

type Result struct {
	Content     string        `json:"content"`
	ProjectName string        `json:"project_name,omitempty"`
	Labels      []string      `json:"labels"`
	Priority    task.Priority `json:"priority,omitempty"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Duration    *int          `json:"duration,omitempty"`
}

var priorityMap = map[string]task.Priority{
	"p1":  task.PriorityP1,
	"!!!": task.PriorityP1,
	"p2":  task.PriorityP2,
	"!!":  task.PriorityP2,
	"p3":  task.PriorityP3,
	"!":   task.PriorityP3,
	"p4":  task.PriorityP4,
}

// Parse разбирает input относительно now. Всё, что не распознано,
// остаётся в тексте задачи; если не осталось ничего, текстом становится весь input.
func Parse(input string, now time.Time) Result {
	words := strings.Fields(input)
	res := Result{Labels: []string{}}
	content := make([]string, 0, len(words))

	for i := 0; i < len(words); i++ {
		word := words[i]
		normalized := strings.ToLower(word)

		if strings.HasPrefix(normalized, "#") {
			res.ProjectName = normalized[1:]
			continue
		}

		if strings.HasPrefix(normalized, "@") {
			res.Labels = append(res.Labels, normalized[1:])
			continue
		}

		if p, ok := priorityMap[normalized]; ok {
			res.Priority = p
			continue
		}

		if minutes, ok := parseDuration(normalized); ok {
			res.Duration = &minutes
			continue
		}

		if due, ok := dateKeyword(normalized, now); ok {
			res.DueDate = &due
			continue
		}

		if i+1 < len(words) {
			if normalized == "next" && strings.ToLower(words[i+1]) == "week" {
				due := midnight(now).AddDate(0, 0, 7)
				res.DueDate = &due
				i++
				continue
			}

			if due, ok := monthDay(word, words[i+1], now); ok {
				res.DueDate = &due
				i++
				continue
			}
		}

		content = append(content, word)
	}

	res.Content = strings.TrimSpace(strings.Join(content, " "))
	if res.Content == "" {
		res.Content = strings.TrimSpace(input)
	}

	return res
}

// for30, for45m: из токена берутся только цифры
func parseDuration(word string) (int, bool) {
	if !strings.HasPrefix(word, "for") {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, word)
	if digits == "" {
		return 0, false
	}
	minutes, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return minutes, true
}

func dateKeyword(word string, now time.Time) (time.Time, bool) {
	today := midnight(now)
	switch word {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "monday":
		days := (int(time.Monday) - int(today.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days), true
	}
	return time.Time{}, false
}

// "Jan 15" - месяц и число, год текущий. Числа, которого нет в этом году
// (Feb 29 в невисокосный), остаются в тексте задачи.
func monthDay(month, day string, now time.Time) (time.Time, bool) {
	parsed, err := time.Parse("Jan 2", month+" "+day)
	if err != nil {
		return time.Time{}, false
	}

	due := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	if due.Month() != parsed.Month() {
		return time.Time{}, false
	}
	return due, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
