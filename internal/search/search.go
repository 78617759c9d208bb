// Package search - нечёткий поиск по задачам, проектам, меткам и фильтрам
// с ранжированием по совпадению заголовка.
package search

import (
	"sort"
	"strings"

	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"
)

type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindLabel   Kind = "label"
	KindFilter  Kind = "filter"
)

// лимиты на группу в общем поиске
const (
	GlobalTaskLimit    = 5
	GlobalProjectLimit = 3
	GlobalLabelLimit   = 3
	GlobalFilterLimit  = 2
)

const matchThreshold = 30

type Result struct {
	Type     Kind    `json:"type"`
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle,omitempty"`
	Priority string  `json:"priority,omitempty"`
	Color    string  `json:"color,omitempty"`
	Score    float64 `json:"score"`
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score оценивает совпадение от 0 до 100: точное 100, префикс 90,
// начало слова 80, подстрока 70, иначе доля найденных слов * 50
func Score(term, text string) float64 {
	term = normalize(term)
	text = normalize(text)

	switch {
	case text == term:
		return 100
	case strings.HasPrefix(text, term):
		return 90
	case strings.Contains(text, " "+term):
		return 80
	case strings.Contains(text, term):
		return 70
	}

	words := strings.Split(term, " ")
	matched := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words)) * 50
}

func Match(term, text string) bool {
	return Score(term, text) > matchThreshold
}

func Tasks(tasks []*task.Task, query string) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	res := []Result{}
	for _, t := range tasks {
		searchable := strings.Join(append([]string{t.Content, t.Description}, t.Labels...), " ")
		if !Match(query, searchable) {
			continue
		}
		res = append(res, Result{
			Type:     KindTask,
			ID:       t.UUID.String(),
			Title:    t.Content,
			Subtitle: t.Description,
			Priority: string(t.Priority),
		})
	}
	return rank(res, query)
}

func Projects(projects []*project.Project, query string) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	res := []Result{}
	for _, p := range projects {
		if !Match(query, p.Name) {
			continue
		}
		res = append(res, Result{
			Type:  KindProject,
			ID:    p.UUID.String(),
			Title: p.Name,
			Color: p.Color,
		})
	}
	return rank(res, query)
}

// Labels ищет по именам меток; отдельной сущности метки нет,
// поэтому ID совпадает с именем
func Labels(labels []string, query string) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	res := []Result{}
	for _, l := range labels {
		if !Match(query, l) {
			continue
		}
		res = append(res, Result{
			Type:  KindLabel,
			ID:    l,
			Title: "@" + l,
		})
	}
	return rank(res, query)
}

func Filters(filters []*filter.Filter, query string) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	res := []Result{}
	for _, f := range filters {
		if !Match(query, f.Name) {
			continue
		}
		res = append(res, Result{
			Type:     KindFilter,
			ID:       f.UUID.String(),
			Title:    f.Name,
			Subtitle: f.Query,
			Color:    f.Color,
		})
	}
	return rank(res, query)
}

// Global собирает результаты по всем группам с ограничением на каждую
func Global(query string, tasks []*task.Task, projects []*project.Project, labels []string, filters []*filter.Filter) []Result {
	if strings.TrimSpace(query) == "" {
		return []Result{}
	}

	res := []Result{}
	res = append(res, head(Tasks(tasks, query), GlobalTaskLimit)...)
	res = append(res, head(Projects(projects, query), GlobalProjectLimit)...)
	res = append(res, head(Labels(labels, query), GlobalLabelLimit)...)
	res = append(res, head(Filters(filters, query), GlobalFilterLimit)...)
	return res
}

// DistinctLabels собирает уникальные метки задач в порядке появления
func DistinctLabels(tasks []*task.Task) []string {
	seen := make(map[string]struct{})
	labels := []string{}
	for _, t := range tasks {
		for _, l := range t.Labels {
			key := strings.ToLower(l)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			labels = append(labels, l)
		}
	}
	return labels
}

// ранжирование по заголовку, при равенстве сохраняется исходный порядок
func rank(res []Result, query string) []Result {
	for i := range res {
		res[i].Score = Score(query, res[i].Title)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Score > res[j].Score
	})
	return res
}

func head(res []Result, n int) []Result {
	if len(res) > n {
		return res[:n]
	}
	return res
}
