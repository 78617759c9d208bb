// Package seed загружает начальные проекты, задачи и фильтры из YAML.
package seed

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"todone/internal/logger"
	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Fixture struct {
	Projects []Project `yaml:"projects"`
	Tasks    []Task    `yaml:"tasks"`
	Filters  []Filter  `yaml:"filters"`
}

type Project struct {
	Name     string `yaml:"name"`
	Color    string `yaml:"color"`
	Favorite bool   `yaml:"favorite"`
}

// Task - задача в фикстуре. Due: today, tomorrow, yesterday, +N/-N дней
// от сегодня или дата 2006-01-02. Project и Parent - имя проекта и текст
// родительской задачи, объявленной выше.
type Task struct {
	Content     string                 `yaml:"content"`
	Description string                 `yaml:"description"`
	Project     string                 `yaml:"project"`
	Parent      string                 `yaml:"parent"`
	Priority    string                 `yaml:"priority"`
	Labels      []string               `yaml:"labels"`
	Due         string                 `yaml:"due"`
	Duration    *int                   `yaml:"duration"`
	Recurring   *task.RecurringPattern `yaml:"recurring"`
	Completed   bool                   `yaml:"completed"`
}

type Filter struct {
	Name     string `yaml:"name"`
	Query    string `yaml:"query"`
	Color    string `yaml:"color"`
	Favorite bool   `yaml:"favorite"`
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение фикстуры: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("разбор фикстуры: %w", err)
	}
	return &f, nil
}

type TaskCreator interface {
	CreateTask(context.Context, string, ...task.TaskOption) (*task.Task, error)
	CompleteTask(context.Context, uuid.UUID) (*task.Task, error)
}

type ProjectCreator interface {
	CreateProject(context.Context, string, string, bool) (*project.Project, error)
}

type FilterCreator interface {
	CreateFilter(context.Context, string, string, ...filter.FilterOption) (*filter.Filter, error)
}

// Apply создаёт сущности фикстуры через сервисы. Даты считаются от now.
func Apply(ctx context.Context, f *Fixture, now time.Time, tasks TaskCreator, projects ProjectCreator, filters FilterCreator) error {
	projectIDs := make(map[string]uuid.UUID, len(f.Projects))
	for _, p := range f.Projects {
		created, err := projects.CreateProject(ctx, p.Name, p.Color, p.Favorite)
		if err != nil {
			return fmt.Errorf("проект %q: %w", p.Name, err)
		}
		projectIDs[strings.ToLower(p.Name)] = created.UUID
	}

	taskIDs := make(map[string]uuid.UUID, len(f.Tasks))
	for _, t := range f.Tasks {
		opts, err := t.options(now, projectIDs, taskIDs)
		if err != nil {
			return fmt.Errorf("задача %q: %w", t.Content, err)
		}

		created, err := tasks.CreateTask(ctx, t.Content, opts...)
		if err != nil {
			return fmt.Errorf("задача %q: %w", t.Content, err)
		}
		taskIDs[t.Content] = created.UUID

		if t.Completed {
			if _, err := tasks.CompleteTask(ctx, created.UUID); err != nil {
				return fmt.Errorf("задача %q: %w", t.Content, err)
			}
		}
	}

	if filters != nil {
		for _, fl := range f.Filters {
			opts := []filter.FilterOption{filter.WithFavorite(fl.Favorite)}
			if fl.Color != "" {
				opts = append(opts, filter.WithColor(fl.Color))
			}
			if _, err := filters.CreateFilter(ctx, fl.Name, fl.Query, opts...); err != nil {
				return fmt.Errorf("фильтр %q: %w", fl.Name, err)
			}
		}
	}

	logger.Info("Seed: Фикстура загружена",
		zap.Int("projects", len(f.Projects)),
		zap.Int("tasks", len(f.Tasks)),
		zap.Int("filters", len(f.Filters)))
	return nil
}

func (t Task) options(now time.Time, projectIDs, taskIDs map[string]uuid.UUID) ([]task.TaskOption, error) {
	opts := []task.TaskOption{
		task.WithDescription(t.Description),
		task.WithPriority(task.Priority(strings.ToLower(t.Priority))),
		task.WithDuration(t.Duration),
		task.WithRecurringPattern(t.Recurring),
	}
	if t.Labels != nil {
		opts = append(opts, task.WithLabels(t.Labels))
	}

	if t.Project != "" {
		id, ok := projectIDs[strings.ToLower(t.Project)]
		if !ok {
			return nil, fmt.Errorf("неизвестный проект %q", t.Project)
		}
		opts = append(opts, task.WithProject(&id))
	}

	if t.Parent != "" {
		id, ok := taskIDs[t.Parent]
		if !ok {
			return nil, fmt.Errorf("неизвестная родительская задача %q", t.Parent)
		}
		opts = append(opts, task.WithParent(&id))
	}

	if t.Due != "" {
		due, err := ParseDue(t.Due, now)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithDueDate(&due))
	}
	return opts, nil
}

// ParseDue переводит относительную или абсолютную дату в полдень нужного дня
// в зоне now
func ParseDue(value string, now time.Time) (time.Time, error) {
	y, m, d := now.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, now.Location())

	switch v := strings.ToLower(strings.TrimSpace(value)); {
	case v == "today":
		return noon, nil
	case v == "tomorrow":
		return noon.AddDate(0, 0, 1), nil
	case v == "yesterday":
		return noon.AddDate(0, 0, -1), nil
	case strings.HasPrefix(v, "+") || strings.HasPrefix(v, "-"):
		days, err := strconv.Atoi(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("неверное смещение даты %q", value)
		}
		return noon.AddDate(0, 0, days), nil
	default:
		day, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("неверная дата %q", value)
		}
		return day.Add(12 * time.Hour), nil
	}
}
