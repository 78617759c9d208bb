package handlers

import (
	"context"
	"time"

	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"
	"todone/internal/productivity"
	"todone/internal/search"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, string, ...task.TaskOption) (*task.Task, error)
	GetTaskByID(context.Context, uuid.UUID) (*task.Task, error)
	GetAllTasks(context.Context, int, int) ([]*task.Task, error)
	UpdateTask(context.Context, uuid.UUID, int, ...task.TaskOption) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) error
	CompleteTask(context.Context, uuid.UUID) (*task.Task, error)
	UncompleteTask(context.Context, uuid.UUID) (*task.Task, error)
	GetTodayTasks(context.Context) ([]*task.Task, error)
	GetOverdueTasks(context.Context) ([]*task.Task, error)
	GetTasksByProject(context.Context, uuid.UUID) ([]*task.Task, error)
	GetSubtasks(context.Context, uuid.UUID) ([]*task.Task, error)
	FilterTasks(context.Context, string) ([]*task.Task, error)
	QuickAdd(context.Context, string) (*task.Task, error)
	DescribeRecurrence(task.RecurringPattern) string
	NextOccurrences(task.RecurringPattern, time.Time, int) ([]time.Time, error)
}

type ProjectService interface {
	CreateProject(context.Context, string, string, bool) (*project.Project, error)
	GetProjects(context.Context) ([]*project.Project, error)
	GetProjectByID(context.Context, uuid.UUID) (*project.Project, error)
	DeleteProject(context.Context, uuid.UUID) error
}

type FilterService interface {
	CreateFilter(context.Context, string, string, ...filter.FilterOption) (*filter.Filter, error)
	GetFilterByID(context.Context, uuid.UUID) (*filter.Filter, error)
	GetFilters(context.Context) ([]*filter.Filter, error)
	UpdateFilter(context.Context, uuid.UUID, ...filter.FilterOption) (*filter.Filter, error)
	DeleteFilter(context.Context, uuid.UUID) error
	ExecuteFilter(context.Context, uuid.UUID) ([]*task.Task, error)
}

type ProductivityService interface {
	Stats(context.Context) (productivity.Stats, error)
	History(context.Context, int) ([]productivity.DayCount, error)
}

type SearchService interface {
	Search(context.Context, string) ([]search.Result, error)
}
