package service

import (
	"context"

	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"

	"github.com/google/uuid"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) error
	GetAll(context.Context) ([]*task.Task, error)
	GetAllWithLimit(context.Context, int, int) ([]*task.Task, error)
	GetByProject(context.Context, uuid.UUID) ([]*task.Task, error)
	GetSubtasks(context.Context, uuid.UUID) ([]*task.Task, error)
	GetCompletedRecurring(context.Context, int) ([]*task.Task, error)
}

type ProjectRepository interface {
	Create(context.Context, *project.Project) error
	GetByID(context.Context, uuid.UUID) (*project.Project, error)
	GetByName(context.Context, string) (*project.Project, error)
	GetAll(context.Context) ([]*project.Project, error)
	Delete(context.Context, uuid.UUID) error
}

type FilterRepository interface {
	Create(context.Context, *filter.Filter) error
	Update(context.Context, *filter.Filter) error
	GetByID(context.Context, uuid.UUID) (*filter.Filter, error)
	GetAll(context.Context) ([]*filter.Filter, error)
	Delete(context.Context, uuid.UUID) error
}
