package service

import (
	"context"
	"fmt"
	"strings"

	"todone/internal/logger"
	"todone/internal/models/filter"
	"todone/internal/models/project"
	"todone/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskFinder выполняет текстовый запрос по задачам
type TaskFinder interface {
	FilterTasks(ctx context.Context, text string) ([]*task.Task, error)
}

type FilterService struct {
	repo  FilterRepository
	tasks TaskFinder
}

func NewFilterService(repo FilterRepository, tasks TaskFinder) *FilterService {
	return &FilterService{
		repo:  repo,
		tasks: tasks,
	}
}

func (s *FilterService) CreateFilter(ctx context.Context, name, query string, opts ...filter.FilterOption) (*filter.Filter, error) {
	f := &filter.Filter{
		UUID:  uuid.New(),
		Name:  strings.TrimSpace(name),
		Query: strings.TrimSpace(query),
		Color: project.Colors[0],
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	if err := validateFilter(f); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fromRepoError(err, "фильтр", f.UUID.String(), "создание фильтра")
	}

	logger.Info("Service: Фильтр создан", zap.String("filter_id", f.UUID.String()), zap.String("query", f.Query))
	return f, nil
}

func (s *FilterService) GetFilterByID(ctx context.Context, id uuid.UUID) (*filter.Filter, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, "фильтр", id.String(), "получение фильтра")
	}
	return f, nil
}

func (s *FilterService) GetFilters(ctx context.Context) ([]*filter.Filter, error) {
	filters, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение фильтров: %w", err)
	}
	return filters, nil
}

func (s *FilterService) UpdateFilter(ctx context.Context, id uuid.UUID, opts ...filter.FilterOption) (*filter.Filter, error) {
	f, err := s.GetFilterByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Query = strings.TrimSpace(f.Query)

	if err := validateFilter(f); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, fromRepoError(err, "фильтр", id.String(), "обновление фильтра")
	}
	return f, nil
}

func (s *FilterService) DeleteFilter(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepoError(err, "фильтр", id.String(), "удаление фильтра")
	}
	logger.Info("Service: Фильтр удалён", zap.String("filter_id", id.String()))
	return nil
}

// ExecuteFilter разбирает сохранённый запрос заново при каждом вызове
func (s *FilterService) ExecuteFilter(ctx context.Context, id uuid.UUID) ([]*task.Task, error) {
	f, err := s.GetFilterByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.tasks.FilterTasks(ctx, f.Query)
}

func validateFilter(f *filter.Filter) error {
	if f.Name == "" {
		return NewValidationError("name", "не может быть пустым")
	}
	if f.Query == "" {
		return NewValidationError("query", "не может быть пустым")
	}
	if f.Color != "" && !project.IsKnownColor(f.Color) {
		return NewValidationError("color", "цвет не из палитры")
	}
	return nil
}
