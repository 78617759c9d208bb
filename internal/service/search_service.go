package service

import (
	"context"
	"fmt"

	"todone/internal/models/filter"
	"todone/internal/search"
)

type SearchService struct {
	tasks    TaskRepository
	projects ProjectRepository
	filters  FilterRepository
}

func NewSearchService(tasks TaskRepository, projects ProjectRepository, filters FilterRepository) *SearchService {
	return &SearchService{
		tasks:    tasks,
		projects: projects,
		filters:  filters,
	}
}

// Search ищет по всем сущностям сразу, метки собираются из задач
func (s *SearchService) Search(ctx context.Context, query string) ([]search.Result, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	projects, err := s.projects.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение проектов: %w", err)
	}

	var filters []*filter.Filter
	if s.filters != nil {
		filters, err = s.filters.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("получение фильтров: %w", err)
		}
	}

	return search.Global(query, tasks, projects, search.DistinctLabels(tasks), filters), nil
}
