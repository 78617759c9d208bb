package service

import (
	"context"
	"fmt"
	"strings"

	"todone/internal/logger"
	"todone/internal/models/project"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProjectService struct {
	repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// CreateProject создаёт проект в конце списка. Пустой цвет заменяется
// первым цветом палитры, цвет вне палитры отклоняется.
func (s *ProjectService) CreateProject(ctx context.Context, name, color string, favorite bool) (*project.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "не может быть пустым")
	}
	if color == "" {
		color = project.Colors[0]
	}
	if !project.IsKnownColor(color) {
		return nil, NewValidationError("color", "цвет не из палитры")
	}

	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение проектов: %w", err)
	}

	p := &project.Project{
		UUID:     uuid.New(),
		Name:     name,
		Color:    color,
		Favorite: favorite,
		Order:    len(existing),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fromRepoError(err, "проект", name, "создание проекта")
	}

	logger.Info("Service: Проект создан", zap.String("project_id", p.UUID.String()), zap.String("name", name))
	return p, nil
}

func (s *ProjectService) GetProjects(ctx context.Context) ([]*project.Project, error) {
	projects, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepoError(err, "проект", id.String(), "получение проекта")
	}
	return p, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepoError(err, "проект", id.String(), "удаление проекта")
	}
	logger.Info("Service: Проект удалён", zap.String("project_id", id.String()))
	return nil
}
