package service

import (
	"context"
	"fmt"
	"time"

	"todone/internal/productivity"
)

const MaxHistoryDays = 365

type ProductivityService struct {
	repo     TaskRepository
	settings productivity.Settings
}

func NewProductivityService(repo TaskRepository, settings productivity.Settings) *ProductivityService {
	if settings.DailyGoal <= 0 || settings.WeeklyGoal <= 0 {
		settings = productivity.DefaultSettings()
	}
	return &ProductivityService{
		repo:     repo,
		settings: settings,
	}
}

func (s *ProductivityService) Stats(ctx context.Context) (productivity.Stats, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return productivity.Stats{}, fmt.Errorf("получение задач: %w", err)
	}
	return productivity.Calculate(tasks, s.settings, time.Now()), nil
}

func (s *ProductivityService) History(ctx context.Context, days int) ([]productivity.DayCount, error) {
	if days <= 0 || days > MaxHistoryDays {
		return nil, NewValidationError("days", fmt.Sprintf("должно быть от 1 до %d", MaxHistoryDays))
	}

	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return productivity.History(tasks, days, time.Now()), nil
}
