package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todone/internal/filterquery"
	"todone/internal/logger"
	"todone/internal/models/task"
	"todone/internal/quickadd"
	"todone/internal/recurrence"
	repo "todone/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type TaskService struct {
	repo     TaskRepository
	projects ProjectRepository
}

func NewTaskService(repo TaskRepository, projects ProjectRepository) *TaskService {
	return &TaskService{
		repo:     repo,
		projects: projects,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		logger.Error("Service: Хранилище недоступно", err)
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, content string, opts ...task.TaskOption) (*task.Task, error) {
	now := time.Now()
	t := &task.Task{
		UUID:      uuid.New(),
		Content:   strings.TrimSpace(content),
		Labels:    []string{},
		CreatedAt: now,
	}
	applyOptions(t, opts)

	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}
	pinPattern(t, false)

	// без явного порядка задача встаёт в конец своего проекта
	if t.Order == 0 {
		order, err := s.countInProject(ctx, t.ProjectID)
		if err != nil {
			return nil, err
		}
		t.Order = order
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fromRepoError(err, "задача", t.UUID.String(), "создание задачи")
	}

	logger.Info("Service: Задача создана", zap.String("task_id", t.UUID.String()))
	return t, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
		}
		return nil, fromRepoError(err, "задача", id.String(), "получение задачи")
	}
	return t, nil
}

func (s *TaskService) GetAllTasks(ctx context.Context, page, limit int) ([]*task.Task, error) {
	tasks, err := s.repo.GetAllWithLimit(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// UpdateTask применяет опции к сохранённой задаче. version = 0 отключает
// проверку версии, иначе она должна совпасть с текущей.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, version int, opts ...task.TaskOption) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if version != 0 && version != t.Version {
		logger.Info("Service: Версия задачи устарела",
			zap.String("task_id", id.String()),
			zap.Int("expected", version),
			zap.Int("actual", t.Version))
		return nil, fromRepoError(repo.ErrVersionConflict, "задача", id.String(), "обновление задачи")
	}

	prevDue := t.DueDate
	applyOptions(t, opts)
	t.Content = strings.TrimSpace(t.Content)
	if err := s.validate(ctx, t); err != nil {
		return nil, err
	}
	pinPattern(t, !sameTime(prevDue, t.DueDate))

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepoError(err, "задача", id.String(), "удаление задачи")
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

// CompleteTask закрывает задачу. Повторяющаяся задача вместо закрытия
// переносится на следующую дату серии и остаётся открытой.
func (s *TaskService) CompleteTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return nil, NewBusinessError(CodeAlreadyCompleted, "Задача уже выполнена", ToDetail("id", id.String()))
	}

	now := time.Now()
	if t.IsRecurring() && RollOver(t, now) {
		logger.Info("Service: Повторяющаяся задача перенесена",
			zap.String("task_id", id.String()),
			zap.Time("due_date", *t.DueDate))
	} else {
		t.Completed = true
		t.CompletedAt = &now
	}

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) UncompleteTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Completed {
		return nil, NewBusinessError(CodeNotCompleted, "Задача ещё не выполнена", ToDetail("id", id.String()))
	}

	t.Completed = false
	t.CompletedAt = nil

	if err := s.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) GetTodayTasks(ctx context.Context) ([]*task.Task, error) {
	open := false
	return s.query(ctx, filterquery.Query{
		Dates:     filterquery.DateFilter{Today: true},
		Completed: &open,
	})
}

func (s *TaskService) GetOverdueTasks(ctx context.Context) ([]*task.Task, error) {
	return s.query(ctx, filterquery.Query{
		Dates: filterquery.DateFilter{Overdue: true},
	})
}

// GetTasksByProject возвращает задачи верхнего уровня, подзадачи не входят
func (s *TaskService) GetTasksByProject(ctx context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, fromRepoError(err, "проект", projectID.String(), "получение проекта")
	}

	tasks, err := s.repo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("получение задач проекта: %w", err)
	}

	topLevel := false
	return filterquery.Apply(tasks, filterquery.Query{IsSubtask: &topLevel}), nil
}

func (s *TaskService) GetSubtasks(ctx context.Context, parentID uuid.UUID) ([]*task.Task, error) {
	if _, err := s.GetTaskByID(ctx, parentID); err != nil {
		return nil, err
	}

	tasks, err := s.repo.GetSubtasks(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("получение подзадач: %w", err)
	}
	return tasks, nil
}

// FilterTasks выполняет текстовый запрос. Имена проектов из #project
// сопоставляются с сохранёнными проектами, неизвестные имена ничего не пропускают.
func (s *TaskService) FilterTasks(ctx context.Context, text string) ([]*task.Task, error) {
	return s.query(ctx, filterquery.Parse(text))
}

// QuickAdd создаёт задачу из строки быстрого добавления
func (s *TaskService) QuickAdd(ctx context.Context, input string) (*task.Task, error) {
	if strings.TrimSpace(input) == "" {
		return nil, NewValidationError("input", "не может быть пустым")
	}

	parsed := quickadd.Parse(input, time.Now())
	opts := []task.TaskOption{
		task.WithLabels(parsed.Labels),
		task.WithPriority(parsed.Priority),
		task.WithDueDate(parsed.DueDate),
		task.WithDuration(parsed.Duration),
	}

	if parsed.ProjectName != "" {
		p, err := s.projects.GetByName(ctx, parsed.ProjectName)
		switch {
		case err == nil:
			opts = append(opts, task.WithProject(&p.UUID))
		case errors.Is(err, repo.ErrNotFound):
			logger.Info("Service: Проект из быстрого добавления не найден",
				zap.String("project", parsed.ProjectName))
		default:
			return nil, fmt.Errorf("получение проекта: %w", err)
		}
	}

	return s.CreateTask(ctx, parsed.Content, opts...)
}

func (s *TaskService) DescribeRecurrence(p task.RecurringPattern) string {
	return recurrence.Describe(p)
}

// NextOccurrences возвращает до limit ближайших дат серии после from
func (s *TaskService) NextOccurrences(p task.RecurringPattern, from time.Time, limit int) ([]time.Time, error) {
	if err := validatePattern(&p); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > recurrence.MaxOccurrences {
		return nil, NewValidationError("limit", fmt.Sprintf("должен быть от 1 до %d", recurrence.MaxOccurrences))
	}
	return recurrence.Occurrences(p, from, limit), nil
}

// RollOver переносит повторяющуюся задачу на следующую дату серии и
// открывает её заново. Якорь серии - текущий срок, без срока - now.
// Если серия закончилась, шаблон снимается и задача остаётся как есть.
func RollOver(t *task.Task, now time.Time) bool {
	if t.RecurringPattern == nil {
		return false
	}

	anchor := now
	if t.DueDate != nil {
		anchor = *t.DueDate
	}

	pinned := recurrence.Pin(*t.RecurringPattern, anchor)
	t.RecurringPattern = &pinned

	next, ok := recurrence.Next(pinned, anchor)
	if !ok {
		t.RecurringPattern = nil
		return false
	}

	t.DueDate = &next
	t.Completed = false
	t.CompletedAt = nil
	return true
}

func (s *TaskService) query(ctx context.Context, q filterquery.Query) ([]*task.Task, error) {
	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	filtered := filterquery.Apply(tasks, q)
	if len(q.Projects) == 0 {
		return filtered, nil
	}

	ids, err := s.resolveProjects(ctx, q.Projects)
	if err != nil {
		return nil, err
	}

	res := make([]*task.Task, 0, len(filtered))
	for _, t := range filtered {
		if t.ProjectID != nil && ids[*t.ProjectID] {
			res = append(res, t)
		}
	}
	return res, nil
}

func (s *TaskService) resolveProjects(ctx context.Context, names []string) (map[uuid.UUID]bool, error) {
	ids := make(map[uuid.UUID]bool, len(names))
	for _, name := range names {
		p, err := s.projects.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				logger.Info("Service: Проект из запроса не найден", zap.String("project", name))
				continue
			}
			return nil, fmt.Errorf("получение проекта: %w", err)
		}
		ids[p.UUID] = true
	}
	return ids, nil
}

func (s *TaskService) validate(ctx context.Context, t *task.Task) error {
	if t.Content == "" {
		return NewValidationError("content", "не может быть пустым")
	}

	if t.Priority != task.PriorityNone {
		if _, ok := task.ParsePriority(string(t.Priority)); !ok {
			return NewValidationError("priority", "допустимы p1, p2, p3, p4")
		}
	}

	if t.Duration != nil && *t.Duration < 0 {
		return NewValidationError("duration", "не может быть отрицательной")
	}

	if err := validatePattern(t.RecurringPattern); err != nil {
		return err
	}

	if t.ProjectID != nil {
		if _, err := s.projects.GetByID(ctx, *t.ProjectID); err != nil {
			return fromRepoError(err, "проект", t.ProjectID.String(), "получение проекта")
		}
	}

	if t.ParentTaskID != nil {
		if *t.ParentTaskID == t.UUID {
			return NewValidationError("parent_task_id", "задача не может быть своей подзадачей")
		}
		if _, err := s.repo.GetByID(ctx, *t.ParentTaskID); err != nil {
			return fromRepoError(err, "задача", t.ParentTaskID.String(), "получение родительской задачи")
		}
	}

	return nil
}

// pinPattern закрепляет день серии по сроку задачи. reset - срок сменился,
// прежний день серии больше не действует.
func pinPattern(t *task.Task, reset bool) {
	if t.RecurringPattern == nil || t.DueDate == nil {
		return
	}
	p := *t.RecurringPattern
	if reset {
		p.AnchorDay = 0
	}
	p = recurrence.Pin(p, *t.DueDate)
	t.RecurringPattern = &p
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func validatePattern(p *task.RecurringPattern) error {
	if p == nil {
		return nil
	}

	err := recurrence.Validate(*p)
	if err == nil {
		return nil
	}

	var fieldErr *recurrence.FieldError
	if errors.As(err, &fieldErr) {
		return NewValidationError("recurring_pattern."+fieldErr.Field, fieldErr.Reason)
	}
	return NewValidationError("recurring_pattern", err.Error())
}

func (s *TaskService) countInProject(ctx context.Context, projectID *uuid.UUID) (int, error) {
	if projectID != nil {
		tasks, err := s.repo.GetByProject(ctx, *projectID)
		if err != nil {
			return 0, fmt.Errorf("получение задач проекта: %w", err)
		}
		return len(tasks), nil
	}

	tasks, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("получение задач: %w", err)
	}

	count := 0
	for _, t := range tasks {
		if t.ProjectID == nil {
			count++
		}
	}
	return count, nil
}

func (s *TaskService) save(ctx context.Context, t *task.Task) error {
	now := time.Now()
	t.UpdatedAt = &now

	if err := s.repo.Update(ctx, t); err != nil {
		logger.Warn("Service: Не удалось сохранить задачу",
			zap.String("task_id", t.UUID.String()),
			zap.Error(err))
		return fromRepoError(err, "задача", t.UUID.String(), "обновление задачи")
	}
	return nil
}

func applyOptions(t *task.Task, opts []task.TaskOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
}
