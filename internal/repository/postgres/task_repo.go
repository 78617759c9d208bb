package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todone/internal/logger"
	"todone/internal/models/task"
	repo "todone/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

const taskColumns = `uuid,
				content,
				description,
				project_id,
				priority,
				labels,
				due_date,
				duration,
				recurring_pattern,
				parent_task_id,
				sort_order,
				completed,
				completed_at,
				created_at,
				updated_at,
				version`

func scanTask(row scanner) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID,
		&t.Content,
		&t.Description,
		&t.ProjectID,
		&t.Priority,
		&t.Labels,
		&t.DueDate,
		&t.Duration,
		&t.RecurringPattern,
		&t.ParentTaskID,
		&t.Order,
		&t.Completed,
		&t.CompletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func labelsOrEmpty(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

func (r *TaskRepo) HealthCheck(ctx context.Context) error {
	return healthCheck(ctx, r.pool)
}

func (r *TaskRepo) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, content, description, project_id, priority, labels, due_date, duration,
				 recurring_pattern, parent_task_id, sort_order, completed, completed_at, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				RETURNING created_at, version`

	err := r.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.Content,
		taskToCreate.Description,
		taskToCreate.ProjectID,
		taskToCreate.Priority,
		labelsOrEmpty(taskToCreate.Labels),
		taskToCreate.DueDate,
		taskToCreate.Duration,
		taskToCreate.RecurringPattern,
		taskToCreate.ParentTaskID,
		taskToCreate.Order,
		taskToCreate.Completed,
		taskToCreate.CompletedAt,
		time.Now(),
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.Version)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow("create_task", start)
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET content = $1,
				description = $2,
				project_id = $3,
				priority = $4,
				labels = $5,
				due_date = $6,
				duration = $7,
				recurring_pattern = $8,
				parent_task_id = $9,
				sort_order = $10,
				completed = $11,
				completed_at = $12,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $13 AND version = $14
			RETURNING updated_at, version`

	err := r.pool.QueryRow(ctx, query,
		taskToUpdate.Content,
		taskToUpdate.Description,
		taskToUpdate.ProjectID,
		taskToUpdate.Priority,
		labelsOrEmpty(taskToUpdate.Labels),
		taskToUpdate.DueDate,
		taskToUpdate.Duration,
		taskToUpdate.RecurringPattern,
		taskToUpdate.ParentTaskID,
		taskToUpdate.Order,
		taskToUpdate.Completed,
		taskToUpdate.CompletedAt,
		taskToUpdate.UUID,
		taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, taskToUpdate.UUID); errors.Is(getErr, repo.ErrNotFound) {
				return repo.ErrNotFound
			}
			logger.Warn("Repository: Конфликт версий при обновлении задачи",
				zap.String("task_id", taskToUpdate.UUID.String()),
				zap.Int("expected_version", taskToUpdate.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	warnIfSlow("update_task", start)
	return nil
}

// подзадачи удаляются каскадом
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow("delete_task", start)
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	t, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	warnIfSlow("get_task", start)
	return t, nil
}

func (r *TaskRepo) GetAll(ctx context.Context) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY sort_order, created_at`
	return r.list(ctx, "get_all_tasks", query)
}

func (r *TaskRepo) GetAllWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error) {
	offset := (page - 1) * limit
	if offset < 0 || limit <= 0 {
		return []*task.Task{}, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY sort_order, created_at LIMIT $1 OFFSET $2`
	return r.list(ctx, "get_tasks_page", query, limit, offset)
}

func (r *TaskRepo) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY sort_order, created_at`
	return r.list(ctx, "get_project_tasks", query, projectID)
}

func (r *TaskRepo) GetSubtasks(ctx context.Context, parentID uuid.UUID) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_task_id = $1 ORDER BY sort_order, created_at`
	return r.list(ctx, "get_subtasks", query, parentID)
}

func (r *TaskRepo) GetCompletedRecurring(ctx context.Context, limit int) ([]*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
				WHERE completed AND recurring_pattern IS NOT NULL
				ORDER BY completed_at
				LIMIT $1`
	return r.list(ctx, "get_completed_recurring", query, limit)
}

func (r *TaskRepo) list(ctx context.Context, operation, query string, args ...any) ([]*task.Task, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err,
			zap.String("operation", operation),
			zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(operation, start)
	return tasks, nil
}
