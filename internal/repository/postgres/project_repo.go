package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todone/internal/logger"
	"todone/internal/models/project"
	repo "todone/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type ProjectRepo struct {
	pool *pgxpool.Pool
}

const projectColumns = `uuid, name, color, favorite, sort_order, created_at`

func scanProject(row scanner) (*project.Project, error) {
	p := &project.Project{}
	if err := row.Scan(&p.UUID, &p.Name, &p.Color, &p.Favorite, &p.Order, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *project.Project) error {
	start := time.Now()

	query := `INSERT INTO projects (uuid, name, color, favorite, sort_order, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, p.UUID, p.Name, p.Color, p.Favorite, p.Order, time.Now()).Scan(&p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить проект", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление проекта: %w", err)
	}

	warnIfSlow("create_project", start)
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE uuid = $1`, id)
}

func (r *ProjectRepo) GetByName(ctx context.Context, name string) (*project.Project, error) {
	return r.getOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE LOWER(name) = LOWER($1)`, name)
}

func (r *ProjectRepo) getOne(ctx context.Context, query string, arg any) (*project.Project, error) {
	start := time.Now()

	p, err := scanProject(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить проект", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение проекта: %w", err)
	}

	warnIfSlow("get_project", start)
	return p, nil
}

func (r *ProjectRepo) GetAll(ctx context.Context) ([]*project.Project, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY sort_order, created_at`)
	if err != nil {
		logger.Error("Repository: Не удалось получить проекты", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение проектов: %w", err)
	}
	defer rows.Close()

	projects := []*project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования проекта", zap.Error(err))
			continue
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow("get_projects", start)
	return projects, nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить проект", err)
		return fmt.Errorf("удаление проекта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
