package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todone/internal/logger"
	"todone/internal/models/filter"
	repo "todone/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FilterRepo struct {
	pool *pgxpool.Pool
}

const filterColumns = `uuid, name, query, color, favorite, created_at, updated_at`

func scanFilter(row scanner) (*filter.Filter, error) {
	f := &filter.Filter{}
	if err := row.Scan(&f.UUID, &f.Name, &f.Query, &f.Color, &f.Favorite, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FilterRepo) Create(ctx context.Context, f *filter.Filter) error {
	start := time.Now()

	query := `INSERT INTO filters (uuid, name, query, color, favorite, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, f.UUID, f.Name, f.Query, f.Color, f.Favorite, time.Now()).Scan(&f.CreatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить фильтр", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление фильтра: %w", err)
	}

	warnIfSlow("create_filter", start)
	return nil
}

func (r *FilterRepo) Update(ctx context.Context, f *filter.Filter) error {
	start := time.Now()

	query := `UPDATE filters
			SET name = $1,
				query = $2,
				color = $3,
				favorite = $4,
				updated_at = NOW()
			WHERE uuid = $5
			RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query, f.Name, f.Query, f.Color, f.Favorite, f.UUID).Scan(&f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить фильтр", err)
		return fmt.Errorf("обновление фильтра: %w", err)
	}

	warnIfSlow("update_filter", start)
	return nil
}

func (r *FilterRepo) GetByID(ctx context.Context, id uuid.UUID) (*filter.Filter, error) {
	start := time.Now()

	f, err := scanFilter(r.pool.QueryRow(ctx, `SELECT `+filterColumns+` FROM filters WHERE uuid = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить фильтр", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение фильтра: %w", err)
	}

	warnIfSlow("get_filter", start)
	return f, nil
}

// избранные фильтры идут первыми
func (r *FilterRepo) GetAll(ctx context.Context) ([]*filter.Filter, error) {
	start := time.Now()

	rows, err := r.pool.Query(ctx, `SELECT `+filterColumns+` FROM filters ORDER BY favorite DESC, created_at`)
	if err != nil {
		logger.Error("Repository: Не удалось получить фильтры", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение фильтров: %w", err)
	}
	defer rows.Close()

	filters := []*filter.Filter{}
	for rows.Next() {
		f, err := scanFilter(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования фильтра", zap.Error(err))
			continue
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow("get_filters", start)
	return filters, nil
}

func (r *FilterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM filters WHERE uuid = $1`, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить фильтр", err)
		return fmt.Errorf("удаление фильтра: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
