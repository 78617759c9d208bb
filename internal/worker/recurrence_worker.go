package worker

import (
	"context"
	"fmt"
	"time"

	"todone/internal/logger"
	"todone/internal/models/task"
	"todone/internal/service"

	"go.uber.org/zap"
)

// RecurrenceWorker периодически переоткрывает выполненные повторяющиеся
// задачи на следующую дату серии
type RecurrenceWorker struct {
	repo      service.TaskRepository
	interval  time.Duration
	batchSize int
}

type Stats struct {
	Checked  int
	Rolled   int
	Finished int
}

func NewRecurrenceWorker(repo service.TaskRepository, interval *time.Duration, batchSize *int) *RecurrenceWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil || *batchSize <= 0 {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}

	return &RecurrenceWorker{
		repo:      repo,
		interval:  intervalToSet,
		batchSize: batchToSet,
	}
}

func (w *RecurrenceWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновый перенос повторяющихся задач", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновый перенос останавливается")
			return
		}
	}
}

func (w *RecurrenceWorker) Check(ctx context.Context) Stats {
	start := time.Now()
	var stats Stats

	tasks, err := w.getCompletedRecurring(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения задач", zap.Error(err))
		return stats
	}
	stats.Checked = len(tasks)

	now := time.Now()
	for _, t := range tasks {
		if ctx.Err() != nil {
			break
		}

		rolled := service.RollOver(t, now)
		if err := w.save(ctx, t); err != nil {
			logger.Warn("Worker: Ошибка обновления задачи",
				zap.String("task_id", t.UUID.String()),
				zap.Error(err))
			continue
		}

		if rolled {
			stats.Rolled++
		} else {
			stats.Finished++
		}
	}

	logger.Info(
		"Worker: Завершение переноса задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", stats.Checked),
		zap.Int("rolled", stats.Rolled),
		zap.Int("finished", stats.Finished),
	)
	return stats
}

func (w *RecurrenceWorker) getCompletedRecurring(ctx context.Context) ([]*task.Task, error) {
	tasks, err := w.repo.GetCompletedRecurring(ctx, w.batchSize)
	if err != nil {
		return nil, fmt.Errorf("получение повторяющихся задач: %w", err)
	}
	return tasks, nil
}

func (w *RecurrenceWorker) save(ctx context.Context, t *task.Task) error {
	if err := w.repo.Update(ctx, t); err != nil {
		return fmt.Errorf("обновление задачи: %w", err)
	}
	return nil
}
