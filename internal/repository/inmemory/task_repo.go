package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todone/internal/logger"
	"todone/internal/models/task"
	repo "todone/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage хранит копии задач, наружу тоже отдаются копии
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[taskToCreate.UUID]; ok {
		return repo.ErrAlreadyExists
	}

	taskToCreate.CreatedAt = time.Now()
	taskToCreate.Version = 1

	s.storage[taskToCreate.UUID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.UUID)
	return nil
}

func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[taskToUpdate.UUID]
	if !ok {
		return repo.ErrNotFound
	}
	if existing.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	now := time.Now()
	taskToUpdate.UpdatedAt = &now
	taskToUpdate.Version++
	s.storage[taskToUpdate.UUID] = taskToUpdate.Clone()

	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

// удаление вместе с подзадачами
func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	toDelete := map[uuid.UUID]struct{}{id: {}}
	for changed := true; changed; {
		changed = false
		for tid, t := range s.storage {
			if _, marked := toDelete[tid]; marked || t.ParentTaskID == nil {
				continue
			}
			if _, parentMarked := toDelete[*t.ParentTaskID]; parentMarked {
				toDelete[tid] = struct{}{}
				changed = true
			}
		}
	}

	ids := s.ids[:0]
	for _, tid := range s.ids {
		if _, ok := toDelete[tid]; ok {
			delete(s.storage, tid)
			continue
		}
		ids = append(ids, tid)
	}
	s.ids = ids

	return nil
}

// все задачи по sort_order, при равенстве - в порядке создания
func (s *TaskStorage) GetAll(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.ordered(func(*task.Task) bool { return true }), nil
}

func (s *TaskStorage) GetAllWithLimit(ctx context.Context, page, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	all := s.ordered(func(*task.Task) bool { return true })
	offset := (page - 1) * limit
	if offset < 0 || limit <= 0 || offset >= len(all) {
		return []*task.Task{}, nil
	}

	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (s *TaskStorage) GetByProject(ctx context.Context, projectID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.ordered(func(t *task.Task) bool {
		return t.ProjectID != nil && *t.ProjectID == projectID
	}), nil
}

func (s *TaskStorage) GetSubtasks(ctx context.Context, parentID uuid.UUID) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.ordered(func(t *task.Task) bool {
		return t.ParentTaskID != nil && *t.ParentTaskID == parentID
	}), nil
}

// выполненные повторяющиеся задачи, которые нужно перенести на следующую дату
func (s *TaskStorage) GetCompletedRecurring(ctx context.Context, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := s.ordered(func(t *task.Task) bool {
		return t.Completed && t.IsRecurring()
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s *TaskStorage) ordered(pred func(*task.Task) bool) []*task.Task {
	res := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if pred(t) {
			res = append(res, t.Clone())
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Order < res[j].Order
	})
	return res
}
