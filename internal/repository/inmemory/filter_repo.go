package inmemory

import (
	"context"
	"sync"
	"time"

	"todone/internal/models/filter"
	repo "todone/internal/repository"

	"github.com/google/uuid"
)

type FilterStorage struct {
	storage map[uuid.UUID]*filter.Filter
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewFilterStorage() *FilterStorage {
	return &FilterStorage{
		storage: make(map[uuid.UUID]*filter.Filter),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *FilterStorage) Create(ctx context.Context, f *filter.Filter) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	f.CreatedAt = time.Now()
	c := *f
	s.storage[f.UUID] = &c
	s.ids = append(s.ids, f.UUID)
	return nil
}

func (s *FilterStorage) Update(ctx context.Context, f *filter.Filter) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[f.UUID]; !ok {
		return repo.ErrNotFound
	}

	now := time.Now()
	f.UpdatedAt = &now
	c := *f
	s.storage[f.UUID] = &c
	return nil
}

func (s *FilterStorage) GetByID(ctx context.Context, id uuid.UUID) (*filter.Filter, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	f, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *f
	return &c, nil
}

// избранные фильтры идут первыми
func (s *FilterStorage) GetAll(ctx context.Context) ([]*filter.Filter, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	favorites := []*filter.Filter{}
	rest := []*filter.Filter{}
	for _, id := range s.ids {
		c := *s.storage[id]
		if c.Favorite {
			favorites = append(favorites, &c)
		} else {
			rest = append(rest, &c)
		}
	}
	return append(favorites, rest...), nil
}

func (s *FilterStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
