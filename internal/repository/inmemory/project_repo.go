package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"todone/internal/models/project"
	repo "todone/internal/repository"

	"github.com/google/uuid"
)

type ProjectStorage struct {
	storage map[uuid.UUID]*project.Project
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewProjectStorage() *ProjectStorage {
	return &ProjectStorage{
		storage: make(map[uuid.UUID]*project.Project),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *ProjectStorage) Create(ctx context.Context, p *project.Project) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.storage {
		if strings.EqualFold(existing.Name, p.Name) {
			return repo.ErrAlreadyExists
		}
	}

	p.CreatedAt = time.Now()
	c := *p
	s.storage[p.UUID] = &c
	s.ids = append(s.ids, p.UUID)
	return nil
}

func (s *ProjectStorage) GetByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *p
	return &c, nil
}

// имя сравнивается без учёта регистра
func (s *ProjectStorage) GetByName(ctx context.Context, name string) (*project.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for _, id := range s.ids {
		if p := s.storage[id]; strings.EqualFold(p.Name, name) {
			c := *p
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (s *ProjectStorage) GetAll(ctx context.Context) ([]*project.Project, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*project.Project, 0, len(s.ids))
	for _, id := range s.ids {
		c := *s.storage[id]
		res = append(res, &c)
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Order < res[j].Order
	})
	return res, nil
}

func (s *ProjectStorage) Delete(ctx context.Context, id uuid.UUID) error {
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
