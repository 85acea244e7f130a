package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/smartmeal/backend/internal/model"
)

// MemoryStore is a MealStore backed by maps. It is the default for the
// HTTP server, where meals only need to live as long as the process.
type MemoryStore struct {
	mu        sync.RWMutex
	meals     map[uuid.UUID]*model.Meal
	bySource  map[int64]uuid.UUID
	order     []uuid.UUID
	favorites []uuid.UUID
	now       func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		meals:    make(map[uuid.UUID]*model.Meal),
		bySource: make(map[int64]uuid.UUID),
		now:      time.Now,
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, meals []*model.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, m := range meals {
		if id, ok := s.bySource[m.SourceID]; ok {
			existing := s.meals[id]
			m.ID = existing.ID
			m.Rating = existing.Rating
			m.CreatedAt = existing.CreatedAt
			m.Seq = existing.Seq
			m.UpdatedAt = now
			s.meals[id] = m.Clone()
			continue
		}
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		m.CreatedAt = now
		m.UpdatedAt = now
		m.Seq = int64(len(s.order) + 1)
		s.meals[m.ID] = m.Clone()
		s.bySource[m.SourceID] = m.ID
		s.order = append(s.order, m.ID)
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*model.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*model.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Meal, 0, len(s.order))
	for _, id := range s.order {
		m := s.meals[id]
		if opts.RatedOnly && !m.Rated() {
			continue
		}
		out = append(out, m.Clone())
	}
	return out, nil
}

func (s *MemoryStore) SetRating(ctx context.Context, id uuid.UUID, stars int) (*model.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	r := stars
	m.Rating = &r
	m.UpdatedAt = s.now()
	return m.Clone(), nil
}

func (s *MemoryStore) AddFavorite(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[id]; !ok {
		return ErrNotFound
	}
	for _, f := range s.favorites {
		if f == id {
			return nil
		}
	}
	s.favorites = append(s.favorites, id)
	return nil
}

func (s *MemoryStore) RemoveFavorite(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[id]; !ok {
		return ErrNotFound
	}
	for i, f := range s.favorites {
		if f == id {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Favorites(ctx context.Context) ([]*model.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Meal, 0, len(s.favorites))
	for _, id := range s.favorites {
		out = append(out, s.meals[id].Clone())
	}
	return out, nil
}
