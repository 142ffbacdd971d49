// Package memory provides an in-memory repository.Store for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/repository"
)

type state struct {
	categories map[uint]models.Category
	reports    map[uint]models.Report
	updates    []models.Update

	nextCategoryID uint
	nextReportID   uint
	nextUpdateID   uint
}

func (s *state) clone() *state {
	out := &state{
		categories:     make(map[uint]models.Category, len(s.categories)),
		reports:        make(map[uint]models.Report, len(s.reports)),
		updates:        make([]models.Update, len(s.updates)),
		nextCategoryID: s.nextCategoryID,
		nextReportID:   s.nextReportID,
		nextUpdateID:   s.nextUpdateID,
	}
	for id, c := range s.categories {
		out.categories[id] = c
	}
	for id, r := range s.reports {
		out.reports[id] = r
	}
	copy(out.updates, s.updates)
	return out
}

// Store keeps every record in maps guarded by one mutex. A unit of work holds
// the mutex for its whole duration and works on a copy that replaces the
// committed state only when the unit succeeds.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		mu: &sync.Mutex{},
		data: &state{
			categories:     make(map[uint]models.Category),
			reports:        make(map[uint]models.Report),
			nextCategoryID: 1,
			nextReportID:   1,
			nextUpdateID:   1,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Categories() repository.CategoryRepository { return categories{s} }
func (s *Store) Reports() repository.ReportRepository       { return reports{s} }
func (s *Store) Updates() repository.UpdateRepository       { return updates{s} }

// Transaction runs fn on a private copy of the state. Nested calls reuse the
// enclosing unit of work.
func (s *Store) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// view runs fn with the state locked unless the store is already inside a unit of work.
func (s *Store) view(fn func(*state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

type categories struct{ s *Store }

func (r categories) Create(_ context.Context, c *models.Category) error {
	return r.s.view(func(st *state) error {
		for _, existing := range st.categories {
			if existing.Name == c.Name {
				return repository.ErrDuplicateName
			}
		}
		now := r.s.now()
		c.ID = st.nextCategoryID
		st.nextCategoryID++
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		st.categories[c.ID] = *c
		return nil
	})
}

func (r categories) Update(_ context.Context, c *models.Category) error {
	return r.s.view(func(st *state) error {
		stored, ok := st.categories[c.ID]
		if !ok {
			return repository.ErrNotFound
		}
		for id, existing := range st.categories {
			if id != c.ID && existing.Name == c.Name {
				return repository.ErrDuplicateName
			}
		}
		stored.Name = c.Name
		stored.Description = c.Description
		stored.IsActive = c.IsActive
		stored.UpdatedAt = r.s.now()
		st.categories[c.ID] = stored
		c.UpdatedAt = stored.UpdatedAt
		return nil
	})
}

func (r categories) Delete(_ context.Context, id uint) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return repository.ErrNotFound
		}
		delete(st.categories, id)
		return nil
	})
}

func (r categories) FindByID(_ context.Context, id uint) (*models.Category, error) {
	var out *models.Category
	err := r.s.view(func(st *state) error {
		c, ok := st.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r categories) FindByName(_ context.Context, name string) (*models.Category, error) {
	var out *models.Category
	err := r.s.view(func(st *state) error {
		for _, c := range st.categories {
			if c.Name == name {
				c := c
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r categories) List(_ context.Context, filter repository.CategoryFilter, page repository.Pagination) ([]models.Category, int64, error) {
	var matched []models.Category
	_ = r.s.view(func(st *state) error {
		for _, c := range st.categories {
			if filter.IsActive != nil && c.IsActive != *filter.IsActive {
				continue
			}
			matched = append(matched, c)
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return window(matched, page), int64(len(matched)), nil
}

type reports struct{ s *Store }

func (r reports) Create(_ context.Context, rep *models.Report) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.categories[rep.CategoryID]; !ok {
			return repository.ErrNotFound
		}
		now := r.s.now()
		rep.ID = st.nextReportID
		st.nextReportID++
		if rep.CreatedAt.IsZero() {
			rep.CreatedAt = now
		}
		rep.UpdatedAt = now
		stored := *rep
		stored.Category = nil
		st.reports[rep.ID] = stored
		return nil
	})
}

func (r reports) FindByID(_ context.Context, id uint) (*models.Report, error) {
	var out *models.Report
	err := r.s.view(func(st *state) error {
		rep, ok := st.reports[id]
		if !ok {
			return repository.ErrNotFound
		}
		withCategory(st, &rep)
		out = &rep
		return nil
	})
	return out, err
}

func (r reports) UpdateStatus(_ context.Context, id uint, from, to models.ReportStatus) error {
	return r.s.view(func(st *state) error {
		rep, ok := st.reports[id]
		if !ok {
			return repository.ErrNotFound
		}
		if rep.Status != from {
			return repository.ErrStaleStatus
		}
		rep.Status = to
		rep.UpdatedAt = r.s.now()
		st.reports[id] = rep
		return nil
	})
}

func (r reports) List(_ context.Context, filter repository.ReportFilter, page repository.Pagination) ([]models.Report, int64, error) {
	var matched []models.Report
	_ = r.s.view(func(st *state) error {
		for _, rep := range st.reports {
			if !filter.Matches(rep) {
				continue
			}
			withCategory(st, &rep)
			matched = append(matched, rep)
		}
		return nil
	})
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return window(matched, page), int64(len(matched)), nil
}

func (r reports) CountByCategory(_ context.Context, categoryID uint) (int64, error) {
	var count int64
	_ = r.s.view(func(st *state) error {
		for _, rep := range st.reports {
			if rep.CategoryID == categoryID {
				count++
			}
		}
		return nil
	})
	return count, nil
}

func withCategory(st *state, rep *models.Report) {
	if c, ok := st.categories[rep.CategoryID]; ok {
		rep.Category = &c
	}
}

type updates struct{ s *Store }

func (r updates) Append(_ context.Context, u *models.Update) error {
	return r.s.view(func(st *state) error {
		if _, ok := st.reports[u.ReportID]; !ok {
			return repository.ErrNotFound
		}
		u.ID = st.nextUpdateID
		st.nextUpdateID++
		u.CreatedAt = r.s.now()
		stored := *u
		stored.Report = nil
		st.updates = append(st.updates, stored)
		return nil
	})
}

func (r updates) ListByReport(_ context.Context, reportID uint, page repository.Pagination) ([]models.Update, int64, error) {
	var matched []models.Update
	_ = r.s.view(func(st *state) error {
		// st.updates is in append order, so walking backwards yields newest first.
		for i := len(st.updates) - 1; i >= 0; i-- {
			if st.updates[i].ReportID == reportID {
				matched = append(matched, st.updates[i])
			}
		}
		return nil
	})
	return window(matched, page), int64(len(matched)), nil
}

func window[T any](items []T, page repository.Pagination) []T {
	if page.Limit < 1 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit < end-start {
		end = start + page.Limit
	}
	return items[start:end]
}
