package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/example/campusreports/backend/internal/apperr"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/mq"
	"github.com/example/campusreports/backend/internal/repository"
)

// recentReportsLimit caps the report summary attached to a category.
const recentReportsLimit = 5

// CategoryService manages categories and decides which ones accept reports.
type CategoryService struct {
	store repository.Store
	deps
}

// NewCategoryService builds a service with dependencies.
func NewCategoryService(store repository.Store, opts ...Option) *CategoryService {
	return &CategoryService{store: store, deps: newDeps(opts)}
}

// Create adds an active category. Names are unique, compared exactly.
func (s *CategoryService) Create(ctx context.Context, name string, description *string) (*models.Category, error) {
	category := &models.Category{Name: name, Description: description, IsActive: true}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := ensureNameAvailable(ctx, tx.Categories(), name); err != nil {
			return err
		}
		if err := tx.Categories().Create(ctx, category); err != nil {
			return categoryWriteError(err, "failed to create category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", category.ID)
	s.publishEvent(ctx, mq.Event{Event: mq.EventCategoryCreated, CategoryID: category.ID})
	return category, nil
}

// List returns categories ordered by name and the total ignoring pagination.
func (s *CategoryService) List(ctx context.Context, filter repository.CategoryFilter, page repository.Pagination) ([]models.Category, int64, error) {
	categories, total, err := s.store.Categories().List(ctx, filter, page)
	if err != nil {
		return nil, 0, apperr.Internal(err, "failed to list categories")
	}
	return categories, total, nil
}

// Get returns a category with its most recently created reports.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.CategoryDetail, error) {
	var detail *models.CategoryDetail
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		category, err := findCategory(ctx, tx.Categories(), id)
		if err != nil {
			return err
		}
		recent, _, err := tx.Reports().List(ctx, repository.ReportFilter{CategoryID: &id}, repository.Pagination{Page: 1, Limit: recentReportsLimit})
		if err != nil {
			return apperr.Internal(err, "failed to load category reports")
		}
		detail = &models.CategoryDetail{Category: *category, RecentReports: recent}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Update applies patch. A new name is checked against every other category.
func (s *CategoryService) Update(ctx context.Context, id uint, patch models.CategoryPatch) (*models.Category, error) {
	var category *models.Category
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		category, err = findCategory(ctx, tx.Categories(), id)
		if err != nil {
			return err
		}
		if patch.Name != nil && *patch.Name != category.Name {
			if err := ensureNameAvailable(ctx, tx.Categories(), *patch.Name); err != nil {
				return err
			}
		}
		patch.Apply(category)
		if err := tx.Categories().Update(ctx, category); err != nil {
			return categoryWriteError(err, "failed to update category")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "category_id", id)
	s.publishEvent(ctx, mq.Event{Event: mq.EventCategoryUpdated, CategoryID: id})
	return category, nil
}

// Delete removes a category that no report references.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := findCategory(ctx, tx.Categories(), id); err != nil {
			return err
		}
		count, err := tx.Reports().CountByCategory(ctx, id)
		if err != nil {
			return apperr.Internal(err, "failed to count category reports")
		}
		if count > 0 {
			return apperr.Conflict("cannot delete a category with associated reports")
		}
		if err := tx.Categories().Delete(ctx, id); err != nil {
			return categoryWriteError(err, "failed to delete category")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("category deleted", "category_id", id)
	s.publishEvent(ctx, mq.Event{Event: mq.EventCategoryDeleted, CategoryID: id})
	return nil
}

// EnsureDefaults creates every category in defaults whose name is not taken yet
// and returns how many were created.
func (s *CategoryService) EnsureDefaults(ctx context.Context, defaults []models.Category) (int, error) {
	created := 0
	for _, c := range defaults {
		_, err := s.Create(ctx, c.Name, c.Description)
		switch {
		case err == nil:
			created++
		case apperr.Is(err, apperr.KindConflict):
			s.logger.Debug("category already present", "name", c.Name)
		default:
			return created, err
		}
	}
	return created, nil
}

// requireActiveCategory is the gate every new report passes through.
func requireActiveCategory(ctx context.Context, categories repository.CategoryRepository, id uint) (*models.Category, error) {
	category, err := categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Validation("invalid or inactive category")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load category")
	}
	if !category.IsActive {
		return nil, apperr.Validation("invalid or inactive category")
	}
	return category, nil
}

func findCategory(ctx context.Context, categories repository.CategoryRepository, id uint) (*models.Category, error) {
	category, err := categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load category")
	}
	return category, nil
}

func ensureNameAvailable(ctx context.Context, categories repository.CategoryRepository, name string) error {
	_, err := categories.FindByName(ctx, name)
	switch {
	case err == nil:
		return apperr.Conflict("a category with this name already exists")
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return apperr.Internal(err, "failed to check category name")
	}
}

func categoryWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateName):
		return apperr.Conflict("a category with this name already exists")
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("category not found")
	default:
		return apperr.Internal(err, message)
	}
}
