package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/campusreports/backend/internal/models"
)

// CategoryGormRepository provides persistence access for Category entities.
type CategoryGormRepository struct {
	db *gorm.DB
}

// Create persists the category.
func (r *CategoryGormRepository) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

// Update writes name, description and active flag of an existing category.
func (r *CategoryGormRepository) Update(ctx context.Context, c *models.Category) error {
	now := r.db.NowFunc()
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"is_active":   c.IsActive,
		"updated_at":  now,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	c.UpdatedAt = now
	return nil
}

// Delete removes the category permanently.
func (r *CategoryGormRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID returns the category by id.
func (r *CategoryGormRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// FindByName returns the category whose name equals name exactly.
func (r *CategoryGormRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// List returns categories ordered by name.
func (r *CategoryGormRepository) List(ctx context.Context, filter CategoryFilter, page Pagination) ([]models.Category, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if filter.IsActive != nil {
			db = db.Where("is_active = ?", *filter.IsActive)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var categories []models.Category
	err := r.db.WithContext(ctx).Scopes(where, paginate(page)).Order("name asc").Find(&categories).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return categories, total, nil
}
