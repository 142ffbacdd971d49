package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/campusreports/backend/internal/models"
)

// ReportGormRepository provides persistence access for Report entities.
type ReportGormRepository struct {
	db *gorm.DB
}

// Create persists the report instance.
func (r *ReportGormRepository) Create(ctx context.Context, report *models.Report) error {
	return translate(r.db.WithContext(ctx).Omit("Category").Create(report).Error)
}

// FindByID returns the report by id with its category.
func (r *ReportGormRepository) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Category").First(&report, id).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// UpdateStatus swaps the status only while it still holds the expected prior value.
func (r *ReportGormRepository) UpdateStatus(ctx context.Context, id uint, from, to models.ReportStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": r.db.NowFunc()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStaleStatus
}

// List returns matching reports ordered by creation time descending.
func (r *ReportGormRepository) List(ctx context.Context, filter ReportFilter, page Pagination) ([]models.Report, int64, error) {
	where := func(db *gorm.DB) *gorm.DB {
		if filter.CategoryID != nil {
			db = db.Where("category_id = ?", *filter.CategoryID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			db = db.Where("priority = ?", *filter.Priority)
		}
		if filter.From != nil {
			db = db.Where("created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			db = db.Where("created_at <= ?", *filter.To)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var reports []models.Report
	err := r.db.WithContext(ctx).Scopes(where, paginate(page)).
		Preload("Category").
		Order("created_at desc, id desc").
		Find(&reports).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return reports, total, nil
}

// CountByCategory returns how many reports reference the category.
func (r *ReportGormRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, translate(err)
}
