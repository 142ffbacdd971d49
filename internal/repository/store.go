package repository

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/example/campusreports/backend/internal/models"
)

// Sentinel errors for persistence facts. Services translate them into domain errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("duplicate category name")
	// ErrStaleStatus means a compare-and-swap on a report status found a different prior value.
	ErrStaleStatus = errors.New("report status changed concurrently")
)

// Pagination selects a window of an ordered result. A zero Limit means no limit.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing, so an out-of-range page selects nothing.
func (p Pagination) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	IsActive *bool
}

// ReportFilter narrows report listings. Nil fields do not filter; date bounds are inclusive.
type ReportFilter struct {
	CategoryID *uint
	Status     *models.ReportStatus
	Priority   *models.Priority
	From       *time.Time
	To         *time.Time
}

// Matches reports whether r satisfies every set criterion.
func (f ReportFilter) Matches(r models.Report) bool {
	if f.CategoryID != nil && r.CategoryID != *f.CategoryID {
		return false
	}
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.Priority != nil && r.Priority != *f.Priority {
		return false
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	// Create inserts c and fills its id. Returns ErrDuplicateName on a name collision.
	Create(ctx context.Context, c *models.Category) error
	// Update saves every field of c. Returns ErrNotFound or ErrDuplicateName.
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	// FindByName matches name exactly.
	FindByName(ctx context.Context, name string) (*models.Category, error)
	// List orders by name ascending and returns the total ignoring pagination.
	List(ctx context.Context, filter CategoryFilter, page Pagination) ([]models.Category, int64, error)
}

// ReportRepository persists reports. Reports are never deleted.
type ReportRepository interface {
	Create(ctx context.Context, r *models.Report) error
	// FindByID returns the report with its Category populated.
	FindByID(ctx context.Context, id uint) (*models.Report, error)
	// UpdateStatus moves report id from status from to status to.
	// Returns ErrNotFound for an unknown id and ErrStaleStatus if the stored status is not from.
	UpdateStatus(ctx context.Context, id uint, from, to models.ReportStatus) error
	// List orders newest first, populates Category and returns the total ignoring pagination.
	List(ctx context.Context, filter ReportFilter, page Pagination) ([]models.Report, int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// UpdateRepository is the append-only ledger. There is no update or delete.
type UpdateRepository interface {
	// Append inserts u and fills its id and creation time.
	Append(ctx context.Context, u *models.Update) error
	// ListByReport orders newest first and returns the total ignoring pagination.
	ListByReport(ctx context.Context, reportID uint, page Pagination) ([]models.Update, int64, error)
}

// Store groups the repositories and runs units of work.
type Store interface {
	Categories() CategoryRepository
	Reports() ReportRepository
	Updates() UpdateRepository

	// Transaction runs fn against a Store bound to one transaction. If fn returns
	// an error nothing it wrote is kept; otherwise every write commits together.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
