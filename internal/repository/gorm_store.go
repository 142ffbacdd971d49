package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormStore implements Store on top of gorm. The zero value is not usable.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a store using the provided gorm DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Categories() CategoryRepository {
	return &CategoryGormRepository{db: s.db}
}

func (s *GormStore) Reports() ReportRepository {
	return &ReportGormRepository{db: s.db}
}

func (s *GormStore) Updates() UpdateRepository {
	return &UpdateGormRepository{db: s.db}
}

// Transaction runs fn inside a database transaction. Calling it on a store that is
// already bound to a transaction nests through a savepoint.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func paginate(page Pagination) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page.Limit < 1 {
			return db
		}
		return db.Offset(page.Offset()).Limit(page.Limit)
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	default:
		return errors.WithStack(err)
	}
}
