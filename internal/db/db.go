package db

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/campusreports/backend/internal/models"
)

// Options tunes the connection pool and gorm logging.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	LogLevel     string
}

// New creates a new GORM database connection using the provided DSN.
func New(dsn string, opts Options, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config(opts.LogLevel))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "access connection pool")
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)

	log.Info("connected to database", "max_open_conns", opts.MaxOpenConns)
	return db, nil
}

// Config returns the gorm settings shared by every dialect: UTC timestamps,
// translated driver errors and a leveled gorm logger.
func Config(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(logLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&models.Category{}, &models.Report{}, &models.Update{}), "auto migrate")
}

func parseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
