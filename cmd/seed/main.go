package main

import (
	"context"
	"os"

	"github.com/example/campusreports/backend/internal/config"
	"github.com/example/campusreports/backend/internal/db"
	"github.com/example/campusreports/backend/internal/logger"
	"github.com/example/campusreports/backend/internal/models"
	"github.com/example/campusreports/backend/internal/repository"
	"github.com/example/campusreports/backend/internal/service"
)

func strPtr(s string) *string { return &s }

var defaultCategories = []models.Category{
	{Name: "Infrastructure", Description: strPtr("Problems with buildings, plumbing, electrical and furniture")},
	{Name: "Classes", Description: strPtr("Issues affecting lectures, classrooms and academic equipment")},
	{Name: "Events", Description: strPtr("Incidents during campus events and gatherings")},
	{Name: "Security", Description: strPtr("Safety concerns, suspicious activity and access control")},
	{Name: "Cleaning", Description: strPtr("Cleanliness of shared spaces, restrooms and grounds")},
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	database, err := db.New(cfg.DatabaseURL, db.Options{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     cfg.DBLogLevel,
	}, log)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(database); err != nil {
		log.Error("auto migrate", "error", err)
		os.Exit(1)
	}

	categories := service.NewCategoryService(repository.NewGormStore(database), service.WithLogger(log))
	created, err := categories.EnsureDefaults(context.Background(), defaultCategories)
	if err != nil {
		log.Error("seed categories", "error", err, "created", created)
		os.Exit(1)
	}
	log.Info("seed finished", "created", created, "skipped", len(defaultCategories)-created)
}
