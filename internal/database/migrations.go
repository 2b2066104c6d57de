package database

import (
	"log/slog"

	"revenda/internal/models"

	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Server{},
		&models.Plan{},
		&models.Customer{},
		&models.Renewal{},
		&models.ManualAddition{},
		&models.Setting{},
	)
	if err != nil {
		return err
	}

	migrations := []func(*gorm.DB) error{
		EnsureFreePlan,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// EnsureFreePlan synthesizes the "Gratuito" plan when it is missing from the
// active plan set. It runs on startup and again after a bulk plan restore.
func EnsureFreePlan(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Plan{}).Where("name = ?", models.FreePlanName).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	slog.Info("synthesizing free plan", "name", models.FreePlanName)
	return db.Create(&models.Plan{
		Name:         models.FreePlanName,
		Months:       1,
		DefaultPrice: 0,
	}).Error
}
