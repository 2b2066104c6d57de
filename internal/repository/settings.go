package repository

import (
	"revenda/internal/models"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(key string) (string, error) {
	var setting models.Setting
	if err := r.db.First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (r *SettingsRepository) Set(key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	return r.db.Save(&setting).Error
}

func (r *SettingsRepository) Delete(key string) error {
	return r.db.Delete(&models.Setting{}, "key = ?", key).Error
}

func (r *SettingsRepository) GetAll() ([]models.Setting, error) {
	var settings []models.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
