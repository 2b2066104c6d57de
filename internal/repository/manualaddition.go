package repository

import (
	"revenda/internal/models"

	"gorm.io/gorm"
)

type ManualAdditionRepository struct {
	db *gorm.DB
}

func NewManualAdditionRepository(db *gorm.DB) *ManualAdditionRepository {
	return &ManualAdditionRepository{db: db}
}

func (r *ManualAdditionRepository) Append(addition *models.ManualAddition) (*models.ManualAddition, error) {
	if err := r.db.Create(addition).Error; err != nil {
		return nil, err
	}
	return addition, nil
}

func (r *ManualAdditionRepository) GetAll() ([]models.ManualAddition, error) {
	var additions []models.ManualAddition
	if err := r.db.Order("date DESC").Find(&additions).Error; err != nil {
		return nil, err
	}
	return additions, nil
}

func (r *ManualAdditionRepository) ReplaceAll(additions []models.ManualAddition) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.ManualAddition{}).Error; err != nil {
			return err
		}
		if len(additions) == 0 {
			return nil
		}
		return tx.Create(&additions).Error
	})
}
