package repository

import (
	"revenda/internal/models"

	"gorm.io/gorm"
)

// RenewalRepository is append-only: renewals are the immutable
// ledger behind all revenue reporting, so there is no Update or Delete beyond
// the bulk ReplaceAll used by backup restore.
type RenewalRepository struct {
	db *gorm.DB
}

func NewRenewalRepository(db *gorm.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

func (r *RenewalRepository) Append(renewal *models.Renewal) (*models.Renewal, error) {
	if err := r.db.Create(renewal).Error; err != nil {
		return nil, err
	}
	return renewal, nil
}

func (r *RenewalRepository) GetAll() ([]models.Renewal, error) {
	var renewals []models.Renewal
	if err := r.db.Order("date ASC").Find(&renewals).Error; err != nil {
		return nil, err
	}
	return renewals, nil
}

func (r *RenewalRepository) GetByCustomer(customerID uint) ([]models.Renewal, error) {
	var renewals []models.Renewal
	if err := r.db.Where("customer_id = ?", customerID).Order("date ASC").Find(&renewals).Error; err != nil {
		return nil, err
	}
	return renewals, nil
}

func (r *RenewalRepository) ReplaceAll(renewals []models.Renewal) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Renewal{}).Error; err != nil {
			return err
		}
		if len(renewals) == 0 {
			return nil
		}
		return tx.Create(&renewals).Error
	})
}
