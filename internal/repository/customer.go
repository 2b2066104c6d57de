package repository

import (
	"revenda/internal/models"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(customer *models.Customer) (*models.Customer, error) {
	if err := r.db.Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *CustomerRepository) GetAll() ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.Order("name ASC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// Update persists the full record. Save writes zero-valued fields too, so
// clearing a reference or amount sticks.
func (r *CustomerRepository) Update(id uint, customer *models.Customer) (*models.Customer, error) {
	customer.ID = id
	if err := r.db.Save(customer).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// UpdateFields applies a partial update by column name. Used for single-field
// mutations such as marking a customer notified.
func (r *CustomerRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CustomerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}

func (r *CustomerRepository) Count() int64 {
	var count int64
	r.db.Model(&models.Customer{}).Count(&count)
	return count
}

// ReplaceAll swaps the whole collection, used by backup restore.
func (r *CustomerRepository) ReplaceAll(customers []models.Customer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Customer{}).Error; err != nil {
			return err
		}
		if len(customers) == 0 {
			return nil
		}
		return tx.Create(&customers).Error
	})
}
