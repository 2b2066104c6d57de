package repository

import (
	"revenda/internal/models"

	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *models.Plan) (*models.Plan, error) {
	if err := r.db.Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *PlanRepository) GetAll() ([]models.Plan, error) {
	var plans []models.Plan
	if err := r.db.Order("months ASC, name ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByName(name string) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.Where("name = ?", name).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Update(id uint, plan *models.Plan) (*models.Plan, error) {
	plan.ID = id
	if err := r.db.Save(plan).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

func (r *PlanRepository) Delete(id uint) error {
	return r.db.Delete(&models.Plan{}, id).Error
}

// ReplaceAll swaps the whole plan set; the caller re-synthesizes the free
// plan afterwards if the restored set lacks it.
func (r *PlanRepository) ReplaceAll(plans []models.Plan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Plan{}).Error; err != nil {
			return err
		}
		if len(plans) == 0 {
			return nil
		}
		return tx.Create(&plans).Error
	})
}
