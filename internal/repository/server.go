package repository

import (
	"revenda/internal/models"

	"gorm.io/gorm"
)

type ServerRepository struct {
	db *gorm.DB
}

func NewServerRepository(db *gorm.DB) *ServerRepository {
	return &ServerRepository{db: db}
}

func (r *ServerRepository) Create(server *models.Server) (*models.Server, error) {
	if err := r.db.Create(server).Error; err != nil {
		return nil, err
	}
	return server, nil
}

func (r *ServerRepository) GetAll() ([]models.Server, error) {
	var servers []models.Server
	if err := r.db.Order("name ASC").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

func (r *ServerRepository) GetByID(id uint) (*models.Server, error) {
	var server models.Server
	if err := r.db.First(&server, id).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

func (r *ServerRepository) Update(id uint, server *models.Server) (*models.Server, error) {
	server.ID = id
	if err := r.db.Save(server).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a server without cascading: customers and renewals keep
// their server_id and lookups degrade to zero-cost defaults.
func (r *ServerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Server{}, id).Error
}

func (r *ServerRepository) ReplaceAll(servers []models.Server) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Server{}).Error; err != nil {
			return err
		}
		if len(servers) == 0 {
			return nil
		}
		return tx.Create(&servers).Error
	})
}
