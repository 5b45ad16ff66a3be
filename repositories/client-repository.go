package repositories

import (
	"gorm.io/gorm"

	"github.com/raulgonca/projectsync/models"
)

type ClientRepository interface {
	FindByID(id uint) (*models.Client, error)
	FindByName(name string) (*models.Client, error)
	FindByCIF(cif string) (*models.Client, error)
	FindAll() ([]models.Client, error)
	Create(client *models.Client) error
	Save(client *models.Client) error
	Delete(id uint) error
	// CreateBatch inserts all clients in one transaction; on failure
	// nothing is persisted.
	CreateBatch(clients []*models.Client) error
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) FindByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *GormClientRepository) FindByName(name string) (*models.Client, error) {
	var client models.Client
	if err := r.db.Where("name = ?", name).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *GormClientRepository) FindByCIF(cif string) (*models.Client, error) {
	var client models.Client
	if err := r.db.Where("cif = ?", cif).First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *GormClientRepository) FindAll() ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.Order("id").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

func (r *GormClientRepository) Save(client *models.Client) error {
	return r.db.Save(client).Error
}

func (r *GormClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}

func (r *GormClientRepository) CreateBatch(clients []*models.Client) error {
	if len(clients) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, client := range clients {
			if err := tx.Create(client).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
