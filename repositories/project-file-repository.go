package repositories

import (
	"gorm.io/gorm"

	"github.com/raulgonca/projectsync/models"
)

type ProjectFileRepository interface {
	FindByID(id uint) (*models.ProjectFile, error)
	FindByProject(projectID uint) ([]models.ProjectFile, error)
	Create(file *models.ProjectFile) error
	Save(file *models.ProjectFile) error
	Delete(id uint) error
}

type GormProjectFileRepository struct {
	db *gorm.DB
}

func NewGormProjectFileRepository(db *gorm.DB) *GormProjectFileRepository {
	return &GormProjectFileRepository{db: db}
}

func (r *GormProjectFileRepository) FindByID(id uint) (*models.ProjectFile, error) {
	var file models.ProjectFile
	if err := r.db.Preload("User").First(&file, id).Error; err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (r *GormProjectFileRepository) FindByProject(projectID uint) ([]models.ProjectFile, error) {
	var files []models.ProjectFile
	err := r.db.Preload("User").Where("project_id = ?", projectID).Order("id").Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (r *GormProjectFileRepository) Create(file *models.ProjectFile) error {
	return r.db.Create(file).Error
}

func (r *GormProjectFileRepository) Save(file *models.ProjectFile) error {
	return r.db.Save(file).Error
}

func (r *GormProjectFileRepository) Delete(id uint) error {
	return r.db.Delete(&models.ProjectFile{}, id).Error
}
