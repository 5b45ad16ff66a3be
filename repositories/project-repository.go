package repositories

import (
	"gorm.io/gorm"

	"github.com/raulgonca/projectsync/models"
)

type ProjectRepository interface {
	// FindByID loads the project with its owner, client and collaborators.
	FindByID(id uint) (*models.Project, error)
	FindByOwner(ownerID uint) ([]models.Project, error)
	FindByCollaborator(userID uint) ([]models.Project, error)
	FindAll() ([]models.Project, error)
	Create(project *models.Project) error
	Save(project *models.Project) error
	Delete(id uint) error
	CountByOwner(ownerID uint) (int64, error)
	AddCollaborator(projectID uint, user *models.User) error
	RemoveCollaborator(projectID uint, user *models.User) error
	// RemoveCollaboratorFromAll drops the user from every collaborator
	// set; used when an account is deleted.
	RemoveCollaboratorFromAll(userID uint) error
}

type GormProjectRepository struct {
	db *gorm.DB
}

func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) withAssociations() *gorm.DB {
	return r.db.Preload("Owner").Preload("Client").Preload("Colaboradores")
}

func (r *GormProjectRepository) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.withAssociations().First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *GormProjectRepository) FindByOwner(ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := r.withAssociations().Where("owner_id = ?", ownerID).Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) FindByCollaborator(userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := r.withAssociations().
		Joins("JOIN repo_colaboradores rc ON rc.project_id = projects.id").
		Where("rc.user_id = ?", userID).
		Order("projects.id").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) FindAll() ([]models.Project, error) {
	var projects []models.Project
	if err := r.withAssociations().Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

func (r *GormProjectRepository) Save(project *models.Project) error {
	return r.db.Omit("Colaboradores", "Owner", "Client").Save(project).Error
}

func (r *GormProjectRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		project := models.Project{ID: id}
		if err := tx.Model(&project).Association("Colaboradores").Clear(); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

func (r *GormProjectRepository) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *GormProjectRepository) AddCollaborator(projectID uint, user *models.User) error {
	project := models.Project{ID: projectID}
	return r.db.Model(&project).Association("Colaboradores").Append(user)
}

func (r *GormProjectRepository) RemoveCollaborator(projectID uint, user *models.User) error {
	project := models.Project{ID: projectID}
	return r.db.Model(&project).Association("Colaboradores").Delete(user)
}

func (r *GormProjectRepository) RemoveCollaboratorFromAll(userID uint) error {
	return r.db.Exec("DELETE FROM repo_colaboradores WHERE user_id = ?", userID).Error
}
