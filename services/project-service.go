package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/repositories"
)

type ProjectService struct {
	Projects repositories.ProjectRepository
	Users    repositories.UserRepository
	Clients  repositories.ClientRepository
	// BaseDir is the root of the on-disk file area. Legacy single project
	// files live directly under it; per-project uploads under {projectId}/.
	BaseDir string
}

func NewProjectService(projects repositories.ProjectRepository, users repositories.UserRepository, clients repositories.ClientRepository, baseDir string) *ProjectService {
	return &ProjectService{Projects: projects, Users: users, Clients: clients, BaseDir: baseDir}
}

type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	ClientID    *uint
	OwnerID     *uint
	// Optional legacy attachment sent with the creation form.
	File         io.Reader
	FileOriginal string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	// EndDateSet distinguishes "clear the end date" from "leave it".
	EndDateSet   bool
	ClientID     *uint
	ClientSet    bool
	File         io.Reader
	FileOriginal string
}

func (s *ProjectService) CreateProject(callerID uint, in CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(in.Name) == "" || in.StartDate.IsZero() {
		return nil, errs.Validation("missing required fields (projectname, fechaInicio)")
	}

	project := &models.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}

	if in.ClientID != nil {
		client, err := s.Clients.FindByID(*in.ClientID)
		if err != nil {
			if errors.Is(err, repositories.ErrRecordNotFound) {
				return nil, errs.Validation("client not found")
			}
			return nil, err
		}
		project.ClientID = &client.ID
	}

	ownerID := callerID
	if in.OwnerID != nil {
		ownerID = *in.OwnerID
	}
	owner, err := s.Users.FindByID(ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errs.Validation("owner user not found")
		}
		return nil, err
	}
	project.OwnerID = owner.ID

	if in.File != nil {
		name, err := s.storeLegacyFile(in.File, in.FileOriginal)
		if err != nil {
			return nil, err
		}
		project.FileName = name
	}

	if err := s.Projects.Create(project); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %d (%s) owned by user %d", project.ID, project.Name, owner.ID)
	return project, nil
}

// GetProject returns the full project detail for a caller with read
// access.
func (s *ProjectService) GetProject(callerID, id uint) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}
	if !ResolveAccess(callerID, project).CanRead() {
		return nil, errs.Forbidden("you do not have permission to view this project")
	}
	return project, nil
}

func (s *ProjectService) ListOwned(callerID uint) ([]models.Project, error) {
	return s.Projects.FindByOwner(callerID)
}

func (s *ProjectService) ListCollaborations(callerID uint) ([]models.Project, error) {
	return s.Projects.FindByCollaborator(callerID)
}

func (s *ProjectService) ListAll() ([]models.Project, error) {
	return s.Projects.FindAll()
}

func (s *ProjectService) UpdateProject(callerID, id uint, in UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return nil, errs.Forbidden("you do not have permission to modify this project")
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, errs.Validation("project name cannot be empty")
		}
		project.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.StartDate != nil {
		project.StartDate = *in.StartDate
	}
	if in.EndDateSet {
		project.EndDate = in.EndDate
	}
	if in.ClientSet {
		if in.ClientID == nil {
			project.ClientID = nil
			project.Client = nil
		} else {
			client, err := s.Clients.FindByID(*in.ClientID)
			if err != nil {
				if errors.Is(err, repositories.ErrRecordNotFound) {
					return nil, errs.Validation("client not found")
				}
				return nil, err
			}
			project.ClientID = &client.ID
			project.Client = client
		}
	}
	if in.File != nil {
		name, err := s.storeLegacyFile(in.File, in.FileOriginal)
		if err != nil {
			return nil, err
		}
		project.FileName = name
	}

	if err := s.Projects.Save(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project, its file records and its on-disk
// directory. Only the owner may delete.
func (s *ProjectService) DeleteProject(callerID, id uint) error {
	project, err := s.findProject(id)
	if err != nil {
		return err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return errs.Forbidden("you do not have permission to delete this project")
	}
	if err := s.Projects.Delete(project.ID); err != nil {
		return err
	}
	// Best effort: a record-less directory is preferable to a dangling record.
	if err := os.RemoveAll(filepath.Join(s.BaseDir, fmt.Sprintf("%d", project.ID))); err != nil {
		logging.Logger.Warnf("Event ID: PROJECT_DIR_REMOVE_FAILED, Description: Could not remove file dir of project %d: %v", project.ID, err)
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %d removed by user %d", id, callerID)
	return nil
}

// AddCollaborator grants a user read access to the project. The owner can
// never be added to its own collaborator set.
func (s *ProjectService) AddCollaborator(callerID, projectID, userID uint) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return errs.Forbidden("you do not have permission to add collaborators to this project")
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return errs.NotFound("collaborator user not found")
		}
		return err
	}
	if user.ID == project.OwnerID {
		return errs.Validation("the owner cannot be added as a collaborator")
	}
	if project.IsCollaborator(user.ID) {
		return errs.Conflict("the user is already a collaborator of this project")
	}
	return s.Projects.AddCollaborator(project.ID, user)
}

func (s *ProjectService) RemoveCollaborator(callerID, projectID, userID uint) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return errs.Forbidden("you do not have permission to remove collaborators from this project")
	}

	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return errs.NotFound("collaborator user not found")
		}
		return err
	}
	if !project.IsCollaborator(user.ID) {
		return errs.Validation("the user is not a collaborator of this project")
	}
	return s.Projects.RemoveCollaborator(project.ID, user)
}

func (s *ProjectService) ListCollaborators(callerID, projectID uint) ([]models.User, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !ResolveAccess(callerID, project).CanRead() {
		return nil, errs.Forbidden("you do not have permission to view the collaborators of this project")
	}
	return project.Colaboradores, nil
}

// LegacyFilePath resolves the project's single legacy attachment on disk.
func (s *ProjectService) LegacyFilePath(id uint) (string, string, error) {
	project, err := s.findProject(id)
	if err != nil {
		return "", "", err
	}
	if project.FileName == "" {
		return "", "", errs.NotFound("file not found")
	}
	path := filepath.Join(s.BaseDir, project.FileName)
	if _, err := os.Stat(path); err != nil {
		return "", "", errs.NotFound("file not found")
	}
	return path, project.FileName, nil
}

func (s *ProjectService) findProject(id uint) (*models.Project, error) {
	project, err := s.Projects.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) storeLegacyFile(src io.Reader, originalName string) (string, error) {
	if originalName == "" {
		return "", errs.Validation("file name is missing")
	}
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return "", err
	}
	safeName := uuid.New().String() + "-" + filepath.Base(originalName)
	dst, err := os.Create(filepath.Join(s.BaseDir, safeName))
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return safeName, nil
}
