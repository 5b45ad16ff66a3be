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

// FileService manages the per-project uploaded file records and their
// bytes under BaseDir/{projectId}/{storageName}.
type FileService struct {
	Files    repositories.ProjectFileRepository
	Projects repositories.ProjectRepository
	BaseDir  string
}

func NewFileService(files repositories.ProjectFileRepository, projects repositories.ProjectRepository, baseDir string) *FileService {
	return &FileService{Files: files, Projects: projects, BaseDir: baseDir}
}

// Upload stores the bytes under a fresh collision-free storage name and
// persists the record. Owner only.
func (s *FileService) Upload(callerID, projectID uint, src io.Reader, originalName string) (*models.ProjectFile, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return nil, errs.Forbidden("you do not have permission to upload files to this project")
	}
	if src == nil || originalName == "" {
		return nil, errs.Validation("no file was sent")
	}

	originalName = filepath.Base(originalName)
	storageName := uuid.New().String() + "-" + originalName

	dir := s.projectDir(projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	dst, err := os.Create(filepath.Join(dir, storageName))
	if err != nil {
		return nil, err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	file := &models.ProjectFile{
		ProjectID:    project.ID,
		UserID:       callerID,
		FileName:     storageName,
		OriginalName: originalName,
		FechaSubida:  time.Now(),
	}
	if err := s.Files.Create(file); err != nil {
		// The record failed, drop the orphaned bytes.
		os.Remove(filepath.Join(dir, storageName))
		return nil, err
	}

	logging.Logger.Infof("Event ID: FILE_UPLOADED, Description: File %d (%s) added to project %d by user %d", file.ID, originalName, projectID, callerID)
	return file, nil
}

// List returns the project's file records for a caller with read access.
func (s *FileService) List(callerID, projectID uint) ([]models.ProjectFile, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !ResolveAccess(callerID, project).CanRead() {
		return nil, errs.Forbidden("you do not have permission to view the files of this project")
	}
	return s.Files.FindByProject(project.ID)
}

// Download resolves the on-disk path and the original name for the save
// dialog. Missing bytes on disk are a not-found, same as a missing record.
func (s *FileService) Download(callerID, projectID, fileID uint) (string, string, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return "", "", err
	}
	if !ResolveAccess(callerID, project).CanRead() {
		return "", "", errs.Forbidden("you do not have permission to download files from this project")
	}

	file, err := s.findFile(projectID, fileID)
	if err != nil {
		return "", "", err
	}
	path := filepath.Join(s.projectDir(projectID), file.FileName)
	if _, err := os.Stat(path); err != nil {
		return "", "", errs.NotFound("file not found")
	}
	return path, file.OriginalName, nil
}

// Rename updates only the human name; storage name and bytes are
// untouched. Owner only.
func (s *FileService) Rename(callerID, projectID, fileID uint, newName string) (*models.ProjectFile, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return nil, errs.Forbidden("you do not have permission to rename files in this project")
	}
	if strings.TrimSpace(newName) == "" {
		return nil, errs.Validation("invalid name")
	}

	file, err := s.findFile(projectID, fileID)
	if err != nil {
		return nil, err
	}
	file.OriginalName = newName
	if err := s.Files.Save(file); err != nil {
		return nil, err
	}
	return file, nil
}

// Delete removes the bytes best-effort and then the record; a file already
// missing on disk never blocks the record deletion.
func (s *FileService) Delete(callerID, projectID, fileID uint) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if !ResolveAccess(callerID, project).CanManage() {
		return errs.Forbidden("you do not have permission to delete files from this project")
	}

	file, err := s.findFile(projectID, fileID)
	if err != nil {
		return err
	}
	path := filepath.Join(s.projectDir(projectID), file.FileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Logger.Warnf("Event ID: FILE_DISK_REMOVE_FAILED, Description: Could not remove %s: %v", path, err)
	}
	if err := s.Files.Delete(file.ID); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: FILE_DELETED, Description: File %d removed from project %d by user %d", fileID, projectID, callerID)
	return nil
}

func (s *FileService) projectDir(projectID uint) string {
	return filepath.Join(s.BaseDir, fmt.Sprintf("%d", projectID))
}

func (s *FileService) findProject(id uint) (*models.Project, error) {
	project, err := s.Projects.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errs.NotFound("project not found")
		}
		return nil, err
	}
	return project, nil
}

// findFile loads the record and rejects files that belong to a different
// project.
func (s *FileService) findFile(projectID, fileID uint) (*models.ProjectFile, error) {
	file, err := s.Files.FindByID(fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errs.NotFound("file not found")
		}
		return nil, err
	}
	if file.ProjectID != projectID {
		return nil, errs.NotFound("file not found")
	}
	return file, nil
}
