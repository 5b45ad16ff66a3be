package services

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/logging"
)

var archiveNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// ArchiveService bundles every file of a project into one ZIP for
// download.
type ArchiveService struct {
	Files *FileService
}

func NewArchiveService(files *FileService) *ArchiveService {
	return &ArchiveService{Files: files}
}

// BuildArchive assembles a temporary ZIP with all of the project's files
// under their original names and returns its path plus the download name
// ({sanitized-project-name}_ficheros.zip). The caller must remove the
// returned path once the response is written. No temporary file is created
// when the project has no files.
func (s *ArchiveService) BuildArchive(callerID, projectID uint) (string, string, error) {
	project, err := s.Files.findProject(projectID)
	if err != nil {
		return "", "", err
	}
	if !ResolveAccess(callerID, project).CanRead() {
		return "", "", errs.Forbidden("you do not have permission to download this project")
	}

	files, err := s.Files.Files.FindByProject(project.ID)
	if err != nil {
		return "", "", err
	}
	if len(files) == 0 {
		return "", "", errs.NotFound("no files for this project")
	}

	tmp, err := os.CreateTemp("", "project_files_*.zip")
	if err != nil {
		return "", "", errs.Configuration("could not create ZIP archive: %v", err)
	}

	writer := zip.NewWriter(tmp)
	for _, file := range files {
		path := filepath.Join(s.Files.projectDir(project.ID), file.FileName)
		src, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				// Records whose bytes vanished are skipped, matching the
				// per-file existence guard of the export.
				continue
			}
			return s.abort(tmp, err)
		}
		// Entries keep the human name; the format tolerates duplicates.
		entry, err := writer.Create(file.OriginalName)
		if err != nil {
			src.Close()
			return s.abort(tmp, err)
		}
		if _, err := io.Copy(entry, src); err != nil {
			src.Close()
			return s.abort(tmp, err)
		}
		src.Close()
	}
	if err := writer.Close(); err != nil {
		return s.abort(tmp, err)
	}
	if err := tmp.Close(); err != nil {
		return s.abort(tmp, err)
	}

	downloadName := archiveNameSanitizer.ReplaceAllString(project.Name, "_") + "_ficheros.zip"
	logging.Logger.Infof("Event ID: ZIP_EXPORTED, Description: Project %d archived as %s for user %d", projectID, downloadName, callerID)
	return tmp.Name(), downloadName, nil
}

// abort discards the partial archive; a broken ZIP is never delivered.
func (s *ArchiveService) abort(tmp *os.File, err error) (string, string, error) {
	tmp.Close()
	os.Remove(tmp.Name())
	return "", "", err
}
