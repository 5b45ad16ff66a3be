package services

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/models"
)

func newArchiveFixture(t *testing.T) (*ArchiveService, *FileService) {
	t.Helper()
	files := newFakeFileRepo()
	projects := newFakeProjectRepo()
	fileService := NewFileService(files, projects, t.TempDir())

	projects.Create(&models.Project{
		Name:          "Data pipeline (v2)",
		OwnerID:       1,
		Colaboradores: []models.User{{ID: 2, Username: "collab"}},
	})
	return NewArchiveService(fileService), fileService
}

func readZipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	reader, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer reader.Close()

	entries := map[string]string{}
	for _, entry := range reader.File {
		src, err := entry.Open()
		if err != nil {
			t.Fatalf("opening entry %s: %v", entry.Name, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			t.Fatalf("reading entry %s: %v", entry.Name, err)
		}
		entries[entry.Name] = string(data)
	}
	return entries
}

func TestBuildArchive(t *testing.T) {
	archive, fileService := newArchiveFixture(t)

	if _, err := fileService.Upload(1, 1, strings.NewReader("alpha"), "A.txt"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := fileService.Upload(1, 1, strings.NewReader("beta"), "B.pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	path, name, err := archive.BuildArchive(2, 1)
	if err != nil {
		t.Fatalf("BuildArchive as collaborator: %v", err)
	}
	defer os.Remove(path)

	if name != "Data_pipeline__v2__ficheros.zip" {
		t.Errorf("download name = %q, want sanitized project name", name)
	}

	entries := readZipEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(entries))
	}
	if entries["A.txt"] != "alpha" || entries["B.pdf"] != "beta" {
		t.Errorf("entries under original names mismatch: %v", entries)
	}
}

func TestBuildArchiveSkipsFilesMissingOnDisk(t *testing.T) {
	archive, fileService := newArchiveFixture(t)

	kept, err := fileService.Upload(1, 1, strings.NewReader("kept"), "kept.txt")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	lost, err := fileService.Upload(1, 1, strings.NewReader("lost"), "lost.txt")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	os.Remove(filepath.Join(fileService.BaseDir, "1", lost.FileName))

	path, _, err := archive.BuildArchive(1, 1)
	if err != nil {
		t.Fatalf("BuildArchive: %v", err)
	}
	defer os.Remove(path)

	entries := readZipEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("archive has %d entries, want 1", len(entries))
	}
	if entries[kept.OriginalName] != "kept" {
		t.Errorf("surviving entry mismatch: %v", entries)
	}
}

func TestBuildArchiveWithoutFiles(t *testing.T) {
	archive, _ := newArchiveFixture(t)

	path, _, err := archive.BuildArchive(1, 1)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("empty project should be not found, got %v", err)
	}
	if path != "" {
		t.Errorf("no temporary file should be handed out, got %q", path)
	}
}

func TestBuildArchiveAccess(t *testing.T) {
	archive, fileService := newArchiveFixture(t)
	if _, err := fileService.Upload(1, 1, strings.NewReader("x"), "a.txt"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, _, err := archive.BuildArchive(3, 1); !errors.Is(err, errs.ErrForbidden) {
		t.Errorf("stranger should be forbidden, got %v", err)
	}
	if _, _, err := archive.BuildArchive(1, 99); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("missing project should be not found, got %v", err)
	}
}
