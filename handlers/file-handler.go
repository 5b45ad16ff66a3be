package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/services"
)

type FileHandler struct {
	Service *services.FileService
	Archive *services.ArchiveService
}

func NewFileHandler(service *services.FileService, archive *services.ArchiveService) *FileHandler {
	return &FileHandler{Service: service, Archive: archive}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	projectID, err := parseID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, errs.Validation("invalid form data"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errs.Validation("no file was sent"))
		return
	}
	defer file.Close()

	record, err := h.Service.Upload(claims.UserID, projectID, file, header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "file uploaded successfully",
		"id":      record.ID,
	})
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	projectID, err := parseID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	files, err := h.Service.List(claims.UserID, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(files))
	for _, file := range files {
		data = append(data, map[string]any{
			"id":           file.ID,
			"originalName": file.OriginalName,
			"fileName":     file.FileName,
			"fechaSubida":  file.FechaSubida.Format("2006-01-02 15:04"),
			"user": map[string]any{
				"id":       file.User.ID,
				"username": file.User.Username,
			},
		})
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	projectID, err := parseID(vars["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}
	fileID, err := parseID(vars["fileId"])
	if err != nil {
		writeError(w, err)
		return
	}

	path, originalName, err := h.Service.Download(claims.UserID, projectID, fileID)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", originalName))
	http.ServeFile(w, r, path)
}

func (h *FileHandler) Rename(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	projectID, err := parseID(vars["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}
	fileID, err := parseID(vars["fileId"])
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		OriginalName string `json:"originalName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.Service.Rename(claims.UserID, projectID, fileID, req.OriginalName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "file name updated successfully"})
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	projectID, err := parseID(vars["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}
	fileID, err := parseID(vars["fileId"])
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Service.Delete(claims.UserID, projectID, fileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "file deleted successfully"})
}

// DownloadZip streams one ZIP with all of the project's files. The
// temporary archive is always removed once the response is written.
func (h *FileHandler) DownloadZip(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	projectID, err := parseID(mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, err)
		return
	}

	zipPath, downloadName, err := h.Archive.BuildArchive(claims.UserID, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer os.Remove(zipPath)

	info, err := os.Stat(zipPath)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	http.ServeFile(w, r, zipPath)
	logging.Logger.Infof("Event ID: ZIP_SENT, Description: Archive %s sent to user %d", downloadName, claims.UserID)
}
