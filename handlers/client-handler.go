package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/services"
)

type ClientHandler struct {
	Service *services.ClientService
	CSV     *services.CSVService
}

func NewClientHandler(service *services.ClientService, csv *services.CSVService) *ClientHandler {
	return &ClientHandler{Service: service, CSV: csv}
}

func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	client, err := h.Service.GetClient(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in services.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}
	client, err := h.Service.CreateClient(in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      client.ID,
		"message": "client created successfully",
	})
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	var in services.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		return
	}
	if _, err := h.Service.UpdateClient(id, in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "client updated successfully"})
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteClient(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "client deleted successfully"})
}

func (h *ClientHandler) ExportClients(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clientes.csv"`)
	if err := h.CSV.ExportClients(w); err != nil {
		// Headers are gone already; log and abandon the response.
		writeError(w, err)
	}
}

func (h *ClientHandler) ImportClients(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImportSize+4096)
	if err := r.ParseMultipartForm(services.MaxImportSize); err != nil {
		writeError(w, errs.Validation("the file is too large, maximum 1MB allowed"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errs.Validation("no file was sent"))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, errs.Validation("the file must be a CSV"))
		return
	}
	if header.Size > services.MaxImportSize {
		writeError(w, errs.Validation("the file is too large, maximum 1MB allowed"))
		return
	}

	result, err := h.CSV.ImportClients(file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "import completed",
		"importados":   result.Imported,
		"omitidos":     result.Skipped,
		"errores":      result.Errors,
		"total_lineas": result.TotalLines,
	})
}
