package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/services"
)

const dateLayout = "2006-01-02"

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

func formatDate(t time.Time) string { return t.Format(dateLayout) }

func projectSummary(p *models.Project) map[string]any {
	var endDate any
	if p.EndDate != nil {
		endDate = formatDate(*p.EndDate)
	}
	var client any
	if p.Client != nil {
		client = map[string]any{"id": p.Client.ID, "name": p.Client.Name}
	}
	return map[string]any{
		"id":          p.ID,
		"projectname": p.Name,
		"description": p.Description,
		"fechaInicio": formatDate(p.StartDate),
		"fechaFin":    endDate,
		"fileName":    p.FileName,
		"client":      client,
	}
}

func projectDetail(p *models.Project) map[string]any {
	detail := projectSummary(p)
	detail["owner"] = map[string]any{"id": p.Owner.ID, "username": p.Owner.Username}
	detail["status"] = p.Status(time.Now())
	colaboradores := make([]map[string]any, 0, len(p.Colaboradores))
	for _, c := range p.Colaboradores {
		colaboradores = append(colaboradores, map[string]any{"id": c.ID, "username": c.Username})
	}
	detail["colaboradores"] = colaboradores
	return detail
}

func (h *ProjectHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	projects, err := h.Service.ListOwned(claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(projects))
}

func (h *ProjectHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.ListAll()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(projects))
}

func (h *ProjectHandler) ListCollaborations(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	projects, err := h.Service.ListCollaborations(claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]map[string]any, 0, len(projects))
	for i := range projects {
		entry := projectSummary(&projects[i])
		entry["owner"] = map[string]any{"id": projects[i].Owner.ID, "username": projects[i].Owner.Username}
		data = append(data, entry)
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *ProjectHandler) FindProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	project, err := h.Service.GetProject(claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectDetail(project))
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
		if err := r.ParseForm(); err != nil {
			writeError(w, errs.Validation("invalid form data"))
			return
		}
	}

	in := services.CreateProjectInput{
		Name:        r.FormValue("projectname"),
		Description: r.FormValue("description"),
	}

	if raw := r.FormValue("fechaInicio"); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, errs.Validation("invalid fechaInicio"))
			return
		}
		in.StartDate = start
	}
	if raw := r.FormValue("fechaFin"); raw != "" {
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeError(w, errs.Validation("invalid fechaFin"))
			return
		}
		in.EndDate = &end
	}
	if raw := r.FormValue("client"); raw != "" {
		clientID, err := parseID(raw)
		if err != nil {
			writeError(w, errs.Validation("invalid client id"))
			return
		}
		in.ClientID = &clientID
	}
	if raw := r.FormValue("owner"); raw != "" {
		ownerID, err := parseID(raw)
		if err != nil {
			writeError(w, errs.Validation("invalid owner id"))
			return
		}
		in.OwnerID = &ownerID
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		in.File = file
		in.FileOriginal = header.Filename
	}

	project, err := h.Service.CreateProject(claims.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      project.ID,
		"message": "project created successfully",
	})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	in, err := h.parseUpdate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.Service.UpdateProject(claims.UserID, id, *in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project updated successfully"})
}

// parseUpdate accepts either a JSON body or form data and keeps track of
// which keys were actually sent, so omitted fields stay untouched.
func (h *ProjectHandler) parseUpdate(r *http.Request) (*services.UpdateProjectInput, error) {
	in := &services.UpdateProjectInput{}
	fields := map[string]any{}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			return nil, errs.Validation("invalid request format")
		}
	} else {
		if err := r.ParseMultipartForm(32 << 20); err != nil && err != http.ErrNotMultipart {
			if err := r.ParseForm(); err != nil {
				return nil, errs.Validation("invalid form data")
			}
		}
		for key, values := range r.Form {
			if len(values) > 0 {
				fields[key] = values[0]
			}
		}
		if file, header, err := r.FormFile("file"); err == nil {
			in.File = file
			in.FileOriginal = header.Filename
		}
	}

	if raw, ok := fields["projectname"]; ok {
		name := fmt.Sprintf("%v", raw)
		in.Name = &name
	}
	if raw, ok := fields["description"]; ok {
		description := fmt.Sprintf("%v", raw)
		in.Description = &description
	}
	if raw, ok := fields["fechaInicio"]; ok {
		start, err := time.Parse(dateLayout, fmt.Sprintf("%v", raw))
		if err != nil {
			return nil, errs.Validation("invalid fechaInicio")
		}
		in.StartDate = &start
	}
	if raw, ok := fields["fechaFin"]; ok {
		in.EndDateSet = true
		if raw != nil && fmt.Sprintf("%v", raw) != "" {
			end, err := time.Parse(dateLayout, fmt.Sprintf("%v", raw))
			if err != nil {
				return nil, errs.Validation("invalid fechaFin")
			}
			in.EndDate = &end
		}
	}
	if raw, ok := fields["client"]; ok {
		in.ClientSet = true
		if raw != nil && fmt.Sprintf("%v", raw) != "" {
			clientID, err := parseID(jsonNumberString(raw))
			if err != nil {
				return nil, errs.Validation("invalid client id")
			}
			in.ClientID = &clientID
		}
	}
	return in, nil
}

// jsonNumberString renders a JSON number or string value as the bare
// digits parseID expects.
func jsonNumberString(raw any) string {
	if f, ok := raw.(float64); ok {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%v", raw)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.DeleteProject(claims.UserID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted successfully"})
}

func (h *ProjectHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		UserID *uint `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == nil {
		writeError(w, errs.Validation("missing collaborator userId"))
		return
	}
	if err := h.Service.AddCollaborator(claims.UserID, id, *req.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "collaborator added successfully"})
}

func (h *ProjectHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id, err := parseID(vars["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := parseID(vars["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Service.RemoveCollaborator(claims.UserID, id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "collaborator removed successfully"})
}

func (h *ProjectHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	collaborators, err := h.Service.ListCollaborators(claims.UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	data := make([]map[string]any, 0, len(collaborators))
	for _, c := range collaborators {
		data = append(data, map[string]any{
			"id":       c.ID,
			"username": c.Username,
			"email":    c.Email,
		})
	}
	writeJSON(w, http.StatusOK, data)
}

// UserProjects lists the projects owned by the user in the path; callers
// may only ask for their own.
func (h *ProjectHandler) UserProjects(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if claims.UserID != id {
		writeError(w, errs.Forbidden("you do not have permission to view these projects"))
		return
	}
	projects, err := h.Service.ListOwned(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(projects))
}

func (h *ProjectHandler) UserCollaborations(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if claims.UserID != id {
		writeError(w, errs.Forbidden("you do not have permission to view these projects"))
		return
	}
	projects, err := h.Service.ListCollaborations(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries(projects))
}

// DownloadLegacyFile serves the project's single legacy attachment.
func (h *ProjectHandler) DownloadLegacyFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	path, name, err := h.Service.LegacyFilePath(id)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func summaries(projects []models.Project) []map[string]any {
	data := make([]map[string]any, 0, len(projects))
	for i := range projects {
		data = append(data, projectSummary(&projects[i]))
	}
	return data
}
