package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"projectzipper/internal/archive"
	"projectzipper/internal/log"
	"projectzipper/internal/parser"
	"projectzipper/internal/storage"
	"projectzipper/pkg/types"
)

// APIHandler serves the JSON endpoints under /api.
type APIHandler struct {
	opts Options
}

func NewAPIHandler(opts Options) *APIHandler {
	return &APIHandler{opts: opts.withDefaults()}
}

type ParseResponse struct {
	Root    string        `json:"root"`
	Entries []types.Entry `json:"entries"`
	Dirs    int           `json:"dirs"`
	Files   int           `json:"files"`
}

type ProjectListResponse struct {
	Projects []types.Project `json:"projects"`
	Total    int             `json:"total"`
}

type ProjectDetail struct {
	Project types.Project `json:"project"`
	Entries []types.Entry `json:"entries"`
}

// Routes mounts the API on r.
func (h *APIHandler) Routes(r chi.Router) {
	r.Post("/parse", h.Parse)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/{id}", h.GetProject)
	r.Delete("/projects/{id}", h.DeleteProject)
	r.Get("/projects/{id}/archive", h.ProjectArchive)
}

// POST /api/parse - parse a diagram without building anything
func (h *APIHandler) Parse(w http.ResponseWriter, r *http.Request) {
	req, status, err := decodeRequest(w, r, h.opts.MaxDiagramBytes)
	if err != nil {
		sendError(w, status, err.Error())
		return
	}

	hier := parser.Parse(req.TreeStructure, h.opts.Heuristic)
	dirs, files := hier.Counts()
	entries := hier.Entries
	if entries == nil {
		entries = []types.Entry{}
	}

	sendSuccess(w, http.StatusOK, "Diagram parsed successfully", ParseResponse{
		Root:    hier.Root,
		Entries: entries,
		Dirs:    dirs,
		Files:   files,
	})
}

// GET /api/projects - list stored projects
func (h *APIHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.opts.Store.ListProjects()
	if err != nil {
		log.FromContext(r.Context()).Error("failed to list projects", "error", err)
		sendError(w, http.StatusInternalServerError, "Failed to list projects: "+err.Error())
		return
	}
	if projects == nil {
		projects = []types.Project{}
	}

	sendSuccess(w, http.StatusOK, "Projects retrieved successfully", ProjectListResponse{
		Projects: projects,
		Total:    len(projects),
	})
}

// GET /api/projects/{id} - a project with its parsed entries
func (h *APIHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	hier := parser.Parse(project.Diagram, h.opts.Heuristic)
	sendSuccess(w, http.StatusOK, "Project retrieved successfully", ProjectDetail{
		Project: *project,
		Entries: hier.Entries,
	})
}

// DELETE /api/projects/{id}
func (h *APIHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.opts.Store.DeleteProject(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, http.StatusNotFound, "Project not found")
			return
		}
		sendError(w, http.StatusInternalServerError, "Failed to delete project: "+err.Error())
		return
	}
	h.opts.Cache.Delete(id, archive.FormatZip, archive.FormatTarGz)

	sendSuccess(w, http.StatusOK, "Project deleted successfully", map[string]string{"id": id})
}

// GET /api/projects/{id}/archive?format= - download a stored project
func (h *APIHandler) ProjectArchive(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = project.Format
	}
	format, err := archive.ParseFormat(format)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if data, ok := h.opts.Cache.Get(project.ID, format); ok {
		serveArchive(w, project.Root, format, project.ID, data)
		return
	}

	b, err := h.opts.build(project.Diagram, format)
	if err != nil {
		sendError(w, archiveStatus(err), err.Error())
		return
	}
	h.opts.Cache.Set(project.ID, format, b.data)
	serveArchive(w, project.Root, format, project.ID, b.data)
}

func (h *APIHandler) loadProject(w http.ResponseWriter, r *http.Request) (*types.Project, bool) {
	project, err := h.opts.Store.GetProject(chi.URLParam(r, "id"))
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, http.StatusNotFound, "Project not found")
		return nil, false
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to load project: "+err.Error())
		return nil, false
	}
	return project, true
}
