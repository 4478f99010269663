package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"projectzipper/internal/archive"
	"projectzipper/internal/cache"
	"projectzipper/internal/parser"
	"projectzipper/internal/storage"
	"projectzipper/internal/templates"
	"projectzipper/pkg/types"
)

// ProjectStore is the persistence the handlers need.
type ProjectStore interface {
	SaveProject(p *types.Project) error
	GetProject(id string) (*types.Project, error)
	ListProjects() ([]types.Project, error)
	DeleteProject(id string) error
}

// Options are shared by every handler.
type Options struct {
	// Store is optional for ZipHandler and required by the others.
	Store     ProjectStore
	Cache     *cache.ArchiveCache
	Heuristic *parser.Heuristic
	Templates *templates.Table
	// DefaultFormat is used when a request names none.
	DefaultFormat   string
	MaxDiagramBytes int64
}

func (o Options) withDefaults() Options {
	if o.Templates == nil {
		o.Templates = templates.Default()
	}
	if o.DefaultFormat == "" {
		o.DefaultFormat = archive.FormatZip
	}
	if o.MaxDiagramBytes <= 0 {
		o.MaxDiagramBytes = 1 << 20
	}
	return o
}

// GenerateRequest is the body of POST /generate-zip and POST /api/parse.
type GenerateRequest struct {
	TreeStructure string `json:"tree_structure"`
	Format        string `json:"format,omitempty"`
}

// ErrEmptyDiagram is returned for blank input.
var ErrEmptyDiagram = errors.New("Input tree structure cannot be empty.")

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// errorDetail is the error body of the archive endpoint.
type errorDetail struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func sendSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	writeJSON(w, statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func sendError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   errorMsg,
	})
}

// decodeRequest reads a GenerateRequest capped at maxBytes. The returned
// status is meaningful only when err is non-nil.
func decodeRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (GenerateRequest, int, error) {
	var req GenerateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, http.StatusRequestEntityTooLarge, fmt.Errorf("tree structure exceeds %d bytes", maxBytes)
		}
		return req, http.StatusBadRequest, fmt.Errorf("Invalid JSON payload: %w", err)
	}
	if parser.IsBlank(req.TreeStructure) {
		return req, http.StatusBadRequest, ErrEmptyDiagram
	}
	return req, 0, nil
}

// built is one archive produced from a diagram.
type built struct {
	hierarchy types.Hierarchy
	format    string
	data      []byte
	stats     archive.Stats
}

// build parses a diagram and packs it.
func (o Options) build(diagram, format string) (built, error) {
	if format == "" {
		format = o.DefaultFormat
	}
	format, err := archive.ParseFormat(format)
	if err != nil {
		return built{}, err
	}

	h := parser.Parse(diagram, o.Heuristic)
	data, stats, err := archive.Bytes(h, archive.Options{
		Format:    format,
		Templates: o.Templates,
	})
	if err != nil {
		return built{}, err
	}
	return built{hierarchy: h, format: format, data: data, stats: stats}, nil
}

// archiveStatus maps a build error to an HTTP status.
func archiveStatus(err error) int {
	switch {
	case errors.Is(err, archive.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, archive.ErrUnsafePath), errors.Is(err, archive.ErrConflict):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// newProject describes a built archive for storage.
func newProject(diagram string, b built) *types.Project {
	dirs, files := b.hierarchy.Counts()
	return &types.Project{
		ID:         storage.ProjectID(diagram),
		Root:       b.hierarchy.Root,
		Diagram:    diagram,
		Format:     b.format,
		EntryCount: len(b.hierarchy.Entries),
		DirCount:   dirs,
		FileCount:  files,
		CreatedAt:  time.Now().UTC(),
	}
}

func serveArchive(w http.ResponseWriter, root, format, id string, data []byte) {
	w.Header().Set("Content-Type", archive.ContentType(format))
	w.Header().Set("Content-Disposition", "attachment; filename="+archive.Filename(root, format))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	if id != "" {
		w.Header().Set("X-Project-ID", id)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
