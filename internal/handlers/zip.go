package handlers

import (
	"net/http"

	"projectzipper/internal/archive"
	"projectzipper/internal/log"
)

// ZipHandler serves POST /generate-zip.
type ZipHandler struct {
	opts Options
}

func NewZipHandler(opts Options) *ZipHandler {
	return &ZipHandler{opts: opts.withDefaults()}
}

func (h *ZipHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := log.FromContext(r.Context())

	req, status, err := decodeRequest(w, r, h.opts.MaxDiagramBytes)
	if err != nil {
		writeJSON(w, status, errorDetail{Detail: err.Error()})
		return
	}

	b, err := h.opts.build(req.TreeStructure, req.Format)
	if err != nil {
		status := archiveStatus(err)
		detail := err.Error()
		if status == http.StatusInternalServerError {
			detail = "Error during zip creation: " + detail
		}
		l.Warn("archive build failed", "status", status, "error", err)
		writeJSON(w, status, errorDetail{Detail: detail})
		return
	}

	project := newProject(req.TreeStructure, b)
	if h.opts.Store != nil {
		if err := h.opts.Store.SaveProject(project); err != nil {
			l.Error("failed to save project", "id", project.ID, "error", err)
		}
	}
	h.opts.Cache.Set(project.ID, b.format, b.data)

	l.Info("archive generated", "id", project.ID, "root", b.hierarchy.Root, "format", b.format, "contents", b.stats.String())
	serveArchive(w, b.hierarchy.Root, b.format, project.ID, b.data)
}

// InfoHandler serves GET / and GET /docs.
type InfoHandler struct {
	Version string
}

type serviceInfo struct {
	Service       string `json:"service"`
	Status        string `json:"status"`
	Documentation string `json:"documentation"`
	Version       string `json:"version,omitempty"`
}

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []endpoint{
	{"GET", "/", "service status"},
	{"GET", "/health", "health check"},
	{"POST", "/generate-zip", "build an archive from {\"tree_structure\", \"format\"}"},
	{"POST", "/api/parse", "parse a diagram without building an archive"},
	{"GET", "/api/projects", "list stored projects"},
	{"GET", "/api/projects/{id}", "show a stored project and its entries"},
	{"DELETE", "/api/projects/{id}", "delete a stored project"},
	{"GET", "/api/projects/{id}/archive", "download a stored project, ?format=zip|tar.gz"},
	{"GET", "/projects/{id}/browse/", "browse a stored project in HTML"},
}

func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceInfo{
		Service:       "ProjectZipper API",
		Status:        "Online",
		Documentation: "/docs",
		Version:       h.Version,
	})
}

func (h *InfoHandler) Docs(w http.ResponseWriter, r *http.Request) {
	formats := []string{archive.FormatZip, archive.FormatTarGz}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"endpoints": endpoints,
		"formats":   formats,
	})
}
