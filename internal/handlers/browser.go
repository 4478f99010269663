package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"projectzipper/internal/filesystem"
	"projectzipper/internal/log"
	"projectzipper/internal/parser"
	"projectzipper/internal/storage"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Root}}{{.Path}}</title>
<style>
  :root { --ink: #1f2328; --muted: #656d76; --line: #d0d7de; --accent: #0969da; }
  body { margin: 2rem auto; max-width: 960px; padding: 0 1rem; color: var(--ink);
         font: 15px/1.5 ui-sans-serif, system-ui, sans-serif; }
  header { border-bottom: 1px solid var(--line); padding-bottom: .75rem; }
  header h1 { margin: 0; font-size: 1.4rem; }
  header p { margin: .25rem 0 0; color: var(--muted); }
  a { color: var(--accent); text-decoration: none; }
  a:hover { text-decoration: underline; }
  nav { margin: 1rem 0; font-family: ui-monospace, monospace; }
  table { width: 100%; border-collapse: collapse; font-family: ui-monospace, monospace; }
  td { padding: .35rem .5rem; border-bottom: 1px solid var(--line); }
  td.size { text-align: right; color: var(--muted); width: 8rem; }
  .empty { color: var(--muted); padding: 2rem 0; }
  footer { margin-top: 1.5rem; color: var(--muted); font-size: .85rem; }
</style>
</head>
<body>
<header>
  <h1>{{.Root}}</h1>
  <p>{{.Summary}} &middot; <a href="{{.Download}}">zip</a> &middot; <a href="{{.Download}}?format=tar.gz">tar.gz</a></p>
</header>
<nav>{{range $i, $b := .Breadcrumbs}}{{if $i}} / {{end}}<a href="{{$b.URL}}">{{$b.Name}}</a>{{end}}</nav>
{{if .Items}}
<table>
{{range .Items}}  <tr>
    <td><a href="{{.URL}}">{{.Name}}{{if .IsDir}}/{{end}}</a></td>
    <td class="size">{{if not .IsDir}}{{.Size}}{{end}}</td>
  </tr>
{{end}}</table>
{{else}}
<p class="empty">Empty directory.</p>
{{end}}
<footer>project {{.ID}}</footer>
</body>
</html>`

// BrowserHandler renders a stored project as browsable HTML directory listings.
type BrowserHandler struct {
	opts     Options
	template *template.Template
}

// NewBrowserHandler creates a new browser handler
func NewBrowserHandler(opts Options) *BrowserHandler {
	tmpl := template.Must(template.New("directory").Parse(htmlTemplate))
	return &BrowserHandler{
		opts:     opts.withDefaults(),
		template: tmpl,
	}
}

// ServeHTTP handles GET /projects/{id}/browse/*. Directories are listed;
// files are answered with the placeholder content they get in the archive.
func (h *BrowserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	requestPath := "/" + strings.Trim(chi.URLParam(r, "*"), "/")

	project, err := h.opts.Store.GetProject(id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.FromContext(r.Context()).Error("failed to load project", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vfs, err := filesystem.New(parser.Parse(project.Diagram, h.opts.Heuristic), h.opts.Templates)
	if err != nil {
		log.FromContext(r.Context()).Warn("cannot browse project", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if !vfs.Exists(requestPath) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	item, exists := vfs.GetItem(requestPath)
	if exists && !item.IsDir {
		data, err := h.opts.Templates.Render(strings.TrimPrefix(item.Path, "/"), vfs.Root())
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write(data)
		return
	}

	h.renderDirectoryListing(w, id, vfs, requestPath)
}

// BreadcrumbItem represents a breadcrumb item
type BreadcrumbItem struct {
	Name string
	URL  string
}

// TemplateData represents data for the HTML template
type TemplateData struct {
	ID          string
	Root        string
	Path        string
	Summary     string
	Download    string
	Breadcrumbs []BreadcrumbItem
	Items       []TemplateItem
}

// TemplateItem represents an item in the directory listing
type TemplateItem struct {
	Name  string
	URL   string
	IsDir bool
	Size  string
}

func browseBase(id string) string {
	return "/projects/" + id + "/browse"
}

// renderDirectoryListing renders the directory listing HTML
func (h *BrowserHandler) renderDirectoryListing(w http.ResponseWriter, id string, vfs *filesystem.VirtualFS, requestPath string) {
	base := browseBase(id)

	items := vfs.ListDir(requestPath)
	templateItems := make([]TemplateItem, len(items))

	for i, item := range items {
		templateItems[i] = TemplateItem{
			Name:  item.Name,
			URL:   base + item.Path,
			IsDir: item.IsDir,
			Size:  formatSize(item.Size),
		}
	}

	paths := vfs.AllPaths()
	data := TemplateData{
		ID:          id,
		Root:        vfs.Root(),
		Path:        requestPath,
		Summary:     fmt.Sprintf("%d entries, %s of placeholders", len(paths)-1, humanize.Bytes(uint64(vfs.TotalSize()))),
		Download:    "/api/projects/" + id + "/archive",
		Breadcrumbs: generateBreadcrumbs(base, requestPath),
		Items:       templateItems,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// generateBreadcrumbs generates breadcrumb navigation
func generateBreadcrumbs(base, requestPath string) []BreadcrumbItem {
	var breadcrumbs []BreadcrumbItem

	// Add root
	breadcrumbs = append(breadcrumbs, BreadcrumbItem{
		Name: "Home",
		URL:  base + "/",
	})

	if requestPath == "/" {
		return breadcrumbs
	}

	// Split path and create breadcrumbs
	parts := strings.Split(strings.Trim(requestPath, "/"), "/")
	currentPath := ""

	for _, part := range parts {
		if part == "" {
			continue
		}
		currentPath = path.Join(currentPath, part)
		breadcrumbs = append(breadcrumbs, BreadcrumbItem{
			Name: part,
			URL:  base + "/" + currentPath,
		})
	}

	return breadcrumbs
}

// formatSize formats file size for display
func formatSize(size int64) string {
	if size == 0 {
		return ""
	}
	return humanize.Bytes(uint64(size))
}
