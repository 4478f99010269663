package filesystem

import (
	"path"
	"sort"
	"strings"

	"projectzipper/internal/archive"
	"projectzipper/internal/templates"
	"projectzipper/pkg/types"
)

// VirtualFS is a read-only view of a parsed hierarchy. Paths are absolute
// and slash-separated, with "/" holding the project root directory.
// It is not modified after New, so concurrent reads need no locking.
type VirtualFS struct {
	root  string
	items map[string]*types.VirtualItem
	dirs  map[string]bool
}

// New builds the view. When tbl is non-nil, file sizes are the size of
// the placeholder content the archive would carry.
func New(h types.Hierarchy, tbl *templates.Table) (*VirtualFS, error) {
	planned, err := archive.Plan(h)
	if err != nil {
		return nil, err
	}

	vfs := &VirtualFS{
		root:  h.Root,
		items: make(map[string]*types.VirtualItem, len(planned)),
		dirs:  map[string]bool{"/": true},
	}

	for _, it := range planned {
		p := "/" + it.Path
		item := &types.VirtualItem{
			Name:  path.Base(p),
			Path:  p,
			IsDir: it.IsDir,
		}
		if it.IsDir {
			vfs.dirs[p] = true
		} else if tbl != nil {
			if data, err := tbl.Render(it.Path, h.Root); err == nil {
				item.Size = int64(len(data))
			}
		}
		vfs.items[p] = item
	}

	return vfs, nil
}

// Root is the project root name of the hierarchy.
func (vfs *VirtualFS) Root() string {
	return vfs.root
}

func clean(p string) string {
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}

// Exists checks if a path exists in the virtual filesystem
func (vfs *VirtualFS) Exists(p string) bool {
	p = clean(p)
	_, exists := vfs.items[p]
	return exists || vfs.dirs[p]
}

// IsDir checks if a path is a directory
func (vfs *VirtualFS) IsDir(p string) bool {
	p = clean(p)
	if item, exists := vfs.items[p]; exists {
		return item.IsDir
	}
	return vfs.dirs[p]
}

// GetItem returns the virtual item at the given path
func (vfs *VirtualFS) GetItem(p string) (*types.VirtualItem, bool) {
	item, exists := vfs.items[clean(p)]
	return item, exists
}

// ListDir returns the contents of a directory
func (vfs *VirtualFS) ListDir(dirPath string) []*types.VirtualItem {
	dirPath = clean(dirPath)
	if !vfs.IsDir(dirPath) {
		return nil
	}

	var items []*types.VirtualItem

	// Find all direct children
	for itemPath, item := range vfs.items {
		if path.Dir(itemPath) == dirPath {
			items = append(items, item)
		}
	}

	// Sort items: directories first, then files, both alphabetically
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDir != items[j].IsDir {
			return items[i].IsDir
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})

	return items
}

// AllPaths returns all paths in the filesystem, sorted.
func (vfs *VirtualFS) AllPaths() []string {
	paths := make([]string, 0, len(vfs.items)+1)
	paths = append(paths, "/")
	for p := range vfs.items {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TotalSize sums the sizes of all files.
func (vfs *VirtualFS) TotalSize() int64 {
	var total int64
	for _, item := range vfs.items {
		total += item.Size
	}
	return total
}
