// Package fsops writes a parsed hierarchy to the local filesystem.
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"projectzipper/internal/archive"
	"projectzipper/internal/log"
	"projectzipper/internal/templates"
	"projectzipper/pkg/types"
)

var ErrExists = errors.New("file already exists")

// Options control how a hierarchy is materialised.
type Options struct {
	Dest     string
	DryRun   bool
	Force    bool
	DirPerm  os.FileMode
	FilePerm os.FileMode
	// Content fills files with placeholders instead of leaving them empty.
	Content   bool
	Templates *templates.Table
	Logger    *slog.Logger
}

// Action is one filesystem change, performed or planned.
type Action struct {
	Op   string `json:"op"` // mkdir, create, overwrite, skip
	Path string `json:"path"`
}

type Result struct {
	Actions []Action
	Dirs    int
	Files   int
	Skipped int
}

func (o *Options) defaults() {
	if o.DirPerm == 0 {
		o.DirPerm = 0o755
	}
	if o.FilePerm == 0 {
		o.FilePerm = 0o644
	}
	if o.Templates == nil {
		o.Templates = templates.Default()
	}
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
}

// Apply creates the directories and files of h under opts.Dest. Paths are
// resolved with SecureJoin so nothing lands outside Dest, symlinks included.
// Existing directories are reused; existing files are an error unless Force
// is set. With DryRun nothing is touched and the result lists what would be done.
func Apply(h types.Hierarchy, opts Options) (Result, error) {
	opts.defaults()
	var res Result

	if opts.Dest == "" {
		return res, fmt.Errorf("destination directory is required")
	}
	items, err := archive.Plan(h)
	if err != nil {
		return res, err
	}

	if !opts.DryRun {
		if err := os.MkdirAll(opts.Dest, opts.DirPerm); err != nil {
			return res, fmt.Errorf("mkdir %s: %w", opts.Dest, err)
		}
	}

	for _, it := range items {
		target, err := securejoin.SecureJoin(opts.Dest, filepath.FromSlash(it.Path))
		if err != nil {
			return res, fmt.Errorf("failed to resolve %s: %w", it.Path, err)
		}

		if it.IsDir {
			act, err := ensureDir(target, opts)
			if err != nil {
				return res, err
			}
			res.record(act, it.Path, opts.Logger)
			continue
		}

		var data []byte
		if opts.Content {
			data, err = opts.Templates.Render(it.Path, h.Root)
			if err != nil {
				return res, err
			}
		}
		act, err := ensureFile(target, data, opts)
		if err != nil {
			return res, err
		}
		res.record(act, it.Path, opts.Logger)
	}
	return res, nil
}

func (r *Result) record(op, p string, l *slog.Logger) {
	if op == "" {
		return
	}
	r.Actions = append(r.Actions, Action{Op: op, Path: p})
	switch op {
	case "mkdir":
		r.Dirs++
	case "create", "overwrite":
		r.Files++
	case "skip":
		r.Skipped++
	}
	l.Debug("apply", "op", op, "path", p)
}

func ensureDir(target string, opts Options) (string, error) {
	info, err := os.Lstat(target)
	switch {
	case err == nil && info.IsDir():
		return "", nil
	case err == nil:
		return "", fmt.Errorf("conflict: %s exists and is not a directory", target)
	case errors.Is(err, fs.ErrNotExist):
		if opts.DryRun {
			return "mkdir", nil
		}
		if err := os.MkdirAll(target, opts.DirPerm); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", target, err)
		}
		return "mkdir", nil
	default:
		return "", fmt.Errorf("stat %s: %w", target, err)
	}
}

func ensureFile(target string, data []byte, opts Options) (string, error) {
	op := "create"
	info, err := os.Lstat(target)
	switch {
	case err == nil && info.IsDir():
		return "", fmt.Errorf("conflict: %s is a directory", target)
	case err == nil:
		if !opts.Force {
			if opts.DryRun {
				return "skip", nil
			}
			return "", fmt.Errorf("%w: %s (use force to overwrite)", ErrExists, target)
		}
		op = "overwrite"
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("stat %s: %w", target, err)
	}

	if opts.DryRun {
		return op, nil
	}
	if err := os.WriteFile(target, data, opts.FilePerm); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return op, nil
}
