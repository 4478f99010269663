// Package archive packs a parsed hierarchy into a downloadable zip or
// tar.gz file with placeholder content for every file entry.
package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"projectzipper/internal/safety"
	"projectzipper/internal/templates"
	"projectzipper/pkg/types"
)

const (
	FormatZip   = "zip"
	FormatTarGz = "tar.gz"
)

var (
	ErrUnknownFormat = errors.New("unknown archive format")
	// ErrUnsafePath is returned when an entry would land outside the archive root.
	ErrUnsafePath = safety.ErrUnsafePath
	// ErrConflict is returned when a path is needed both as a file and a directory.
	ErrConflict = errors.New("path conflict")
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// ParseFormat normalises a user supplied format name. The empty string
// selects zip.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zip":
		return FormatZip, nil
	case "tar.gz", "tgz", "targz":
		return FormatTarGz, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Filename is the download name for a project root in the given format.
func Filename(root, format string) string {
	return safety.Filename(root) + "." + format
}

// ContentType is the MIME type served for a format.
func ContentType(format string) string {
	if format == FormatTarGz {
		return "application/gzip"
	}
	return "application/zip"
}

type Options struct {
	Format string
	// Templates renders file content. Nil means templates.Default().
	Templates *templates.Table
	// Empty writes zero-byte files instead of placeholders.
	Empty bool
	// ModTime is stamped on every entry. Zero means now.
	ModTime time.Time
}

// Stats summarises what was written.
type Stats struct {
	Dirs  int
	Files int
	// Bytes is the uncompressed size of all file content.
	Bytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d dirs, %d files, %s", s.Dirs, s.Files, humanize.Bytes(uint64(s.Bytes)))
}

// Item is one archive member after cleaning and deduplication.
type Item struct {
	Path  string
	IsDir bool
}

// Plan turns hierarchy entries into the ordered list of archive members.
//
// Every path is cleaned and checked first, so an unsafe diagram is rejected
// before anything is written. Directories implied by a deeper path are added
// ahead of it. Repeated paths keep their first occurrence.
func Plan(h types.Hierarchy) ([]Item, error) {
	kinds := make(map[string]bool, len(h.Entries))
	items := make([]Item, 0, len(h.Entries))

	add := func(p string, isDir, parent bool) error {
		if prevDir, seen := kinds[p]; seen {
			if parent && !prevDir {
				return fmt.Errorf("%w: %q is both a file and a directory", ErrConflict, p)
			}
			return nil
		}
		kinds[p] = isDir
		items = append(items, Item{Path: p, IsDir: isDir})
		return nil
	}

	for _, e := range h.Entries {
		clean, err := safety.CleanEntryPath(e.Path)
		if err != nil {
			return nil, err
		}

		parts := strings.Split(clean, "/")
		for i := 1; i < len(parts); i++ {
			if err := add(strings.Join(parts[:i], "/"), true, true); err != nil {
				return nil, err
			}
		}
		if err := add(clean, e.IsDir, false); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Write streams the archive for h to w.
func Write(w io.Writer, h types.Hierarchy, opts Options) (Stats, error) {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return Stats{}, err
	}
	items, err := Plan(h)
	if err != nil {
		return Stats{}, err
	}

	tbl := opts.Templates
	if tbl == nil {
		tbl = templates.Default()
	}
	modTime := opts.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	content := func(p string) ([]byte, error) {
		if opts.Empty {
			return nil, nil
		}
		return tbl.Render(p, h.Root)
	}

	switch format {
	case FormatTarGz:
		return writeTarGz(w, items, content, modTime)
	default:
		return writeZip(w, items, content, modTime)
	}
}

// Bytes builds the whole archive in memory.
func Bytes(h types.Hierarchy, opts Options) ([]byte, Stats, error) {
	var buf bytes.Buffer
	stats, err := Write(&buf, h, opts)
	if err != nil {
		return nil, stats, err
	}
	return buf.Bytes(), stats, nil
}

type contentFunc func(path string) ([]byte, error)

func writeZip(w io.Writer, items []Item, content contentFunc, modTime time.Time) (Stats, error) {
	var stats Stats
	zw := zip.NewWriter(w)

	for _, it := range items {
		hdr := &zip.FileHeader{Name: it.Path, Modified: modTime}
		if it.IsDir {
			hdr.Name += "/"
			hdr.Method = zip.Store
			hdr.SetMode(os.ModeDir | dirMode)
			if _, err := zw.CreateHeader(hdr); err != nil {
				return stats, fmt.Errorf("failed to add directory %s: %w", it.Path, err)
			}
			stats.Dirs++
			continue
		}

		data, err := content(it.Path)
		if err != nil {
			return stats, err
		}
		hdr.Method = zip.Deflate
		hdr.SetMode(fileMode)
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return stats, fmt.Errorf("failed to add file %s: %w", it.Path, err)
		}
		if _, err := fw.Write(data); err != nil {
			return stats, fmt.Errorf("failed to write file %s: %w", it.Path, err)
		}
		stats.Files++
		stats.Bytes += int64(len(data))
	}

	if err := zw.Close(); err != nil {
		return stats, fmt.Errorf("failed to finish zip: %w", err)
	}
	return stats, nil
}

func writeTarGz(w io.Writer, items []Item, content contentFunc, modTime time.Time) (Stats, error) {
	var stats Stats
	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)

	for _, it := range items {
		if it.IsDir {
			hdr := &tar.Header{
				Name:     it.Path + "/",
				Typeflag: tar.TypeDir,
				Mode:     dirMode,
				ModTime:  modTime,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return stats, fmt.Errorf("failed to add directory %s: %w", it.Path, err)
			}
			stats.Dirs++
			continue
		}

		data, err := content(it.Path)
		if err != nil {
			return stats, err
		}
		hdr := &tar.Header{
			Name:     it.Path,
			Typeflag: tar.TypeReg,
			Mode:     fileMode,
			Size:     int64(len(data)),
			ModTime:  modTime,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return stats, fmt.Errorf("failed to add file %s: %w", it.Path, err)
		}
		if _, err := tw.Write(data); err != nil {
			return stats, fmt.Errorf("failed to write file %s: %w", it.Path, err)
		}
		stats.Files++
		stats.Bytes += int64(len(data))
	}

	if err := tw.Close(); err != nil {
		return stats, fmt.Errorf("failed to finish tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		return stats, fmt.Errorf("failed to finish gzip: %w", err)
	}
	return stats, nil
}
