// Package safety keeps diagram-derived paths inside the archive or
// directory they are written to.
package safety

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path")

// CleanEntryPath normalises a slash-separated entry path and rejects paths
// that are absolute, contain backslashes or NUL bytes, or climb out of the
// archive root with "..".
func CleanEntryPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafePath)
	}
	if strings.ContainsAny(p, "\\\x00") {
		return "", fmt.Errorf("%w: %q contains a backslash or NUL", ErrUnsafePath, p)
	}
	if strings.HasPrefix(p, "/") || hasDriveLetter(p) {
		return "", fmt.Errorf("%w: absolute paths are not allowed: %q", ErrUnsafePath, p)
	}

	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the root", ErrUnsafePath, p)
	}
	return clean, nil
}

// Filename turns a project name into something safe for a
// Content-Disposition header or a local file name.
func Filename(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	out := strings.Trim(sb.String(), ".-")
	if out == "" {
		return "project"
	}
	return out
}

func hasDriveLetter(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}
