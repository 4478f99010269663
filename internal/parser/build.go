package parser

import (
	"strings"

	"projectzipper/pkg/types"
)

// frame is one open directory on the path stack.
type frame struct {
	path  string
	depth int
}

// Builder turns records into full paths with a stack of open directories.
// The zero value is ready to use.
type Builder struct {
	stack   []frame
	entries []types.Entry
}

// Add places one record in the hierarchy and returns the resulting entry.
//
// Open directories at the record's depth or deeper are closed first, so a jump
// from depth 1 to depth 3 nests under whatever is still open instead of failing.
// Only directories are pushed.
//
// A "." or "./" line, as tree(1) prints for the current directory, names no
// entry of its own: it opens its parent again so that its children land one
// level up. Add reports false for it.
func (b *Builder) Add(rec types.Record) (types.Entry, bool) {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].depth >= rec.Depth {
		b.stack = b.stack[:len(b.stack)-1]
	}

	parent := ""
	if n := len(b.stack); n > 0 {
		parent = b.stack[n-1].path
	}

	name := strings.TrimRight(rec.Name, "/")
	if name == "." {
		b.stack = append(b.stack, frame{path: parent, depth: rec.Depth})
		return types.Entry{}, false
	}
	if name == "" {
		// a bare "/" line
		name = rec.Name
	}
	full := name
	if parent != "" {
		full = parent + "/" + name
	}

	entry := types.Entry{Path: full, IsDir: rec.IsDir, Depth: rec.Depth}
	b.entries = append(b.entries, entry)
	if rec.IsDir {
		b.stack = append(b.stack, frame{path: full, depth: rec.Depth})
	}
	return entry, true
}

// Entries returns everything added so far, in input order.
func (b *Builder) Entries() []types.Entry {
	return b.entries
}

// Build runs records through a fresh Builder.
func Build(records []types.Record) []types.Entry {
	var b Builder
	for _, rec := range records {
		b.Add(rec)
	}
	return b.Entries()
}

// inferParents marks a file as a directory when the next record sits deeper.
func inferParents(records []types.Record) {
	for i := 0; i+1 < len(records); i++ {
		if !records[i].IsDir && records[i+1].Depth > records[i].Depth {
			records[i].IsDir = true
		}
	}
}
