// Package parser turns tree diagrams, as printed by tree(1) or typed into a
// README, into an ordered list of paths.
//
// Parsing happens in two stages. Decompose reads a single line and guesses its
// depth and kind. Builder replays those records against a stack of open
// directories to recover full paths. Neither stage fails on malformed input:
// the diagram grammar is ambiguous and every line yields its best guess.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"projectzipper/pkg/types"
)

// DefaultRoot is used when the first line carries no usable name.
const DefaultRoot = "project"

// MaxLineLength bounds a single line read by ParseReader.
const MaxLineLength = 64 * 1024

// Records decomposes every line of text, skipping lines without an entry.
func Records(text string, h *Heuristic) []types.Record {
	h = orDefault(h)

	var records []types.Record
	for i, line := range splitLines(text) {
		rec, ok := Decompose(line, h)
		if !ok {
			continue
		}
		rec.Line = i + 1
		records = append(records, rec)
	}
	if h.InferParents {
		inferParents(records)
	}
	return records
}

// Parse runs both stages over text. Empty input gives an empty hierarchy
// rooted at DefaultRoot.
func Parse(text string, h *Heuristic) types.Hierarchy {
	h = orDefault(h)
	return types.Hierarchy{
		Root:    RootName(text, h),
		Entries: Build(Records(text, h)),
	}
}

// ParseReader reads the whole diagram from r and parses it.
func ParseReader(r io.Reader, h *Heuristic) (types.Hierarchy, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), MaxLineLength)

	var sb strings.Builder
	for sc.Scan() {
		sb.WriteString(sc.Text())
		sb.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return types.Hierarchy{}, fmt.Errorf("failed to read diagram: %w", err)
	}
	return Parse(sb.String(), h), nil
}

// IsBlank reports whether text has no non-whitespace content.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
