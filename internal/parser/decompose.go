package parser

import (
	"regexp"
	"strings"

	"projectzipper/pkg/types"
)

// summaryLine matches the trailer printed by tree(1), e.g. "3 directories, 5 files".
var summaryLine = regexp.MustCompile(`(?i)^\d+\s+director(y|ies)(\s*,\s*\d+\s+files?)?$`)

// Decompose splits one diagram line into a record. It returns false for lines
// that carry no entry: blank lines, glyph-only lines and tree(1) summaries.
//
// Depth is the number of depth glyphs in the structural prefix, one unit per
// glyph no matter how much whitespace surrounds it.
func Decompose(line string, h *Heuristic) (types.Record, bool) {
	h = orDefault(h)

	line = strings.TrimRight(line, " \t\r\n")
	if line == "" {
		return types.Record{}, false
	}

	depth := 0
	start := len(line)
	for i, r := range line {
		if !h.isStructural(r) {
			start = i
			break
		}
		if h.isDepthGlyph(r) {
			depth++
		}
	}

	name := strings.TrimSpace(line[start:])
	if name == "" {
		return types.Record{}, false
	}
	if summaryLine.MatchString(name) {
		return types.Record{}, false
	}

	return types.Record{
		Name:  name,
		Depth: depth,
		IsDir: h.IsDir(name),
	}, true
}

// RootName derives the project name from the first non-blank line of text.
// The leading glyphs are dropped and anything from the first '/' on is cut.
// It falls back to DefaultRoot, also for the "." that tree(1) prints.
func RootName(text string, h *Heuristic) string {
	h = orDefault(h)

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		clean := strings.TrimLeftFunc(line, h.isStructural)
		if i := strings.Index(clean, "/"); i >= 0 {
			clean = clean[:i]
		}
		clean = strings.TrimSpace(clean)
		if clean == "" || clean == "." {
			return DefaultRoot
		}
		return clean
	}
	return DefaultRoot
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
