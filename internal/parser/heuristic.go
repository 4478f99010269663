package parser

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Glyph sets understood by the decomposer.
const (
	unicodeStructural = " \t\u00a0│├└─"
	unicodeDepth      = "│├└"
	asciiStructural   = unicodeStructural + "|+`-"
	asciiDepth        = unicodeDepth + "|+`"
)

// DefaultDirTokens are names that are treated as directories even when they
// contain a dot. Matching is case-insensitive and by prefix.
var DefaultDirTokens = []string{
	"src",
	"dist",
	"examples",
	"test",
	"docs",
	"fixtures",
	"workflows",
	"issue_template",
	".github",
}

// Heuristic holds every knob of line decomposition and directory detection.
// A nil *Heuristic means DefaultHeuristic.
type Heuristic struct {
	// DirTokens are lower-case name prefixes that force a directory.
	DirTokens []string
	// Structural lists the characters allowed before a name.
	Structural string
	// DepthGlyphs lists the structural characters that count one depth unit each.
	DepthGlyphs string
	// InferParents promotes a file to a directory when the next record is deeper.
	InferParents bool
}

// DefaultHeuristic returns the Unicode box-drawing heuristic.
func DefaultHeuristic() *Heuristic {
	return &Heuristic{
		DirTokens:   append([]string(nil), DefaultDirTokens...),
		Structural:  unicodeStructural,
		DepthGlyphs: unicodeDepth,
	}
}

// ASCIIHeuristic also accepts the `|--`, "`--" and `+--` branch styles.
// Names that begin with '-' lose that character under this preset.
func ASCIIHeuristic() *Heuristic {
	h := DefaultHeuristic()
	h.Structural = asciiStructural
	h.DepthGlyphs = asciiDepth
	return h
}

// heuristicFile is the on-disk YAML form of a Heuristic.
type heuristicFile struct {
	DirectoryTokens []string `yaml:"directory_tokens"`
	ExtraTokens     []string `yaml:"extra_directory_tokens"`
	ASCII           bool     `yaml:"ascii"`
	InferParents    bool     `yaml:"infer_parents"`
}

// LoadHeuristic reads a YAML heuristic definition. directory_tokens replaces
// the default token list, extra_directory_tokens extends it.
func LoadHeuristic(path string) (*Heuristic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read heuristic file: %w", err)
	}
	return ParseHeuristic(data)
}

// ParseHeuristic decodes a YAML heuristic definition.
func ParseHeuristic(data []byte) (*Heuristic, error) {
	var hf heuristicFile
	if err := yaml.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("failed to parse heuristic: %w", err)
	}

	h := DefaultHeuristic()
	if hf.ASCII {
		h = ASCIIHeuristic()
	}
	if hf.DirectoryTokens != nil {
		h.DirTokens = nil
		h.AddDirTokens(hf.DirectoryTokens...)
	}
	h.AddDirTokens(hf.ExtraTokens...)
	h.InferParents = hf.InferParents
	return h, nil
}

// AddDirTokens appends lower-cased, non-empty tokens.
func (h *Heuristic) AddDirTokens(tokens ...string) {
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			h.DirTokens = append(h.DirTokens, t)
		}
	}
}

func (h *Heuristic) isStructural(r rune) bool {
	return strings.ContainsRune(h.Structural, r)
}

func (h *Heuristic) isDepthGlyph(r rune) bool {
	return strings.ContainsRune(h.DepthGlyphs, r)
}

// IsDir reports whether name looks like a directory. It is a guess: extensionless
// files such as Makefile or Dockerfile come back as directories.
func (h *Heuristic) IsDir(name string) bool {
	if strings.HasSuffix(name, "/") {
		return true
	}
	last := name[strings.LastIndex(name, "/")+1:]
	if !strings.Contains(last, ".") {
		return true
	}
	lower := strings.ToLower(name)
	for _, tok := range h.DirTokens {
		if strings.HasPrefix(lower, tok) {
			return true
		}
	}
	return false
}

func orDefault(h *Heuristic) *Heuristic {
	if h == nil {
		return DefaultHeuristic()
	}
	return h
}
