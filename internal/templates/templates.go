// Package templates produces placeholder content for generated files.
//
// Rules are checked in a fixed order and the first match wins: exact file
// names, then path fragments, then extensions, then a default that picks a
// comment style from the detected language.
package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/go-enry/go-enry/v2"
)

// Generator is written into every placeholder.
const Generator = "ProjectZipper"

// MatchKind says how a rule's pattern is compared against a path.
type MatchKind int

const (
	// MatchName compares the file's base name exactly.
	MatchName MatchKind = iota
	// MatchPath looks for the pattern anywhere in the slash-separated path.
	MatchPath
	// MatchSuffix compares the end of the base name, case-insensitively.
	MatchSuffix
)

func (k MatchKind) String() string {
	switch k {
	case MatchName:
		return "name"
	case MatchPath:
		return "path"
	case MatchSuffix:
		return "suffix"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// Data is what a template sees.
type Data struct {
	Name      string // base name, e.g. index.js
	Path      string // full entry path, e.g. project/src/index.js
	Root      string // project root name
	Dir       string // base name of the parent directory
	Language  string // language detected for the default template
	Comment   string // line comment marker for Language
	Package   string // Go package name derived from Dir
	Generator string
}

// Rule maps one pattern to a template.
type Rule struct {
	Kind     MatchKind
	Patterns []string
	tmpl     *template.Template
}

// Name identifies the rule in logs and tests.
func (r Rule) Name() string {
	return r.Kind.String() + ":" + strings.Join(r.Patterns, ",")
}

// Matches reports whether the rule applies to an entry path.
func (r Rule) Matches(entryPath string) bool {
	base := path.Base(entryPath)
	for _, p := range r.Patterns {
		switch r.Kind {
		case MatchName:
			if base == p {
				return true
			}
		case MatchPath:
			if strings.Contains(entryPath, p) {
				return true
			}
		case MatchSuffix:
			if strings.HasSuffix(strings.ToLower(base), p) {
				return true
			}
		}
	}
	return false
}

// Table is an ordered, read-only list of rules.
type Table struct {
	rules []Rule
}

// funcs are available to every template. json quotes a value as a JSON
// literal, for placeholders that must stay valid JSON.
var funcs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

func newRule(kind MatchKind, text string, patterns ...string) Rule {
	return Rule{
		Kind:     kind,
		Patterns: patterns,
		tmpl:     parse(kind.String()+":"+patterns[0], text),
	}
}

var defaultTable = &Table{rules: []Rule{
	newRule(MatchName, licenseTemplate, "LICENSE", "LICENSE.md", "LICENSE.txt"),
	newRule(MatchName, packageJSONTemplate, "package.json"),
	newRule(MatchName, ignoreTemplate, ".gitignore", ".npmignore", ".dockerignore"),
	newRule(MatchName, eslintTemplate, ".eslintrc.json", ".eslintrc"),
	newRule(MatchName, prettierTemplate, ".prettierrc", ".prettierrc.json"),
	newRule(MatchName, goModTemplate, "go.mod"),

	newRule(MatchPath, workflowTemplate, ".github/workflows/"),
	newRule(MatchPath, issueTemplate, ".github/ISSUE_TEMPLATE/"),

	newRule(MatchSuffix, dtsTemplate, ".d.ts"),
	newRule(MatchSuffix, jsTemplate, ".js", ".jsx", ".mjs", ".cjs"),
	newRule(MatchSuffix, pythonTemplate, ".py"),
	newRule(MatchSuffix, dartTemplate, ".dart"),
	newRule(MatchSuffix, goTemplate, ".go"),
	newRule(MatchSuffix, markdownTemplate, ".md", ".markdown"),
	newRule(MatchSuffix, jsonTemplate, ".json"),
	newRule(MatchSuffix, yamlTemplate, ".yml", ".yaml"),
}}

var (
	commentTemplate = parse("default:comment", commentDefaultTemplate)
	plainTemplate   = parse("default:plain", plainDefaultTemplate)
)

// Default returns the built-in rule table.
func Default() *Table {
	return defaultTable
}

// Rules returns a copy of the rules in evaluation order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Match returns the first rule that applies to entryPath.
func (t *Table) Match(entryPath string) (Rule, bool) {
	for _, r := range t.rules {
		if r.Matches(entryPath) {
			return r, true
		}
	}
	return Rule{}, false
}

// Render produces the placeholder content for a file entry.
func (t *Table) Render(entryPath, root string) ([]byte, error) {
	data := Data{
		Name:      path.Base(entryPath),
		Path:      entryPath,
		Root:      root,
		Dir:       path.Base(path.Dir(entryPath)),
		Generator: Generator,
	}
	data.Package = goPackage(data.Name, data.Dir)

	tmpl := plainTemplate
	if r, ok := t.Match(entryPath); ok {
		tmpl = r.tmpl
	} else if lang := DetectLanguage(data.Name); lang != "" {
		if marker, ok := lineComments[lang]; ok {
			data.Language = lang
			data.Comment = marker
			tmpl = commentTemplate
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", entryPath, err)
	}
	return buf.Bytes(), nil
}

// DetectLanguage guesses the language of a file from its name alone.
// Ambiguous extensions resolve to enry's first candidate.
func DetectLanguage(name string) string {
	if lang, ok := enry.GetLanguageByFilename(name); ok {
		return lang
	}
	lang, _ := enry.GetLanguageByExtension(name)
	return lang
}

// goPackage derives a package clause for a Go file: main for main.go,
// otherwise the parent directory reduced to a valid identifier.
func goPackage(name, dir string) string {
	if name == "main.go" {
		return "main"
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(dir) {
		if (r >= 'a' && r <= 'z') || r == '_' || (r >= '0' && r <= '9' && sb.Len() > 0) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "main"
	}
	return sb.String()
}

// lineComments maps enry language names to their line comment marker.
var lineComments = map[string]string{
	"C":          "//",
	"C#":         "//",
	"C++":        "//",
	"Go":         "//",
	"Java":       "//",
	"JavaScript": "//",
	"Kotlin":     "//",
	"Rust":       "//",
	"Scala":      "//",
	"Swift":      "//",
	"TypeScript": "//",
	"TSX":        "//",
	"PHP":        "//",
	"Dockerfile": "#",
	"Makefile":   "#",
	"Perl":       "#",
	"PowerShell": "#",
	"Python":     "#",
	"R":          "#",
	"Ruby":       "#",
	"Shell":      "#",
	"TOML":       "#",
	"INI":        ";",
	"Elixir":     "#",
	"Nix":        "#",
	"HCL":        "#",
	"Haskell":    "--",
	"Lua":        "--",
	"SQL":        "--",
	"PLpgSQL":    "--",
	"Clojure":    ";;",
	"Emacs Lisp": ";;",
	"Erlang":     "%",
	"TeX":        "%",
}
