package templates

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Match(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"project/LICENSE.md", "name:LICENSE,LICENSE.md,LICENSE.txt", true},
		{"project/package.json", "name:package.json", true},
		{"project/.gitignore", "name:.gitignore,.npmignore,.dockerignore", true},
		{"project/.github/workflows/ci.yml", "path:.github/workflows/", true},
		{"project/.github/ISSUE_TEMPLATE/bug.md", "path:.github/ISSUE_TEMPLATE/", true},
		{"project/types/index.d.ts", "suffix:.d.ts", true},
		{"project/src/index.js", "suffix:.js,.jsx,.mjs,.cjs", true},
		{"project/src/App.JSX", "suffix:.js,.jsx,.mjs,.cjs", true},
		{"project/app.py", "suffix:.py", true},
		{"project/README.md", "suffix:.md,.markdown", true},
		{"project/tsconfig.json", "suffix:.json", true},
		{"project/config.yaml", "suffix:.yml,.yaml", true},
		{"project/lib/app.rb", "", false},
		{"project/notes.txt", "", false},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, ok := table.Match(tt.path)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, r.Name())
			}
		})
	}
}

func TestTable_FirstMatchWins(t *testing.T) {
	table := Default()

	// package.json is both an exact name and a .json suffix
	r, ok := table.Match("project/package.json")
	require.True(t, ok)
	assert.Equal(t, MatchName, r.Kind)

	// a workflow file is both a path fragment and a .yml suffix
	r, ok = table.Match("project/.github/workflows/release.yml")
	require.True(t, ok)
	assert.Equal(t, MatchPath, r.Kind)

	rules := table.Rules()
	require.NotEmpty(t, rules)
	for i := 1; i < len(rules); i++ {
		assert.LessOrEqual(t, rules[i-1].Kind, rules[i].Kind, "rules must be ordered name, path, suffix")
	}
}

func TestTable_RulesIsCopy(t *testing.T) {
	table := Default()
	rules := table.Rules()
	rules[0] = Rule{}
	assert.NotEqual(t, Rule{}, table.Rules()[0])
}

func TestRender(t *testing.T) {
	table := Default()

	tests := []struct {
		path     string
		root     string
		contains []string
	}{
		{"shop/package.json", "shop", []string{`"name": "shop"`}},
		{"shop/src/index.js", "shop", []string{"// index.js", "module.exports"}},
		{"shop/app/main.py", "shop", []string{"# main.py", `print("Hello from main.py")`}},
		{"shop/lib/main.dart", "shop", []string{"void main()"}},
		{"shop/README.md", "shop", []string{"# README.md", "generated by ProjectZipper"}},
		{"shop/.github/workflows/ci.yml", "shop", []string{"name: ci.yml", "actions/checkout"}},
		{"shop/internal/store/store.go", "shop", []string{"package store"}},
		{"shop/cmd/shop/main.go", "shop", []string{"package main"}},
		{"shop/my-pkg/util.go", "shop", []string{"package mypkg"}},
		{"shop/go.mod", "shop", []string{"module shop"}},
		{"shop/lib/app.rb", "shop", []string{"# app.rb", "(Ruby)"}},
		{"shop/Dockerfile", "shop", []string{"# Dockerfile", "(Dockerfile)"}},
		{"shop/notes.txt", "shop", []string{"File: shop/notes.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := table.Render(tt.path, tt.root)
			require.NoError(t, err)
			require.NotEmpty(t, out)
			for _, want := range tt.contains {
				assert.Contains(t, string(out), want)
			}
			assert.Contains(t, string(out), Generator)
		})
	}
}

func TestRender_NonEmptyForEverything(t *testing.T) {
	names := []string{"a", "b.unknownext", ".hidden", "x.tar.gz", "Makefile.am"}
	for _, n := range names {
		out, err := Default().Render("p/"+n, "p")
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(string(out)), n)
	}
}

func TestGoPackage(t *testing.T) {
	tests := []struct {
		name, dir, want string
	}{
		{"main.go", "server", "main"},
		{"server.go", "server", "server"},
		{"x.go", "Web-App", "webapp"},
		{"x.go", "2fa", "fa"},
		{"x.go", "---", "main"},
		{"x.go", "v2", "v2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, goPackage(tt.name, tt.dir), "%s in %s", tt.name, tt.dir)
	}
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "Go", DetectLanguage("main.go"))
	assert.Equal(t, "Python", DetectLanguage("app.py"))
	assert.Equal(t, "", DetectLanguage("file.zzzunknown"))
}

func TestRender_JSONPlaceholdersStayValid(t *testing.T) {
	root := `we"ird\app`
	for _, p := range []string{root + "/package.json", root + `/conf/"quoted".json`} {
		out, err := Default().Render(p, root)
		require.NoError(t, err)
		require.True(t, json.Valid(out), "invalid JSON for %s:\n%s", p, out)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out, &doc))
		if strings.HasSuffix(p, "package.json") {
			assert.Equal(t, root, doc["name"])
		} else {
			assert.Equal(t, `"quoted".json`, doc["file"])
		}
	}
}
