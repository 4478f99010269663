package safety

import (
	"errors"
	"testing"
)

func TestCleanEntryPath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "project/src/index.js", want: "project/src/index.js"},
		{in: "project//src/./a.txt", want: "project/src/a.txt"},
		{in: "project/src/../b.txt", want: "project/b.txt"},
		{in: "a/../../etc/passwd", wantErr: true},
		{in: "..", wantErr: true},
		{in: ".", wantErr: true},
		{in: "/etc/passwd", wantErr: true},
		{in: "C:/Windows", wantErr: true},
		{in: `a\b`, wantErr: true},
		{in: "a\x00b", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := CleanEntryPath(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsafePath) {
				t.Errorf("CleanEntryPath(%q) error = %v, want ErrUnsafePath", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("CleanEntryPath(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanEntryPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := map[string]string{
		"valley-prayer-times": "valley-prayer-times",
		"my app":              "my-app",
		`we"ird;name`:         "we-ird-name",
		"..":                  "project",
		"":                    "project",
		"résumé":              "r-sum",
	}
	for in, want := range tests {
		if got := Filename(in); got != want {
			t.Errorf("Filename(%q) = %q, want %q", in, got, want)
		}
	}
}
