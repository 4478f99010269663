package types

import "time"

// Record is one decomposed diagram line: the cleaned name, its inferred
// depth and whether it looks like a directory.
type Record struct {
	Name  string `json:"name"`
	Depth int    `json:"depth"`
	IsDir bool   `json:"is_dir"`
	Line  int    `json:"line,omitempty"`
}

// Entry is a single path produced by the hierarchy builder
type Entry struct {
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Depth int    `json:"depth"`
}

// Hierarchy is the result of parsing one diagram
type Hierarchy struct {
	Root    string  `json:"root"`
	Entries []Entry `json:"entries"`
}

// Counts returns the number of directory and file entries.
func (h Hierarchy) Counts() (dirs, files int) {
	for _, e := range h.Entries {
		if e.IsDir {
			dirs++
		} else {
			files++
		}
	}
	return dirs, files
}

// Project is a stored diagram submission
type Project struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Diagram    string    `json:"diagram"`
	Format     string    `json:"format"`
	EntryCount int       `json:"entry_count"`
	DirCount   int       `json:"dir_count"`
	FileCount  int       `json:"file_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// VirtualItem represents an item in the virtual filesystem
type VirtualItem struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}
