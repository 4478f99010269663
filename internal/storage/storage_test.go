package storage

import (
	"errors"
	"testing"
	"time"

	"projectzipper/pkg/types"
)

func newProject(diagram string) *types.Project {
	return &types.Project{
		Root:       "project",
		Diagram:    diagram,
		Format:     "zip",
		EntryCount: 4,
		DirCount:   2,
		FileCount:  2,
	}
}

func TestPersistentStore_Projects(t *testing.T) {
	tempDir := t.TempDir()

	store, err := New(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	project := newProject("project/\n└── a.txt")

	err = store.SaveProject(project)
	if err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}

	if project.ID != ProjectID(project.Diagram) {
		t.Errorf("Expected ID %s, got %s", ProjectID(project.Diagram), project.ID)
	}
	if project.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	retrieved, err := store.GetProject(project.ID)
	if err != nil {
		t.Fatalf("Failed to get project: %v", err)
	}

	if retrieved.Diagram != project.Diagram {
		t.Errorf("Expected diagram %q, got %q", project.Diagram, retrieved.Diagram)
	}
	if retrieved.FileCount != 2 || retrieved.DirCount != 2 {
		t.Errorf("Counts not preserved: %+v", retrieved)
	}
	if !retrieved.CreatedAt.Equal(project.CreatedAt) {
		t.Errorf("Expected created at %v, got %v", project.CreatedAt, retrieved.CreatedAt)
	}
}

func TestPersistentStore_GetMissing(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	_, err = store.GetProject("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestPersistentStore_ListProjects(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	diagrams := []string{"a/", "b/", "c/"}
	for i, d := range diagrams {
		p := newProject(d)
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.SaveProject(p); err != nil {
			t.Fatalf("Failed to save project: %v", err)
		}
	}

	projects, err := store.ListProjects()
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}

	if len(projects) != len(diagrams) {
		t.Fatalf("Expected %d projects, got %d", len(diagrams), len(projects))
	}
	if projects[0].Diagram != "c/" || projects[2].Diagram != "a/" {
		t.Errorf("Expected newest first, got %s..%s", projects[0].Diagram, projects[2].Diagram)
	}

	count, err := store.CountProjects()
	if err != nil {
		t.Fatalf("Failed to count projects: %v", err)
	}
	if count != len(diagrams) {
		t.Errorf("Expected count %d, got %d", len(diagrams), count)
	}
}

func TestPersistentStore_DeleteProject(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	project := newProject("project/")
	if err := store.SaveProject(project); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}

	if err := store.DeleteProject(project.ID); err != nil {
		t.Fatalf("Failed to delete project: %v", err)
	}

	if _, err := store.GetProject(project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after deletion, got %v", err)
	}

	if err := store.DeleteProject(project.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestPersistentStore_Persistence(t *testing.T) {
	tempDir := t.TempDir()

	store1, err := New(tempDir)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	project := newProject("persistent/\n└── file.txt")
	if err := store1.SaveProject(project); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}

	store1.Close()

	store2, err := New(tempDir)
	if err != nil {
		t.Fatalf("Failed to create second store: %v", err)
	}
	defer store2.Close()

	retrieved, err := store2.GetProject(project.ID)
	if err != nil {
		t.Fatalf("Failed to get project from new store: %v", err)
	}

	if retrieved.Diagram != project.Diagram {
		t.Errorf("Persisted data doesn't match: expected %+v, got %+v", project, retrieved)
	}
}

func TestPersistentStore_InMemory(t *testing.T) {
	store, err := New("")
	if err != nil {
		t.Fatalf("Failed to create in-memory store: %v", err)
	}
	defer store.Close()

	if err := store.SaveProject(newProject("mem/")); err != nil {
		t.Fatalf("Failed to save project: %v", err)
	}
	if err := store.RunGarbageCollection(); err != nil {
		t.Errorf("Garbage collection should be a no-op in memory: %v", err)
	}
}

func TestProjectID(t *testing.T) {
	a := ProjectID("project/\n└── a.txt")
	b := ProjectID("project/\r\n└── a.txt\r\n  ")
	c := ProjectID("project/\n└── b.txt")

	if a != b {
		t.Errorf("Expected line endings and trailing space to be ignored: %s != %s", a, b)
	}
	if a == c {
		t.Error("Expected different diagrams to get different IDs")
	}
	if len(a) != 16 {
		t.Errorf("Expected 16 hex characters, got %q", a)
	}
}
