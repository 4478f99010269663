package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"projectzipper/pkg/types"
)

var ErrNotFound = errors.New("project not found")

const projectPrefix = "project:"

type PersistentStore struct {
	db *badger.DB
}

// New opens the badger database in dataDir. An empty dataDir keeps
// everything in memory.
func New(dataDir string) (*PersistentStore, error) {
	opts := badger.DefaultOptions(dataDir)
	if dataDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable BadgerDB logging

	var db *badger.DB
	err := retry.Do(
		func() error {
			var err error
			db, err = badger.Open(opts)
			return err
		},
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isLockError),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return &PersistentStore{
		db: db,
	}, nil
}

// isLockError matches badger's directory lock failure, which clears once a
// previous process has shut down.
func isLockError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "directory lock")
}

func (s *PersistentStore) Close() error {
	return s.db.Close()
}

// ProjectID derives a stable identifier from diagram text. Line endings and
// surrounding whitespace do not change the ID.
func ProjectID(diagram string) string {
	normalized := strings.TrimSpace(strings.ReplaceAll(diagram, "\r\n", "\n"))
	return fmt.Sprintf("%016x", xxhash.Sum64String(normalized))
}

func projectKey(id string) []byte {
	return []byte(projectPrefix + id)
}

// SaveProject stores p, filling in ID and CreatedAt when they are empty.
func (s *PersistentStore) SaveProject(p *types.Project) error {
	if p.ID == "" {
		p.ID = ProjectID(p.Diagram)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(projectKey(p.ID), data)
	})
}

func (s *PersistentStore) GetProject(id string) (*types.Project, error) {
	var project *types.Project

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(projectKey(id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			project = &types.Project{}
			return json.Unmarshal(val, project)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project. Deleting a missing project returns ErrNotFound.
func (s *PersistentStore) DeleteProject(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(projectKey(id)); err != nil {
			return err
		}
		return txn.Delete(projectKey(id))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListProjects returns every stored project, newest first.
func (s *PersistentStore) ListProjects() ([]types.Project, error) {
	var projects []types.Project

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := txn.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(projectPrefix)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				var p types.Project
				if err := json.Unmarshal(val, &p); err != nil {
					return err
				}
				projects = append(projects, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (s *PersistentStore) CountProjects() (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // We only need to count, not read values
		iter := txn.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(projectPrefix)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return count, nil
}

// RunGarbageCollection reclaims value log space. badger.ErrNoRewrite means
// there was nothing to collect and is not reported.
func (s *PersistentStore) RunGarbageCollection() error {
	err := s.db.RunValueLogGC(0.5)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}
