// Package filestore persists the local-mode board: one JSON document per
// category, written as <name>.txt inside a data directory. Tasks are stored
// as an opaque inline array; the server does not assign or police task
// identifiers in this mode.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskit/internal/domain"
)

// CategoryDoc is the on-disk document shape.
type CategoryDoc struct {
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
	Tasks  []any  `json:"tasks"`
}

// Store reads and writes category documents under a single directory.
type Store struct {
	dir string
}

// New creates the data directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store persists into.
func (s *Store) Dir() string {
	return s.dir
}

// ErrBadName rejects category names that would escape the data directory.
var ErrBadName = errors.New("invalid category name")

func (s *Store) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrBadName
	}
	return filepath.Join(s.dir, name+".txt"), nil
}

// Get returns the document for name, or domain.ErrNotFound.
func (s *Store) Get(name string) (*CategoryDoc, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var doc CategoryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	doc.Name = name
	if doc.Tasks == nil {
		doc.Tasks = []any{}
	}
	return &doc, nil
}

// Put creates or overwrites the document for name. The write goes through a
// temp file and a rename so readers never observe a partial document.
func (s *Store) Put(name string, doc CategoryDoc) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	doc.Name = name
	if doc.Tasks == nil {
		doc.Tasks = []any{}
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".category-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Delete removes the document for name, or reports domain.ErrNotFound.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// List returns every readable category document. Unparseable files are
// skipped, matching the tolerant listing of the original data directory.
func (s *Store) List() ([]CategoryDoc, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	docs := make([]CategoryDoc, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")
		doc, err := s.Get(name)
		if err != nil {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
