package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a repository is not registered
	ErrNotFound = errors.New("repository not found")
)

// Repo represents a registered repository
type Repo struct {
	ID        string    `json:"repo_id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	IndexedAt time.Time `json:"indexed_at"`
	FileCount int       `json:"file_count"`
}

// Registry tracks indexed repositories in a JSON file
type Registry struct {
	path string
	mu   sync.Mutex
}

// New creates a Registry backed by the given JSON file. The file is created
// on first write; a missing file reads as an empty registry.
func New(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}
	return &Registry{path: path}, nil
}

// Add registers a new repository and returns its record
func (r *Registry) Add(name, path string, fileCount int) (*Repo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repos, err := r.load()
	if err != nil {
		return nil, err
	}

	repo := &Repo{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		IndexedAt: time.Now().UTC(),
		FileCount: fileCount,
	}
	repos = append(repos, *repo)

	if err := r.save(repos); err != nil {
		return nil, err
	}
	return repo, nil
}

// List returns all registered repositories
func (r *Registry) List() ([]Repo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// GetByID returns the repository with the given ID
func (r *Registry) GetByID(id string) (*Repo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repos, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range repos {
		if repos[i].ID == id {
			return &repos[i], nil
		}
	}
	return nil, ErrNotFound
}

// GetByPath returns the repository registered at the given path
func (r *Registry) GetByPath(path string) (*Repo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repos, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range repos {
		if repos[i].Path == path {
			return &repos[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update refreshes a repository's indexed-at timestamp and file count
func (r *Registry) Update(id string, fileCount int) (*Repo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repos, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range repos {
		if repos[i].ID == id {
			repos[i].IndexedAt = time.Now().UTC()
			repos[i].FileCount = fileCount
			if err := r.save(repos); err != nil {
				return nil, err
			}
			return &repos[i], nil
		}
	}
	return nil, ErrNotFound
}

// Remove deletes a repository from the registry
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	repos, err := r.load()
	if err != nil {
		return err
	}

	kept := repos[:0]
	for _, repo := range repos {
		if repo.ID != id {
			kept = append(kept, repo)
		}
	}
	if len(kept) == len(repos) {
		return ErrNotFound
	}
	return r.save(kept)
}

// load reads the registry file. Caller must hold the mutex.
func (r *Registry) load() ([]Repo, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []Repo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var repos []Repo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return repos, nil
}

// save writes the registry file atomically. Caller must hold the mutex.
func (r *Registry) save(repos []Repo) error {
	data, err := json.MarshalIndent(repos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace registry: %w", err)
	}
	return nil
}
