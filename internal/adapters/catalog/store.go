// Package catalog loads the project-info snapshot that backs similarity
// search. The snapshot is a JSON dump of project descriptions; it is read
// once at startup and served read-only; calling Load again replaces the
// snapshot for operational refresh.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pja-project/mlapi/internal/domain/search"
)

// entry mirrors one record of the project-info dump.
type entry struct {
	WorkspaceID    int64 `json:"workspaceId"`
	ProblemSolving struct {
		SolutionIdea string `json:"solutionIdea"`
	} `json:"problemSolving"`
	TechnologyStack []string `json:"technologyStack"`
}

// Store serves the loaded project snapshot.
type Store struct {
	mu       sync.RWMutex
	path     string
	projects []search.Project
	loaded   bool
}

// NewStore creates a store reading from path. Call Load before use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and parses the snapshot file, replacing any previous content.
func (s *Store) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadCatalog, s.path, err)
	}

	projects := make([]search.Project, 0, len(entries))
	for _, e := range entries {
		projects = append(projects, search.Project{
			WorkspaceID: e.WorkspaceID,
			Subject:     e.ProblemSolving.SolutionIdea,
			Stack:       e.TechnologyStack,
		})
	}

	s.mu.Lock()
	s.projects = projects
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Projects returns the current snapshot. The slice must not be mutated by
// callers.
func (s *Store) Projects(_ context.Context) ([]search.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	return s.projects, nil
}

// Count reports the number of loaded projects, for metrics and stats.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}
