package poller

import (
	"context"
	"sync"

	"github.com/reelkithq/reelkit/pkg/domain"
)

// ProjectLister is the slice of the API client the store needs.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// Store holds the latest full project snapshot. Loads replace the contents
// wholesale; there is no merging of individual records. A failed load leaves
// the previous snapshot untouched.
type Store struct {
	api ProjectLister

	mu       sync.RWMutex
	projects []domain.Project
	loaded   bool
}

// NewStore creates an empty store backed by the given API client.
func NewStore(api ProjectLister) *Store {
	return &Store{api: api}
}

// Load fetches the full project list and replaces the snapshot. On error the
// store keeps whatever it held before, so stale-but-valid data stays visible.
func (s *Store) Load(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.api.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	s.replace(projects)
	return cloneProjects(projects), nil
}

func (s *Store) replace(projects []domain.Project) {
	s.mu.Lock()
	s.projects = projects
	s.loaded = true
	s.mu.Unlock()
}

// Projects returns a copy of the current snapshot.
func (s *Store) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjects(s.projects)
}

// Loaded reports whether at least one load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// AnyInFlight reports whether the current snapshot contains any project with
// an unfinished render.
func (s *Store) AnyInFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.AnyInFlight(s.projects)
}

func cloneProjects(in []domain.Project) []domain.Project {
	if in == nil {
		return nil
	}
	out := make([]domain.Project, len(in))
	copy(out, in)
	return out
}
