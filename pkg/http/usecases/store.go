package usecases

import (
	"sync"

	"github.com/fleetroute/fleetroute/pkg/vrptw"
	"github.com/google/uuid"
)

// SolutionStore keeps solved instances in memory so the JSON, GeoJSON and
// map views of a solution can be fetched after the solve request returns.
// Bounded, oldest entry evicted first. Not durable on purpose.
type SolutionStore struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*vrptw.Summary
	order      []string
}

func NewSolutionStore(maxEntries int) *SolutionStore {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &SolutionStore{
		maxEntries: maxEntries,
		entries:    make(map[string]*vrptw.Summary),
	}
}

func (s *SolutionStore) Put(summary *vrptw.Summary) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.order) >= s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}

	id := uuid.NewString()
	s.entries[id] = summary
	s.order = append(s.order, id)
	return id
}

func (s *SolutionStore) Get(id string) (*vrptw.Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, ok := s.entries[id]
	return summary, ok
}

func (s *SolutionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
