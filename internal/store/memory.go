package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/rocket-sim-console/internal/rocket"
)

var (
	// ErrNotFound is returned when no run with the given ID is held.
	ErrNotFound = errors.New("run not found")
)

// MemoryStore is a concurrency-safe in-memory history of the runs submitted
// during this process' lifetime.
type MemoryStore struct {
	mu sync.RWMutex

	// runs ordered by submission, oldest first
	runs  []rocket.Run
	index map[string]int

	// retention configuration
	maxRuns int           // max number of runs kept
	maxAge  time.Duration // optional max age for runs

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxRuns is <= 0, it is treated as unlimited.
func NewMemoryStore(maxRuns int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		index:   make(map[string]int),
		maxRuns: maxRuns,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// WithClock sets the clock used for age retention on Save. It should be the
// clock that stamps SubmittedAt.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Save appends a run and enforces retention.
func (s *MemoryStore) Save(run rocket.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)

	// Enforce retention by count.
	if s.maxRuns > 0 && len(s.runs) > s.maxRuns {
		over := len(s.runs) - s.maxRuns
		s.runs = s.runs[over:]
	}

	s.pruneLocked(s.now())
}

// Prune drops runs older than the configured max age and returns how many
// were removed.
func (s *MemoryStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.runs)
	s.pruneLocked(now)
	return before - len(s.runs)
}

func (s *MemoryStore) pruneLocked(now time.Time) {
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		kept := s.runs[:0]
		for _, r := range s.runs {
			if !r.SubmittedAt.Before(cutoff) {
				kept = append(kept, r)
			}
		}
		clear(s.runs[len(kept):])
		s.runs = kept
	}
	s.reindexLocked()
}

func (s *MemoryStore) reindexLocked() {
	clear(s.index)
	for i, r := range s.runs {
		s.index[r.ID] = i
	}
}

// Get returns the run with the given ID.
func (s *MemoryStore) Get(id string) (rocket.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return rocket.Run{}, ErrNotFound
	}
	return s.runs[i], nil
}

// Latest returns up to limit runs, newest first. limit <= 0 returns all.
func (s *MemoryStore) Latest(limit int) []rocket.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.runs)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]rocket.Run, 0, n)
	for i := len(s.runs) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.runs[i])
	}
	return result
}

// Len reports how many runs are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
