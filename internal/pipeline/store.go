package pipeline

import "sync"

// Store holds submitted jobs by ID, plus a pointer to the most recent
// submission so single-job callers can poll without tracking an ID.
// Jobs live in memory only; nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	jobs   map[string]*Job
	lastID string
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Add registers a job and makes it the latest.
func (s *Store) Add(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	s.lastID = job.ID
}

// Get returns the job with the given ID.
func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Latest returns the most recently submitted job.
func (s *Store) Latest() (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastID == "" {
		return nil, false
	}
	job, ok := s.jobs[s.lastID]
	return job, ok
}
