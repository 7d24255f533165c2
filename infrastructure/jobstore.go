package infrastructure

import (
	"sort"
	"sync"

	"resume-screener/domain"
)

// InMemoryJobStore keeps job records in a plain map behind a single mutex.
// Keys come and go dynamically, so the whole store is guarded rather than
// individual entries.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.JobRecord
}

func NewInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{jobs: make(map[string]domain.JobRecord)}
}

// Create inserts a queued record for the given job id.
func (s *InMemoryJobStore) Create(id, filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = domain.JobRecord{ID: id, Filename: filename, Progress: 0, Message: "queued"}
}

// Update overwrites progress and message, and the result when one is given.
// Updates to unknown ids are ignored.
func (s *InMemoryJobStore) Update(id string, progress int, message string, result *domain.ScreeningResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok {
		return
	}
	rec.Progress = progress
	rec.Message = message
	if result != nil {
		rec.Result = result
	}
	s.jobs[id] = rec
}

// Get returns a copy of the record, so pollers never observe a half-applied
// update.
func (s *InMemoryJobStore) Get(id string) (domain.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.jobs[id]
	if !ok {
		return domain.JobRecord{}, domain.ErrJobNotFound
	}
	return rec, nil
}

// List returns all records, finished jobs first ordered by score descending.
func (s *InMemoryJobStore) List() []domain.JobRecord {
	s.mu.RLock()
	out := make([]domain.JobRecord, 0, len(s.jobs))
	for _, rec := range s.jobs {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		si, sj := listRank(out[i]), listRank(out[j])
		if si != sj {
			return si > sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// listRank orders finished jobs by score; unfinished ones sort last.
func listRank(rec domain.JobRecord) int {
	if !rec.Terminal() || rec.Result == nil {
		return -1
	}
	return rec.Result.Score
}
