package jobs

import (
	"context"
	"sync"
	"time"
)

// ProgressState describes where a tracked job stands.
type ProgressState string

const (
	ProgressRunning   ProgressState = "RUNNING"
	ProgressCompleted ProgressState = "COMPLETED"
	ProgressFailed    ProgressState = "FAILED"
)

// Progress is a point-in-time snapshot of a tracked job, polled by clients.
type Progress struct {
	JobID     string        `json:"job_id"`
	Type      string        `json:"type"`
	State     ProgressState `json:"state"`
	Total     int           `json:"total"`
	Done      int           `json:"done"`
	Failed    int           `json:"failed"`
	Message   string        `json:"message,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ProgressStore tracks long-running job progress in memory. Entries expire a
// fixed interval after their last update so the map cannot grow unbounded.
type ProgressStore struct {
	mu      sync.RWMutex
	entries map[string]Progress
	ttl     time.Duration
}

// NewProgressStore builds a store evicting entries ttl after last update.
func NewProgressStore(ttl time.Duration) *ProgressStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ProgressStore{
		entries: make(map[string]Progress),
		ttl:     ttl,
	}
}

// Begin registers a new running job and returns its initial snapshot.
func (s *ProgressStore) Begin(jobID, jobType string, total int) Progress {
	now := time.Now().UTC()
	p := Progress{
		JobID:     jobID,
		Type:      jobType,
		State:     ProgressRunning,
		Total:     total,
		StartedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.entries[jobID] = p
	s.mu.Unlock()
	return p
}

// Step records one unit of work, failed or not.
func (s *ProgressStore) Step(jobID string, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[jobID]
	if !ok {
		return
	}
	if failed {
		p.Failed++
	} else {
		p.Done++
	}
	p.UpdatedAt = time.Now().UTC()
	s.entries[jobID] = p
}

// Finish marks the job terminal with an optional message.
func (s *ProgressStore) Finish(jobID string, state ProgressState, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[jobID]
	if !ok {
		return
	}
	p.State = state
	p.Message = message
	p.UpdatedAt = time.Now().UTC()
	s.entries[jobID] = p
}

// Get returns the snapshot for a job id.
func (s *ProgressStore) Get(jobID string) (Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.entries[jobID]
	return p, ok
}

// Sweep removes entries whose last update is older than the TTL and returns
// how many were evicted.
func (s *ProgressStore) Sweep() int {
	cutoff := time.Now().UTC().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, p := range s.entries {
		if p.UpdatedAt.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (s *ProgressStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}
