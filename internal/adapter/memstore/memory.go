package memstore

import (
	"fmt"
	"sort"
	"sync"

	"textpatch/internal/domain"
)

// MemoryStore is a HistoryStore that lives for one process. apply falls back
// to it when the history database cannot be opened.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[string]domain.Run
	backups map[string][]domain.Backup
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]domain.Run),
		backups: make(map[string][]domain.Backup),
	}
}

func (s *MemoryStore) PutBackup(runID string, backup domain.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	backup.Original = append([]byte{}, backup.Original...)
	s.backups[runID] = append(s.backups[runID], backup)
	return nil
}

func (s *MemoryStore) GetBackups(runID string) ([]domain.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Backup, len(s.backups[runID]))
	copy(out, s.backups[runID])
	return out, nil
}

func (s *MemoryStore) PutRun(run domain.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) LatestRun() (*domain.Run, error) {
	runs, _ := s.ListRuns()
	for _, run := range runs {
		if !run.Reverted {
			return &run, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListRuns() ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ID > runs[j].ID
	})
	return runs, nil
}

func (s *MemoryStore) MarkReverted(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	run.Reverted = true
	s.runs[runID] = run
	return nil
}

func (s *MemoryStore) DeleteRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	delete(s.backups, runID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
