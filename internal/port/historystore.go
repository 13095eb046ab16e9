package port

import "textpatch/internal/domain"

// HistoryStore persists runs and the original content of files they changed.
type HistoryStore interface {
	PutBackup(runID string, backup domain.Backup) error

	GetBackups(runID string) ([]domain.Backup, error)

	PutRun(run domain.Run) error

	// LatestRun returns the newest run that has not been reverted, or nil.
	LatestRun() (*domain.Run, error)

	// ListRuns returns runs newest first.
	ListRuns() ([]domain.Run, error)

	MarkReverted(runID string) error

	// DeleteRun removes a run together with its backups.
	DeleteRun(runID string) error

	Close() error
}
