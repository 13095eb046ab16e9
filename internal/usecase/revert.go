package usecase

import (
	"bytes"
	"errors"
	"fmt"

	"textpatch/internal/domain"
	"textpatch/internal/logging"
	"textpatch/internal/port"
)

var (
	ErrNothingToRevert    = errors.New("no run to revert")
	ErrModifiedSincePatch = errors.New("modified since patch")
)

// RevertUseCase restores the files changed by the most recent run.
type RevertUseCase struct {
	fs      port.FileSystem
	history port.HistoryStore
	log     *logging.Logger
}

func NewRevertUseCase(fs port.FileSystem, history port.HistoryStore, log *logging.Logger) *RevertUseCase {
	if log == nil {
		log = logging.Discard()
	}
	return &RevertUseCase{fs: fs, history: history, log: log}
}

// Revert restores every backup of the latest non-reverted run. A file is
// only overwritten while it still holds exactly what the run wrote; files
// already back at their original content are reported unchanged. The run is
// marked reverted even when some files fail.
func (u *RevertUseCase) Revert() (*domain.Report, error) {
	run, err := u.history.LatestRun()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if run == nil {
		return nil, ErrNothingToRevert
	}

	backups, err := u.history.GetBackups(run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups: %w", err)
	}

	log := u.log.WithRun(run.ID)
	report := &domain.Report{RunID: run.ID}
	for _, b := range backups {
		res := u.restore(b)
		report.Add(res)
		if res.Err != nil {
			log.Debug("revert failed", "path", b.Path, "error", res.Err)
		} else {
			log.Debug("file reverted", "path", b.Path, "outcome", res.Outcome)
		}
	}

	if err := u.history.MarkReverted(run.ID); err != nil {
		return report, fmt.Errorf("failed to mark run reverted: %w", err)
	}
	return report, nil
}

func (u *RevertUseCase) restore(b domain.Backup) domain.FileResult {
	res := domain.FileResult{Path: b.Path}

	current, mode, err := u.fs.ReadFile(b.Path)
	if err != nil {
		res.Outcome = domain.OutcomeFailed
		res.Err = err
		return res
	}

	if bytes.Equal(current, b.Original) {
		res.Outcome = domain.OutcomeUnchanged
		return res
	}
	if Checksum(current) != b.PatchedSum {
		res.Outcome = domain.OutcomeFailed
		res.Err = ErrModifiedSincePatch
		return res
	}

	if b.Mode != 0 {
		mode = b.Mode
	}
	if err := u.fs.WriteFile(b.Path, b.Original, mode); err != nil {
		res.Outcome = domain.OutcomeFailed
		res.Err = err
		return res
	}
	res.Outcome = domain.OutcomeReverted
	return res
}
