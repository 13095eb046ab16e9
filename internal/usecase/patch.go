package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"textpatch/internal/domain"
	"textpatch/internal/logging"
	"textpatch/internal/port"
)

// ProgressFunc is called after each file with the number processed so far.
type ProgressFunc func(processed, total int, currentFile string)

// PatchOptions tunes a single Patch call.
type PatchOptions struct {
	DryRun   bool
	Record   bool
	Progress ProgressFunc
}

// PatchUseCase applies literal substitution rules to a list of files.
type PatchUseCase struct {
	fs      port.FileSystem
	codec   port.TextCodec
	history port.HistoryStore
	log     *logging.Logger
	now     func() time.Time
}

// NewPatchUseCase creates a new patch use case.
func NewPatchUseCase(
	fs port.FileSystem,
	codec port.TextCodec,
	history port.HistoryStore,
	log *logging.Logger,
) *PatchUseCase {
	if log == nil {
		log = logging.Discard()
	}
	return &PatchUseCase{
		fs:      fs,
		codec:   codec,
		history: history,
		log:     log,
		now:     time.Now,
	}
}

// Patch processes targets in order. A failure on one file is recorded in the
// report and never stops the remaining files; only invalid rules or a failure
// to start a history run return an error.
func (u *PatchUseCase) Patch(targets []domain.Target, rules []domain.Rule, opts PatchOptions) (*domain.Report, error) {
	if err := domain.ValidateRules(rules); err != nil {
		return nil, err
	}

	report := &domain.Report{DryRun: opts.DryRun}
	record := opts.Record && !opts.DryRun && u.history != nil

	var rec *runRecorder
	log := u.log
	if record {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate run id: %w", err)
		}
		rec = &runRecorder{history: u.history, run: domain.Run{
			ID:        id.String(),
			StartedAt: u.now().UTC(),
			Rules:     rules,
		}}
		log = log.WithRun(rec.run.ID)
	}

	for i, target := range targets {
		res := u.patchFile(target, rules, opts.DryRun, rec)
		report.Add(res)

		if res.Err != nil {
			log.Debug("file failed", "path", target.Path, "error", res.Err)
		} else {
			log.Debug("file processed", "path", target.Path, "outcome", res.Outcome, "replacements", res.Replacements)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(targets), target.Name)
		}
	}

	if rec != nil {
		if err := rec.finish(); err != nil {
			log.Error("failed to record run", "error", err)
		}
		if len(rec.run.Files) > 0 {
			report.RunID = rec.run.ID
		}
	}

	return report, nil
}

// runRecorder registers a run before its first backup so revert can find
// backups from a batch that never finished, and drops the run again when
// no file ended up written.
type runRecorder struct {
	history    port.HistoryStore
	run        domain.Run
	registered bool
}

func (r *runRecorder) backup(b domain.Backup) error {
	if !r.registered {
		if err := r.history.PutRun(r.run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		r.registered = true
	}
	if err := r.history.PutBackup(r.run.ID, b); err != nil {
		return fmt.Errorf("failed to back up original: %w", err)
	}
	return nil
}

func (r *runRecorder) written(path string) {
	r.run.Files = append(r.run.Files, path)
}

func (r *runRecorder) finish() error {
	if !r.registered {
		return nil
	}
	if len(r.run.Files) == 0 {
		return r.history.DeleteRun(r.run.ID)
	}
	return r.history.PutRun(r.run)
}

func (u *PatchUseCase) patchFile(target domain.Target, rules []domain.Rule, dryRun bool, rec *runRecorder) domain.FileResult {
	res := domain.FileResult{Path: target.Name}
	fail := func(err error) domain.FileResult {
		res.Outcome = domain.OutcomeFailed
		res.Err = err
		return res
	}

	raw, mode, err := u.fs.ReadFile(target.Path)
	if err != nil {
		return fail(err)
	}

	text, err := u.codec.Decode(raw)
	if err != nil {
		return fail(err)
	}

	patched, n := domain.ApplyRules(text, rules)
	if patched == text {
		res.Outcome = domain.OutcomeUnchanged
		return res
	}
	res.Replacements = n

	out, err := u.codec.Encode(patched)
	if err != nil {
		return fail(err)
	}

	if dryRun {
		res.Outcome = domain.OutcomeUpdated
		return res
	}

	if rec != nil {
		err := rec.backup(domain.Backup{
			Path:       target.Path,
			Original:   raw,
			Mode:       mode,
			PatchedSum: Checksum(out),
		})
		if err != nil {
			return fail(err)
		}
	}

	if err := u.fs.WriteFile(target.Path, out, mode); err != nil {
		return fail(err)
	}

	if rec != nil {
		rec.written(target.Path)
	}
	res.Outcome = domain.OutcomeUpdated
	return res
}

// Checksum is the hex sha256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
