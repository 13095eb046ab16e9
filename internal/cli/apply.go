package cli

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"textpatch/config"
	"textpatch/internal/adapter/fs"
	"textpatch/internal/adapter/memstore"
	"textpatch/internal/adapter/store"
	"textpatch/internal/adapter/textenc"
	"textpatch/internal/domain"
	"textpatch/internal/port"
	"textpatch/internal/usecase"
)

var (
	applyFrom      string
	applyTo        string
	applyIncludes  []string
	applyDryRun    bool
	applyProgress  bool
	applyHistory   bool
	applyNoHistory bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [paths...]",
	Short: "Apply substitution rules to files",
	Long: `Apply the configured substitution rules to every target file.

Targets are the paths given as arguments and in patch.files, followed by
files under the root directory matching patch.includes (or --include) and
no patch.excludes pattern. Each file prints one line:

  Updated <path>
  No changes in <path>
  Error processing <path>: <error>

Examples:
  textpatch apply core/GpuTableEditor.java core/TableIO.java
  textpatch apply --include '**/*.java' --from ChipInfo.type. --to ChipInfo.Type.`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applyFrom, "from", "", "source text (replaces configured rules, requires --to)")
	applyCmd.Flags().StringVar(&applyTo, "to", "", "target text")
	applyCmd.Flags().StringArrayVar(&applyIncludes, "include", nil, "glob of files to patch, relative to the root directory (repeatable)")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "report what would change without writing")
	applyCmd.Flags().BoolVar(&applyProgress, "progress", false, "show a progress bar on stderr")
	applyCmd.Flags().BoolVar(&applyHistory, "history", false, "record backups for revert in .textpatch/history.db")
	applyCmd.Flags().BoolVar(&applyNoHistory, "no-history", false, "do not record backups, even if history.enabled is set")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := GetRootDir()

	rules, err := rulesFromFlags(cmd, cfg)
	if err != nil {
		return err
	}
	if err := domain.ValidateRules(rules); err != nil {
		return fmt.Errorf("invalid rules: %w", err)
	}

	includes := append(append([]string{}, cfg.Patch.Includes...), applyIncludes...)
	if err := fs.ValidatePatterns(includes); err != nil {
		return err
	}
	if err := fs.ValidatePatterns(cfg.Patch.Excludes); err != nil {
		return err
	}

	explicit := append(append([]string{}, cfg.Patch.Files...), args...)
	targets, err := fs.SelectTargets(root, explicit, fs.NewWalker(includes, cfg.Patch.Excludes))
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no files to patch: pass paths, set patch.files, or use --include")
	}

	codec, err := textenc.New(cfg.Patch.Encoding)
	if err != nil {
		return err
	}

	var history port.HistoryStore
	record := (cfg.History.Enabled || applyHistory) && !applyNoHistory && !applyDryRun
	if record {
		history = openApplyHistory(root)
		defer history.Close()
	}

	logger.Debug("starting apply", "files", len(targets), "rules", len(rules), "encoding", codec.Name(), "dry_run", applyDryRun)

	patchUC := usecase.NewPatchUseCase(fs.NewOSFileSystem(), codec, history, logger)
	opts := usecase.PatchOptions{
		DryRun: applyDryRun,
		Record: record,
	}
	if applyProgress {
		opts.Progress = newProgress("Patching")
	}

	report, err := patchUC.Patch(targets, rules, opts)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)

	logger.Info("apply finished",
		"updated", report.Count(domain.OutcomeUpdated),
		"unchanged", report.Count(domain.OutcomeUnchanged),
		"failed", report.Count(domain.OutcomeFailed),
	)
	return nil
}

// openApplyHistory opens the history database under root. History never
// blocks patching: when the database is unusable the run is kept in memory
// only and cannot be reverted later.
func openApplyHistory(root string) port.HistoryStore {
	if err := config.EnsureStateDir(root); err != nil {
		logger.Warn("history disabled for this run", "error", err)
		return memstore.NewMemoryStore()
	}
	st, err := store.NewBoltStore(config.HistoryDBPath(root))
	if err != nil {
		logger.Warn("history disabled for this run", "error", err)
		return memstore.NewMemoryStore()
	}
	return st
}

// rulesFromFlags lets --from/--to replace the configured rules for one run.
func rulesFromFlags(cmd *cobra.Command, cfg *config.Config) ([]domain.Rule, error) {
	fromSet := cmd.Flags().Changed("from")
	toSet := cmd.Flags().Changed("to")
	if fromSet != toSet {
		return nil, errors.New("--from and --to must be used together")
	}
	if fromSet {
		return []domain.Rule{{From: applyFrom, To: applyTo}}, nil
	}

	rules := make([]domain.Rule, len(cfg.Patch.Rules))
	for i, r := range cfg.Patch.Rules {
		rules[i] = domain.Rule{From: r.From, To: r.To}
	}
	return rules, nil
}

// newProgress returns a callback drawing a progress bar on stderr, created
// lazily once the total is known.
func newProgress(label string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]"+label+"[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		bar.Set(processed)
	}
}
