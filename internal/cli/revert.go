package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"textpatch/config"
	"textpatch/internal/adapter/fs"
	"textpatch/internal/adapter/store"
	"textpatch/internal/usecase"
)

var revertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Restore the files changed by the last apply",
	Long: `Restore the original content of every file the most recent apply changed.
A file edited after the apply is left alone and reported as an error.`,
	Args: cobra.NoArgs,
	RunE: runRevert,
}

func init() {
	rootCmd.AddCommand(revertCmd)
}

func runRevert(cmd *cobra.Command, args []string) error {
	st, err := openHistory(GetRootDir())
	if err != nil {
		return err
	}
	defer st.Close()

	revertUC := usecase.NewRevertUseCase(fs.NewOSFileSystem(), st, logger)
	report, err := revertUC.Revert()
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	return err
}

func openHistory(root string) (*store.BoltStore, error) {
	dbPath := config.HistoryDBPath(root)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no history found at %s. Run 'textpatch apply' first", dbPath)
	}
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return st, nil
}
