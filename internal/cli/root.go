package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"textpatch/config"
	"textpatch/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "textpatch",
	Short: "Batch literal text substitution across a list of files",
	Long: `textpatch replaces every literal occurrence of a source string with a
target string in each listed file, rewriting a file only when its content
changes. Every file is processed on its own: a failure is reported and the
remaining files are still patched.

Example usage:
  textpatch apply src/Foo.java src/Bar.java       # Use rules from textpatch.yaml
  textpatch apply --from old. --to New. a.txt     # One-off rule
  textpatch apply --include '**/*.java' --dry-run # Preview matching files
  textpatch revert                                # Undo the last apply`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger = logging.NewLogger(cfg.Logging.Level).WithCommand(cmd.Name())
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./textpatch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
