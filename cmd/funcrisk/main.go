package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/config"
	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/logging"
	"github.com/rohankatakam/funcrisk/internal/normalize"
	"github.com/rohankatakam/funcrisk/internal/risk"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logging.Logger
	cfg     *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if verbose {
			fmt.Fprint(os.Stderr, errors.Describe(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		// configuration and storage failures exit 2
		if errors.IsFatal(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "funcrisk",
	Short: "funcrisk - function-level change risk for C code",
	Long: `funcrisk locates C functions lexically, diffs two versions of each and
classifies the change as Low, Medium, High or Severe review priority.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		result := cfg.Validate()

		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		if verbose {
			level = logrus.DebugLevel
		}
		logger, err = logging.New(logging.Config{
			Level:      level,
			OutputFile: cfg.Logging.File,
			JSONFormat: cfg.Logging.JSON,
			Console:    cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		if path := logger.FilePath(); path != "" {
			logger.WithField("file", path).Debug("logging to file")
		}

		for _, w := range result.Warnings {
			logger.Warn(w)
		}
		return result.Err()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .funcrisk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`funcrisk {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
}

// newAnalyzer builds an Analyzer from the loaded configuration.
func newAnalyzer(workers int) (*analyzer.Analyzer, error) {
	policy, err := normalize.ParseScopePolicy(cfg.Analysis.ScopePolicy)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = cfg.Analysis.Workers
	}
	return analyzer.New(analyzer.Options{
		Normalize: normalize.Options{TabWidth: cfg.Analysis.TabWidth, Policy: policy},
		Policy:    risk.Policy{AddedParamsBreak: cfg.Analysis.AddedParamsBreak},
		Workers:   workers,
	}, logger), nil
}
