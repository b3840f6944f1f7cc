package main

import (
	"fmt"
	"path/filepath"

	"github.com/rohankatakam/funcrisk/internal/output"
	"github.com/rohankatakam/funcrisk/internal/risk"
	"github.com/spf13/cobra"
)

// reportFlags are shared by commands that print a Result.
type reportFlags struct {
	format  string
	diffDir string
	noDiffs bool
	failOn  string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: text, json, yaml or quiet (default from config)")
	cmd.Flags().StringVar(&f.diffDir, "diff-dir", "", "directory for per-function .diff files (default <output.directory>/diffs)")
	cmd.Flags().BoolVar(&f.noDiffs, "no-diffs", false, "do not write .diff files")
	cmd.Flags().StringVar(&f.failOn, "fail-on", "", "exit non-zero when the overall risk reaches this level")
}

// write renders result, writes diffs and applies --fail-on.
func (f *reportFlags) write(cmd *cobra.Command, result *output.Result, diffs bool) error {
	format := f.format
	if format == "" {
		format = cfg.Output.Format
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}
	if err := formatter.Format(result, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if diffs && cfg.Output.WriteDiffs && !f.noDiffs {
		dir := f.diffDir
		if dir == "" {
			dir = filepath.Join(cfg.Output.Directory, "diffs")
		}
		n, err := output.WriteDiffs(dir, result)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.WithField("dir", dir).WithField("files", n).Info("wrote function diffs")
		}
	}

	if f.failOn != "" {
		threshold, err := risk.ParseLevel(f.failOn)
		if err != nil {
			return err
		}
		if result.Risk >= threshold {
			return fmt.Errorf("overall risk %s reaches --fail-on %s", result.Risk, threshold)
		}
	}
	return nil
}
