package main

import (
	"fmt"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/output"
	"github.com/rohankatakam/funcrisk/internal/storage"
	"github.com/spf13/cobra"
)

var (
	showLimit int
	showFlags reportFlags
)

var showCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show stored runs",
	Long: `Without arguments, list the most recent runs. With a run id, print the
stored report of that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 20, "number of runs to list")
	showFlags.register(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.Storage.Type == "none" {
		return errors.ConfigErrorf("storage is disabled in the configuration")
	}
	store, err := storage.Open(cfg.Storage.Type, cfg.Storage.LocalPath, cfg.Storage.PostgresDSN, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) == 0 {
		runs, err := store.ListRuns(ctx, showLimit)
		if err != nil {
			return err
		}
		return output.WriteRuns(runs, cmd.OutOrStdout())
	}

	run, err := store.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	commits, err := store.ListCommits(ctx, run.ID)
	if err != nil {
		return err
	}
	rows, err := store.ListFunctionReports(ctx, run.ID)
	if err != nil {
		return err
	}
	return showFlags.write(cmd, fromRecords(run, commits, rows), false)
}
