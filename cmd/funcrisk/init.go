package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a file",
	Long: `Write the configuration currently in effect (defaults, .env files and
FUNCRISK_* environment overrides) as YAML, so it can be edited and committed.

Examples:
  funcrisk init
  FUNCRISK_STORAGE_TYPE=none funcrisk init --force
  funcrisk init ci/funcrisk.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(".funcrisk", "config.yaml")
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.ValidationErrorf("%s already exists, use --force to overwrite", path)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	logger.WithField("path", path).Info("configuration written")
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return err
}
