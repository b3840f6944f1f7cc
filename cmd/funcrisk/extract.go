package main

import (
	"context"
	"fmt"

	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/extract"
	"github.com/rohankatakam/funcrisk/internal/mining"
	"github.com/spf13/cobra"
)

var (
	extractRepo string
	extractRev  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file> <function>",
	Short: "Print a function's full text",
	Long: `Locate a function in a C source file by lexical scanning and print its
signature and body.

Examples:
  funcrisk extract drivers/net/main.c mlx_probe
  funcrisk extract --repo ~/linux --rev v6.1 drivers/net/main.c mlx_probe`,
	Args: cobra.ExactArgs(2),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractRepo, "repo", "", "read the file from this git repository")
	extractCmd.Flags().StringVar(&extractRev, "rev", "HEAD", "revision to read with --repo")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, name := args[0], args[1]

	var src analyzer.Source = analyzer.FileSource(path)
	if extractRepo != "" {
		repo, err := mining.Open(ctx, extractRepo, mining.WithLogger(logger))
		if err != nil {
			return err
		}
		src = mining.BlobSource{Repo: repo, Rev: extractRev, Path: path}
	}

	fn, err := extractFrom(ctx, src, name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), fn.Text())
	return err
}

func extractFrom(ctx context.Context, src analyzer.Source, name string) (extract.ExtractedFunction, error) {
	fn, err := src.Extract(ctx, name)
	if err != nil {
		return fn, err
	}
	switch fn.Status() {
	case extract.StatusNotFound:
		return fn, errors.ValidationErrorf("function %s not found in %s", name, src)
	case extract.StatusTruncated:
		return fn, errors.ValidationErrorf("function %s in %s has unbalanced braces", name, src)
	}
	logger.WithField("function", name).WithField("start_line", fn.StartLine).Debug("extracted")
	return fn, nil
}
