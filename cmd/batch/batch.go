// Package batch handles batch ingestion of statements from a directory
package batch

import (
	"fmt"

	"github.com/spf13/cobra"

	"spendwise/cmd/ingest"
	"spendwise/cmd/root"
	"spendwise/internal/validation"
)

var inputDir string

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest every statement of a directory",
	Long: `Ingest every statement of a directory whose file name matches the table of a
configured collection. Other documents are skipped.

Example:
  spendwise batch --input-dir data/`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputDir, "input-dir", "i", "", "Directory holding the statements")
	_ = Cmd.MarkFlagRequired("input-dir")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidDirectory(inputDir); err != nil {
		return err
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	results, err := c.GetPipeline().Batch(cmd.Context(), inputDir, c.GetConfig().Collections)
	for _, r := range results {
		ingest.PrintResult(cmd, r)
	}
	if err != nil {
		return fmt.Errorf("batch ingestion finished with errors: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No document matched a configured collection")
	}
	return nil
}
