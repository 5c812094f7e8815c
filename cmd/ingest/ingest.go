// Package ingest handles the ingest command
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"spendwise/cmd/root"
	"spendwise/internal/fileutils"
	internalingest "spendwise/internal/ingest"
	"spendwise/internal/validation"
)

// UploadCollection receives uploaded documents when no collection is given.
const UploadCollection = "uploaded_file"

var (
	collection string
	upload     bool
)

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest <document>",
	Short: "Ingest a bank statement into a collection",
	Long: `Extract the card purchases of a bank statement (PDF, CSV or XLSX), classify the merchants
and replace the collection with the result.

Without --collection the collection whose table matches the document name is used.
With --upload the document is first copied into the upload directory.

Example:
  spendwise ingest data/bank_statement_july.pdf
  spendwise ingest --upload ~/Downloads/statement.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&collection, "collection", "c", "", "Target collection")
	Cmd.Flags().BoolVarP(&upload, "upload", "u", false, "Copy the document into the upload directory before ingesting")
}

// ResolveCollection picks the target collection of a document.
func ResolveCollection(document, requested string, uploading bool, collections map[string]string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	if uploading {
		return UploadCollection, nil
	}
	base := fileutils.BaseName(document)
	for name, table := range collections {
		if table == base {
			return name, nil
		}
	}
	return "", fmt.Errorf("no collection matches %q, use --collection", base)
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	document := args[0]
	if err := validation.IsValidDocument(document, internalingest.SupportedExtensions); err != nil {
		return err
	}

	target, err := ResolveCollection(document, collection, upload, c.GetConfig().Collections)
	if err != nil {
		return err
	}

	pipeline := c.GetPipeline()
	var result *internalingest.Result
	if upload {
		result, err = pipeline.Upload(cmd.Context(), document, target)
	} else {
		result, err = pipeline.Ingest(cmd.Context(), document, target)
	}
	if err != nil {
		return err
	}

	PrintResult(cmd, result)
	return nil
}

// PrintResult writes a one-line summary of an ingested document.
func PrintResult(cmd *cobra.Command, r *internalingest.Result) {
	if r.Empty {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no tables found, collection %s unchanged\n", r.Document, r.Collection)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s): %d transactions, %d categorized, %d rows skipped\n",
		r.Document, r.Collection, r.Table, r.Saved, r.Categorized, r.Stats.Rows-r.Stats.Kept)
}
