// Package collections lists the configured collections
package collections

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spendwise/cmd/root"
)

// Cmd represents the collections command
var Cmd = &cobra.Command{
	Use:   "collections",
	Short: "List configured collections and their tables",
	RunE:  collectionsFunc,
}

func collectionsFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	infos, err := c.GetStore().Collections(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTION\tTABLE\tROWS")
	for _, info := range infos {
		rows := "-"
		if info.Exists {
			rows = fmt.Sprint(info.Rows)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Table, rows)
	}
	return w.Flush()
}
