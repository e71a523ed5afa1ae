// Export and import commands for the mermaid-store CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mermaid-ui/internal/archive"
)

func newExportCmd(a *app) *cobra.Command {
	var collection int64
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write collections and diagrams to a JSONL archive",
		Long: `Export writes every collection (or only --collection) with its diagrams
to a JSONL archive. Use - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if collection < 0 {
				return userError{fmt.Errorf("invalid collection id %d", collection)}
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			opts := archive.Options{CollectionID: collection}
			var sum archive.Summary
			if args[0] == "-" {
				sum, err = archive.Export(store, cmd.OutOrStdout(), opts)
			} else {
				sum, err = archive.ExportFile(store, args[0], opts)
			}
			if err != nil {
				return err
			}
			if args[0] == "-" {
				return nil
			}
			return printSummary(cmd, a.jsonMode, "Exported", sum)
		},
	}
	cmd.Flags().Int64Var(&collection, "collection", 0, "export only this collection id")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Recreate collections and diagrams from a JSONL archive",
		Long: `Import validates the whole archive, then creates its collections and
diagrams with new ids. Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return userError{fmt.Errorf("open archive: %w", err)}
				}
				defer f.Close()
				in = f
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := archive.Import(store, in)
			if err != nil {
				return err
			}
			return printSummary(cmd, a.jsonMode, "Imported", sum)
		},
	}
}

func printSummary(cmd *cobra.Command, jsonMode bool, verb string, sum archive.Summary) error {
	if jsonMode {
		return printJSON(cmd.OutOrStdout(), sum)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d collections and %d diagrams (export %s)\n",
		verb, sum.Collections, sum.Diagrams, sum.ExportID)
	return nil
}
