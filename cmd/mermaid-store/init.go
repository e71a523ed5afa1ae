// Init command for the mermaid-store CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config and data directories and the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPreRunE already created the config directory and a
			// default config.yaml.
			store, err := a.openStore()
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			defer store.Close()

			collections, err := store.ListCollections()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "mermaid-store initialized")
			fmt.Fprintln(w, "  config:     ", a.cfg.ConfigFileUsed())
			fmt.Fprintln(w, "  database:   ", store.Path())
			fmt.Fprintln(w, "  collections:", len(collections))
			return nil
		},
	}
}
