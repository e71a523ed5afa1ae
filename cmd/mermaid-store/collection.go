// Collection commands for the mermaid-store CLI.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mermaid-ui/pkg/types"
)

func newCollectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"collections", "col"},
		Short:   "Manage collections",
	}
	cmd.AddCommand(
		newCollectionListCmd(a),
		newCollectionGetCmd(a),
		newCollectionCreateCmd(a),
		newCollectionUpdateCmd(a),
		newCollectionDeleteCmd(a),
	)
	return cmd
}

func newCollectionListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all collections, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			collections, err := store.ListCollections()
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), collections)
			}

			tbl := newTable(cmd.OutOrStdout(),
				column{title: "ID"},
				column{title: "NAME", color: nameColor},
				column{title: "DESCRIPTION"},
				column{title: "UPDATED", color: dimColor},
			)
			for _, c := range collections {
				tbl.add(strconv.FormatInt(c.ID, 10), c.Name, c.DescriptionOrEmpty(), formatTimestamp(c.UpdatedAt))
			}
			return tbl.flush()
		},
	}
}

func newCollectionGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("collection", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.GetCollection(id)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			if c == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No collection with id %d\n", id)
				return nil
			}
			printCollection(cmd, c)
			return nil
		},
	}
}

func newCollectionCreateCmd(a *app) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.CreateCollection(name, optionalFlag(cmd, "description", description))
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created collection %d: %s\n", c.ID, c.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "collection name (required)")
	cmd.Flags().StringVar(&description, "description", "", "collection description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCollectionUpdateCmd(a *app) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name and description of a collection",
		Long: `Update replaces both fields. Omitting --description clears it.

Example:
  mermaid-store collection update 3 --name Work --description "team diagrams"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("collection", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			c, err := store.UpdateCollection(id, name, optionalFlag(cmd, "description", description))
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated collection %d: %s\n", c.ID, c.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "collection name (required)")
	cmd.Flags().StringVar(&description, "description", "", "collection description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCollectionDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a collection and all of its diagrams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("collection", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.DeleteCollection(id)
			if err != nil {
				return err
			}
			return printDeleted(cmd, a.jsonMode, "collection", id, deleted)
		},
	}
}

func printCollection(cmd *cobra.Command, c *types.Collection) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s\n", headerColor.Sprintf("Collection %d:", c.ID), nameColor.Sprint(c.Name))
	if c.Description != nil {
		fmt.Fprintf(w, "  description: %s\n", *c.Description)
	}
	fmt.Fprintf(w, "  created:     %s\n", formatTimestamp(c.CreatedAt))
	fmt.Fprintf(w, "  updated:     %s\n", formatTimestamp(c.UpdatedAt))
}

// optionalFlag returns a pointer to value when the flag was given, nil
// otherwise.
func optionalFlag(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}

func printDeleted(cmd *cobra.Command, jsonMode bool, kind string, id int64, deleted bool) error {
	if jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]bool{"deleted": deleted})
	}
	if deleted {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", kind, id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s with id %d; nothing deleted\n", kind, id)
	}
	return nil
}
