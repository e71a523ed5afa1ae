// Diagram commands for the mermaid-store CLI.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newDiagramCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diagram",
		Aliases: []string{"diagrams", "dia"},
		Short:   "Manage diagrams",
	}
	cmd.AddCommand(
		newDiagramListCmd(a),
		newDiagramGetCmd(a),
		newDiagramCreateCmd(a),
		newDiagramUpdateCmd(a),
		newDiagramDeleteCmd(a),
	)
	return cmd
}

func newDiagramListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection-id>",
		Short: "List the diagrams of a collection, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collectionID, err := parseID("collection", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			diagrams, err := store.ListDiagramsByCollection(collectionID)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), diagrams)
			}

			tbl := newTable(cmd.OutOrStdout(),
				column{title: "ID"},
				column{title: "NAME", color: nameColor},
				column{title: "KIND"},
				column{title: "LINES"},
				column{title: "UPDATED", color: dimColor},
			)
			for _, d := range diagrams {
				tbl.add(strconv.FormatInt(d.ID, 10), d.Name, d.Kind(), strconv.Itoa(lineCount(d.Content)), formatTimestamp(d.UpdatedAt))
			}
			return tbl.flush()
		},
	}
}

func newDiagramGetCmd(a *app) *cobra.Command {
	var sourceOnly bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("diagram", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.GetDiagram(id)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), d)
			}
			w := cmd.OutOrStdout()
			if d == nil {
				fmt.Fprintf(w, "No diagram with id %d\n", id)
				return nil
			}
			if sourceOnly {
				fmt.Fprint(w, d.Content)
				if !strings.HasSuffix(d.Content, "\n") {
					fmt.Fprintln(w)
				}
				return nil
			}
			fmt.Fprintf(w, "%s %s\n", headerColor.Sprintf("Diagram %d:", d.ID), nameColor.Sprint(d.Name))
			fmt.Fprintf(w, "  collection: %d\n", d.CollectionID)
			fmt.Fprintf(w, "  created:    %s\n", formatTimestamp(d.CreatedAt))
			fmt.Fprintf(w, "  updated:    %s\n", formatTimestamp(d.UpdatedAt))
			fmt.Fprintln(w)
			fmt.Fprintln(w, d.Content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sourceOnly, "source", false, "print only the diagram source")
	return cmd
}

func newDiagramCreateCmd(a *app) *cobra.Command {
	var name, content, file string
	cmd := &cobra.Command{
		Use:   "create <collection-id>",
		Short: "Create a diagram in a collection",
		Long: `Create adds a diagram to an existing collection. The source comes from
--content, or from --file (use - for stdin).

Example:
  mermaid-store diagram create 1 --name flow1 --content "graph TD; A-->B"
  mermaid-store diagram create 1 --name flow2 --file flow2.mmd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collectionID, err := parseID("collection", args[0])
			if err != nil {
				return err
			}
			source, err := readContent(cmd, content, file)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.CreateDiagram(collectionID, name, source)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created diagram %d: %s\n", d.ID, d.Name)
			return nil
		},
	}
	addDiagramFlags(cmd, &name, &content, &file)
	return cmd
}

func newDiagramUpdateCmd(a *app) *cobra.Command {
	var name, content, file string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the name and source of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("diagram", args[0])
			if err != nil {
				return err
			}
			source, err := readContent(cmd, content, file)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			d, err := store.UpdateDiagram(id, name, source)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), d)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated diagram %d: %s\n", d.ID, d.Name)
			return nil
		},
	}
	addDiagramFlags(cmd, &name, &content, &file)
	return cmd
}

func newDiagramDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("diagram", args[0])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			deleted, err := store.DeleteDiagram(id)
			if err != nil {
				return err
			}
			return printDeleted(cmd, a.jsonMode, "diagram", id, deleted)
		},
	}
}

func addDiagramFlags(cmd *cobra.Command, name, content, file *string) {
	cmd.Flags().StringVar(name, "name", "", "diagram name (required)")
	cmd.Flags().StringVar(content, "content", "", "diagram source")
	cmd.Flags().StringVarP(file, "file", "f", "", "read diagram source from file (- for stdin)")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	cmd.MarkFlagsOneRequired("content", "file")
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}
