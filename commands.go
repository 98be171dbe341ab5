package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pagebuilder/internal/config"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

var (
	listOutput   string
	exportFormat string
	exportFile   string
)

// openStore opens the canvas table of the configured database without
// starting an editor.
func openStore() (*storage.DB, *storage.CanvasStore, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.New(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return db, storage.NewCanvasStore(db), nil
}

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List canvases",
		Long: `List every canvas, most recently updated first.

Examples:
  # Table output
  pagebuilder list

  # JSON output for scripts
  pagebuilder list -o json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	cmd.Flags().StringVarP(&listOutput, "output", "o", "text", "Output format (text, json, yaml)")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	db, store, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := store.ListCanvases()
	if err != nil {
		return fmt.Errorf("failed to list canvases: %w", err)
	}
	out := cmd.OutOrStdout()
	switch listOutput {
	case "json", "yaml":
		return service.WriteValue(out, listOutput, list)
	case "text":
		if len(list) == 0 {
			fmt.Fprintln(out, "No canvases")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCOMPONENTS\tUPDATED")
		for _, c := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.ID, c.Name, c.ComponentCount, c.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", listOutput)
	}
}

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <canvas-id>",
		Short: "Export a canvas as a nested document",
		Long: `Write a canvas with its components nested under their parents.

Examples:
  # YAML to stdout
  pagebuilder export 3f2a...

  # JSON to a file
  pagebuilder export 3f2a... -o json -f landing.json`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}
	cmd.Flags().StringVarP(&exportFormat, "output", "o", service.FormatYAML, "Document format (yaml, json)")
	cmd.Flags().StringVarP(&exportFile, "file", "f", "", "Write to a file instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	db, store, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := store.GetCanvas(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportFile != "" {
		f, err := os.Create(exportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return service.WriteDocument(w, exportFormat, service.NewDocument(c.Name, c.State))
}
