package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/lazypower/oracle/internal/store"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage the pre-rendered prophecy manifest",
}

var manifestImportCmd = &cobra.Command{
	Use:   "import <prophecies.json>",
	Short: "Import manifest entries, skipping known IDs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open manifest: %w", err)
		}
		defer f.Close()

		entries, err := parseManifest(f)
		if err != nil {
			return err
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ImportProphecies(entries)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d prophecies.\n", n, len(entries))
		return nil
	},
}

var manifestLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List manifest entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		return listManifest(cmd.OutOrStdout(), db)
	},
}

func init() {
	manifestCmd.AddCommand(manifestImportCmd)
	manifestCmd.AddCommand(manifestLsCmd)
}

func parseManifest(r io.Reader) ([]store.Prophecy, error) {
	var entries []store.Prophecy
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("manifest entry %d has no id", i)
		}
	}
	return entries, nil
}

func listManifest(w io.Writer, db *store.DB) error {
	entries, err := db.ListProphecies()
	if err != nil {
		return fmt.Errorf("list manifest: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "Manifest is empty. Import one with `oracle manifest import`.")
		return nil
	}
	for _, p := range entries {
		mark := " "
		if p.Posted {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s] %s  %s\n", mark, p.ID, p.Caption)
	}
	return nil
}
