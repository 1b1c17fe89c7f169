package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/oracle/internal/store"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect or clear the content queue",
}

var queueLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List queued posts, head first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		return listQueue(cmd.OutOrStdout(), db)
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every queued post",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := db.ClearQueue()
		if err != nil {
			return fmt.Errorf("clear queue: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d queued posts.\n", n)
		return nil
	},
}

func init() {
	queueCmd.AddCommand(queueLsCmd)
	queueCmd.AddCommand(queueClearCmd)
}

func listQueue(w io.Writer, db *store.DB) error {
	items, err := db.ListQueue()
	if err != nil {
		return fmt.Errorf("list queue: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "Queue is empty.")
		return nil
	}
	for i, it := range items {
		created := time.UnixMilli(it.CreatedAt).Format(time.DateTime)
		fmt.Fprintf(w, "%d. [%s] %s (%s)\n", i+1, it.Kind, it.ID, created)
		text := it.ProphecyText
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		fmt.Fprintf(w, "   %s\n", text)
	}
	return nil
}
