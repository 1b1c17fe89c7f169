package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lazypower/oracle/internal/apiclient"
)

var postingCmd = &cobra.Command{
	Use:       "posting <status|on|off>",
	Short:     "Show or toggle auto-posting on the running server",
	Long:      "Talks to the server at $ORACLE_URL (default http://127.0.0.1:8787).",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"status", "on", "off"},
	RunE:      runPosting,
}

func runPosting(cmd *cobra.Command, args []string) error {
	c := apiclient.NewClient()
	if !c.Healthy() {
		return fmt.Errorf("oracle server is not reachable")
	}

	var (
		enabled bool
		err     error
	)
	switch args[0] {
	case "status":
		enabled, err = c.PostingEnabled()
	case "on":
		enabled, err = c.SetPostingEnabled(true)
	case "off":
		enabled, err = c.SetPostingEnabled(false)
	default:
		return fmt.Errorf("unknown action %q (want status, on or off)", args[0])
	}
	if err != nil {
		return err
	}

	state := "paused"
	if enabled {
		state = "enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Auto-posting is %s.\n", state)
	return nil
}
