package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/lazypower/oracle/internal/creator"
	"github.com/lazypower/oracle/internal/poster"
	"github.com/lazypower/oracle/internal/store"
)

var (
	generateQueue   bool
	generateCaption bool
)

var generateCmd = &cobra.Command{
	Use:       "generate <early|deep|1111>",
	Short:     "Generate a creator post and card",
	Long:      "Generate the prophecy, captions, hashtags and card for a creator post. Use --queue to append it to the content queue.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: creator.Kinds,
	RunE:      runGenerate,
}

func init() {
	generateCmd.Flags().BoolVarP(&generateQueue, "queue", "q", false, "Append the post to the content queue")
	generateCmd.Flags().BoolVar(&generateCaption, "save-caption", false, "Write the caption JSON to the captions dir")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if !creator.ValidKind(kind) {
		return fmt.Errorf("%w: %q (want one of %v)", creator.ErrUnknownKind, kind, creator.Kinds)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	item, err := a.creator.Generate(ctx, kind)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	if generateCaption {
		path, err := creator.SaveCaption(a.cfg.Cards.CaptionsDir, item)
		if err != nil {
			return fmt.Errorf("save caption: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  caption: %s\n", path)
	}
	if generateQueue {
		if err := a.db.AddQueueItem(item); err != nil {
			return fmt.Errorf("queue: %w", err)
		}
		fmt.Fprintf(os.Stderr, "  queued: %s\n", item.ID)
	}
	return printJSON(cmd, item)
}

var (
	postSource    string
	postTestImage bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Publish the next post now",
	Long:  "Publish the head of the queue (or the next manifest prophecy) immediately. The auto-posting flag is not consulted.",
	RunE:  runPost,
}

func init() {
	postCmd.Flags().StringVarP(&postSource, "source", "s", "queue", "Posting source: queue or manifest")
	postCmd.Flags().BoolVar(&postTestImage, "test-image", false, "Post the configured test image instead of the card")
}

func runPost(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var src poster.Source
	switch postSource {
	case "queue":
		src = a.queue
	case "manifest":
		src = a.manifest
	default:
		return fmt.Errorf("unknown source %q", postSource)
	}

	res, err := a.poster.RunOnce(cmd.Context(), src, poster.Options{UseTestImage: postTestImage})
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	return printJSON(cmd, res)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openStore opens the database without wiring providers, for commands that
// only read or edit local state.
func openStore() (*store.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openDB(cfg)
}
