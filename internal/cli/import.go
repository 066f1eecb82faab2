package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	FeedURL    string
	Collection string
	MaxItems   int
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add the item links of an RSS/Atom feed as records",
		Long: `Parse an RSS or Atom feed and insert every item link that the collection
does not hold yet. The collection table is created when missing. New records
have no summary and are picked up by the next run.

Example:
  newsbrief import --feed https://www.yna.co.kr/rss/news.xml
  newsbrief import --feed https://example.com/atom.xml --collection news3 --max-items 20`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FeedURL, "feed", "", "feed URL (required)")
	cmd.Flags().StringVar(&opts.Collection, "collection", "", "target collection (default from config)")
	cmd.Flags().IntVar(&opts.MaxItems, "max-items", 0, "import at most this many items (0 = all)")
	_ = cmd.MarkFlagRequired("feed")

	return cmd
}

func runImport(cmd *cobra.Command, opts *ImportOptions) error {
	cfg, logger, err := loadConfig(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid fetch config", err)
	}

	ctx := cmd.Context()
	collection := collectionOrDefault(opts.Collection, cfg)

	if err := store.EnsureCollection(ctx, collection); err != nil {
		return WrapExitError(ExitCommandError, "failed to prepare collection", err)
	}

	links, err := fetcher.FeedLinks(ctx, opts.FeedURL, opts.MaxItems)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read feed", err)
	}

	added := 0
	for _, link := range links {
		inserted, err := store.AddArticle(ctx, collection, link)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to add article", err)
		}
		if inserted {
			added++
			logger.Debug("added article", "collection", collection, "url", link)
		}
	}

	logger.Info("feed imported", "feed", opts.FeedURL, "collection", collection, "links", len(links), "added", added)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new of %d links into %q.\n", added, len(links), collection)
	return nil
}
