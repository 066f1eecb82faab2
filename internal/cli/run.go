package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoanghai1803/newsbrief/internal/ai"
	"github.com/hoanghai1803/newsbrief/internal/config"
	"github.com/hoanghai1803/newsbrief/internal/feeds"
	"github.com/hoanghai1803/newsbrief/internal/pipeline"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Collection string
	Delay      time.Duration
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Summarize the pending records of a collection",
		Long: `Fetch every pending record of the collection, summarize its page and
write the summary back. Records are processed one at a time with a fixed
pause after each successful summarization.

A record that fails to fetch, summarize or write is skipped and reported;
the run still exits 0. The exit code is non-zero only when the pending
records cannot be read or there are none.

Example:
  newsbrief run
  newsbrief run --collection news3 --delay 20s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("delay") && opts.Delay < 0 {
				return NewExitError(ExitCommandError, "--delay must not be negative")
			}
			return runPipeline(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Collection, "collection", "", "collection to process (default from config)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 0, "pause after each successful summarization (default from config)")

	return cmd
}

func runPipeline(cmd *cobra.Command, opts *RunOptions) error {
	cfg, logger, err := loadConfig(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if cfg.AI.APIKey == "" {
		return NewExitError(ExitCommandError, "ai.api_key is not set: add it to the config file or set AI_API_KEY")
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

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create AI provider", err)
	}

	policy, err := pipeline.ParseNotRelevantPolicy(cfg.Pipeline.NotRelevantPolicy)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid pipeline config", err)
	}

	delay := cfg.Pipeline.InterCallDelay
	if cmd.Flags().Changed("delay") {
		delay = opts.Delay
	}

	orchestrator := pipeline.New(store, fetcher, summarizer, pipeline.Options{
		Pacer:             pipeline.DelayPacer{Delay: delay},
		NotRelevantPolicy: policy,
		Logger:            logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collection := collectionOrDefault(opts.Collection, cfg)
	report, err := orchestrator.Run(ctx, collection)
	switch {
	case errors.Is(err, pipeline.ErrNothingToProcess):
		fmt.Fprintf(cmd.OutOrStdout(), "Nothing to process in collection %q.\n", collection)
		return NewExitError(ExitFailure, "nothing to process")
	case errors.Is(err, context.Canceled):
		renderReport(cmd.OutOrStdout(), report)
		return WrapExitError(ExitFailure, "run interrupted", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to read pending records", err)
	}

	renderReport(cmd.OutOrStdout(), report)
	return nil
}

// newFetcher builds the content resolver from the fetch section.
func newFetcher(cfg *config.Config) (*feeds.Fetcher, error) {
	mode, err := feeds.ParseMode(cfg.Fetch.Mode)
	if err != nil {
		return nil, err
	}
	return feeds.NewFetcher(feeds.Options{
		Timeout:   cfg.Fetch.Timeout,
		Mode:      mode,
		MaxWords:  cfg.Fetch.MaxWords,
		UserAgent: cfg.Fetch.UserAgent,
	}), nil
}

// newSummarizer builds the provider and the summarization client from the
// ai and pipeline sections.
func newSummarizer(cfg *config.Config) (*ai.Client, error) {
	provider, err := ai.NewProvider(ai.ProviderConfig{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AI.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return ai.NewClient(provider, ai.PromptConfig{
		Language: cfg.Pipeline.SummaryLanguage,
		Lines:    cfg.Pipeline.SummaryLines,
		Subject:  cfg.Pipeline.Subject,
		Sentinel: cfg.Pipeline.NotRelevantSentinel,
	}), nil
}
