package cli

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hoanghai1803/newsbrief/internal/config"
	"github.com/hoanghai1803/newsbrief/internal/logging"
	"github.com/hoanghai1803/newsbrief/internal/storage"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the newsbrief CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "newsbrief",
		Short: "Summarize stored news articles with an LLM",
		Long: `newsbrief enriches stored article records with short LLM summaries.

Each pending record's URL is fetched, the page is summarized only when it
concerns the configured subject, and the result is written back to the
record's Summary column.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "config.toml", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// loadConfig reads .env and the config file, then installs the logger as
// the slog default. --verbose forces debug level.
func loadConfig(opts *RootOptions, logOut io.Writer) (*config.Config, *slog.Logger, error) {
	// A missing .env file is normal.
	_ = godotenv.Load()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	logger := logging.New(level, logOut)
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// openStore opens the configured database and wraps it in a Store.
func openStore(cfg *config.Config) (*storage.Store, error) {
	db, err := storage.OpenDatabase(cfg.Store.Driver, cfg.Store.Location)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	return storage.NewStore(db, storage.Options{
		Driver:      cfg.Store.Driver,
		PendingOnly: cfg.Store.PendingOnly,
	}), nil
}

// collectionOrDefault returns flagValue unless it is empty.
func collectionOrDefault(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Store.Collection
}

// closeStore closes the store and logs a failure.
func closeStore(store *storage.Store) {
	if err := store.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}
}
