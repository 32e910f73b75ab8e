package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikistats/internal/config"
	"github.com/nao1215/wikistats/internal/log"
	"github.com/nao1215/wikistats/internal/report"
)

// NewRootCmd creates the root command for wikistats.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikistats",
		Short: "Statistics about Wikipedia articles and their Wikidata items",
		Long: `wikistats collects statistics about Wikipedia articles: text length,
distinct contributors, revisions, external links, interwiki links, language
links, linked pages, backlinks, categories, first revision, Wikidata claims
and, when a date range is given, page views.

Targets are selected by mode. Modes can be combined and run in the order
article, category, languages, file. Each mode writes its own header.

Examples:
  # Statistics of one article on de.wikipedia
  wikistats --article Köln

  # Every article of a category, with page views of January 2024
  wikistats --category "Stadt in Deutschland" --start 20240101 --end 20240131

  # One article across all language editions, starting from en.wikipedia
  wikistats --languages Cologne

  # Articles listed in a tab-separated file (id, description, count, url)
  wikistats --file items.tsv --format markdown -o report.md

  # List the revisions of an article
  wikistats --test Köln

Configuration file (.wikistats) example:
  lang: de
  user_agent: "mybot/1.0 (me@example.org)"
  sites:
    be-x-old.wikipedia:
      host: be-tarask.wikipedia.org`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRootCmd,
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Mode flags
	cmd.Flags().StringP("article", "a", "", "Collect statistics of one article")
	cmd.Flags().StringP("category", "c", "", "Collect statistics of every article in a category")
	cmd.Flags().StringP("languages", "l", "", "Collect statistics of an article in every language edition")
	cmd.Flags().StringP("file", "f", "", "Collect statistics of the articles listed in a tab-separated file")
	cmd.Flags().StringP("test", "t", "", "List revision ids and timestamps of an article")

	// Site flags
	cmd.Flags().String("lang", config.DefaultLang, "Site code of the configured site")
	cmd.Flags().String("site", config.DefaultSite, "Project name of every site")
	cmd.Flags().String("home-lang", config.DefaultHomeLang, "Site code cross-language mode starts from")

	// Page view flags
	cmd.Flags().String("start", "", "First day of the page-view range (YYYYMMDD)")
	cmd.Flags().String("end", "", "Last day of the page-view range (YYYYMMDD)")

	// Report flags
	cmd.Flags().StringP("sep", "s", config.DefaultSeparator, "Column separator of TSV output")
	cmd.Flags().String("format", config.DefaultFormat, fmt.Sprintf("Report format (%v)", report.Formats()))
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Behavior flags
	cmd.Flags().Duration("timeout", config.DefaultTimeout, "HTTP timeout of each API request")
	cmd.Flags().String("config", "",
		"Configuration file path (default: .wikistats in current or home directory)")
	cmd.Flags().Bool("fail-fast", false, "Abort on the first target that fails")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the statistics run.
func runRootCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	r, err := newRunner(cfg, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	return r.run(ctx)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the configuration file and the cobra
// command flags. Flags set on the command line override file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently keep the defaults if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", configPath, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Values the config file may also set
	overridable := []struct {
		name string
		dst  *string
	}{
		{"lang", &cfg.Lang},
		{"site", &cfg.Site},
		{"home-lang", &cfg.HomeLang},
		{"sep", &cfg.Separator},
		{"format", &cfg.Format},
	}
	for _, f := range overridable {
		if !flags.Changed(f.name) {
			continue
		}
		if *f.dst, err = flags.GetString(f.name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	// Values only the command line sets
	flagOnly := []struct {
		name string
		dst  *string
	}{
		{"article", &cfg.Article},
		{"category", &cfg.Category},
		{"languages", &cfg.Languages},
		{"file", &cfg.InputFile},
		{"test", &cfg.TestArticle},
		{"start", &cfg.Start},
		{"end", &cfg.End},
		{"output", &cfg.OutputFile},
	}
	for _, f := range flagOnly {
		if *f.dst, err = flags.GetString(f.name); err != nil {
			return nil, err
		}
	}

	cfg.FailFast, err = flags.GetBool("fail-fast")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}
