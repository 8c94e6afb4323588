package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/altinukshini/enablehub/internal/api"
	"github.com/altinukshini/enablehub/internal/cache"
	"github.com/altinukshini/enablehub/internal/catalog"
	"github.com/altinukshini/enablehub/internal/config"
	"github.com/altinukshini/enablehub/internal/logging"
	"github.com/altinukshini/enablehub/internal/tui"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "enablehub",
	Short: "Sales enablement hub with a keyboard-driven command palette",
	Long: `enablehub - browse sales enablement content from the terminal
  - ctrl+k opens the command palette
  - search pages, documents and tools, or run quick actions

The catalog is built in unless --catalog points at a local file or --repo
names a GitHub repository that hosts one.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&cfg.CatalogFile, "catalog", "c", "", "catalog file (.toml, .yaml or .yml)")
	f.StringVarP(&cfg.CatalogRepo, "repo", "R", "", "GitHub repository hosting the catalog (owner/repo)")
	f.StringVar(&cfg.CatalogPath, "path", config.DefaultCatalogPath, "catalog path inside --repo")
	f.StringVar(&cfg.CatalogRef, "ref", "", "branch, tag or commit of --repo (default branch if empty)")
	f.StringVar(&cfg.CacheDir, "cache-dir", config.DefaultCacheDir(), "directory for cached remote catalogs")
	f.DurationVar(&cfg.CacheTTL, "cache-ttl", config.DefaultCacheTTL, "how long a cached catalog stays fresh")
	f.IntVar(&cfg.CacheSizeMB, "cache-size", config.DefaultCacheSizeMB, "max catalog cache size in MB")
	f.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay between the last keystroke and a search")
	f.StringVar(&cfg.LogFile, "log-file", config.DefaultLogFile(), "log file")
	f.BoolVar(&cfg.Debug, "debug", false, "enable debug logging (or ENABLEHUB_DEBUG=1)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup validates flags and opens the log file.
func setup() (*slog.Logger, func() error, error) {
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return logging.New(logging.Config{File: cfg.LogFile, Debug: cfg.Debug})
}

func catalogSource() catalog.Source {
	if cfg.CatalogFile != "" {
		return catalog.Source{File: cfg.CatalogFile}
	}
	return catalog.Source{Repo: cfg.CatalogRepo, Path: cfg.CatalogPath, Ref: cfg.CatalogRef}
}

func openCache() (*cache.CatalogCache, error) {
	return cache.NewCatalogCache(cfg.CacheDir, cfg.CacheSizeMB, cfg.CacheTTL)
}

func loadCatalog(ctx context.Context, logger *slog.Logger) (*catalog.Catalog, string, error) {
	src := catalogSource()

	var fetcher catalog.Fetcher
	var cc *cache.CatalogCache
	if cfg.Remote() {
		owner, repo, err := cfg.SplitRepo()
		if err != nil {
			return nil, "", err
		}
		client, err := api.NewClient(owner, repo)
		if err != nil {
			return nil, "", fmt.Errorf("github auth: %w (run: gh auth login)", err)
		}
		fetcher = client
		if cc, err = openCache(); err != nil {
			return nil, "", err
		}
	}

	c, err := catalog.NewLoader(fetcher, cc, logger).Load(ctx, src)
	if err != nil {
		return nil, "", err
	}
	return c, src.String(), nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	logger, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	c, source, err := loadCatalog(cmd.Context(), logger)
	if err != nil {
		return err
	}
	logger.Info("starting", "version", Version, "catalog", source, "items", len(c.Items), "pid", os.Getpid())

	app := tui.NewApp(tui.Options{
		Catalog:  c,
		Source:   source,
		Debounce: cfg.Debounce,
		Browser:  browser.New("", cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Logger:   logger,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	logger.Info("exited")
	return nil
}
