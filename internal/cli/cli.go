// Package cli implements the shelfplan command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfplan/pkg/buildinfo"
	"github.com/matzehuels/shelfplan/pkg/cache"
	"github.com/matzehuels/shelfplan/pkg/observability"
	"github.com/matzehuels/shelfplan/pkg/pipeline"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "shelfplan"

	// planSuffix is appended to the site file's base name by layout.
	planSuffix = ".plan.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// siteFile is the --site flag shared by every command.
	siteFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Shelfplan lays out warehouse racks and shelving",
		Long: `Shelfplan generates shelf layouts for the storage zones of a warehouse site,
computes the support columns underneath, and renders the result as floor plans,
site maps, spreadsheets and 3D scene descriptions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.siteFile, "site", site.DefaultFile, "site document")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.siteCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Site Loading
// =============================================================================

// siteStore returns the file store for path, or for --site when path is empty.
func (c *CLI) siteStore(path string) *site.FileStore {
	if path == "" {
		path = c.siteFile
	}
	return site.NewFileStore(path)
}

// loadSite reads the site document, writing the default site when the file
// does not exist yet.
func (c *CLI) loadSite(ctx context.Context, path string) (*site.Site, string, error) {
	store := c.siteStore(path)
	s, created, err := site.LoadOrInit(ctx, store)
	if err != nil {
		return nil, "", fmt.Errorf("load site %s: %w", store.Path(), err)
	}
	if created {
		printInfo("Created default site")
		printFile(store.Path())
	}
	return s, store.Path(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/shelfplan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// planPath returns the plan file written next to a site document.
func planPath(sitePath string) string {
	return strings.TrimSuffix(sitePath, filepath.Ext(sitePath)) + planSuffix
}

// =============================================================================
// Hooks
// =============================================================================

// registerLogHooks routes pipeline, cache and server events to the logger.
func registerLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}
