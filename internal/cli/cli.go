// Package cli implements the easel command-line interface.
//
// This package provides commands for composing banner documents from
// creative briefs, validating and repairing existing documents, browsing
// the archive, serving the HTTP API, and managing the local cache. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - compose: Generate a banner document from a creative brief
//   - validate: Check a document against the layout rules
//   - repair: Apply deterministic fixes to a document
//   - list: Browse archived banners
//   - serve: Run the HTTP API server
//   - cache: Manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Example
//
//	import "github.com/easelhq/easel/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/easelhq/easel/pkg/buildinfo"
	"github.com/easelhq/easel/pkg/cache"
	"github.com/easelhq/easel/pkg/gen/gateway"
	"github.com/easelhq/easel/pkg/pipeline"
	"github.com/easelhq/easel/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "easel"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Easel composes and repairs AI-generated banner documents",
		Long:         `Easel turns a creative brief into a banner document for fabric.js canvases, then validates, repairs, and refines the result until it follows the layout rules.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/easel/easel.toml)")

	// Register all subcommands
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.repairCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the configured backend and cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config
	if cfg.Gateway.URL == "" {
		return nil, fmt.Errorf("no gateway configured: set gateway.url in easel.toml or EASEL_GATEWAY_URL")
	}

	backend, err := gateway.New(cfg.Gateway.URL, cfg.Gateway.Token, nil)
	if err != nil {
		return nil, err
	}

	pipeCache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, pipeCache, nil, c.Logger), nil
}

// newCache creates the pipeline stage cache from configuration.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.config.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.config.Cache.RedisURL)
	default:
		dir := c.config.Cache.Dir
		if dir == "" {
			var err error
			dir, err = cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// newStore creates the banner archive from configuration.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	switch c.config.Store.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, c.config.Store.MongoURI)
	default:
		return store.NewFileStore(c.config.Store.Dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/easel/).
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
