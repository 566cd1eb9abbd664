// Package cli implements the campaigncanvas command-line interface.
//
// # Commands
//
//   - serve: run the HTTP API and edge functions
//   - boards: list, show, import, export and delete stored boards
//   - render: render a board document to SVG, DOT or JSON
//   - route: print the routed edges of a board
//   - edit: interactive board editor with undo and redo
//   - fn: invoke an edge function from the terminal
//   - cache: inspect and clear the response cache
//   - config: print the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the CLI value and in the command context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/campaigncanvas/pkg/ai"
	"github.com/matzehuels/campaigncanvas/pkg/cache"
	"github.com/matzehuels/campaigncanvas/pkg/config"
	"github.com/matzehuels/campaigncanvas/pkg/fetch"
	"github.com/matzehuels/campaigncanvas/pkg/functions"
	"github.com/matzehuels/campaigncanvas/pkg/httputil"
	"github.com/matzehuels/campaigncanvas/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "campaigncanvas"

	// defaultTenant scopes boards when --tenant is not given.
	defaultTenant = "default"
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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig loads the configuration once per process. Flags are applied by the
// individual commands on top of the returned value.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Service Factories
// =============================================================================

// openStore opens the configured board store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	c.Logger.Debug("store opened", "backend", cfg.Store.Backend)
	return st, nil
}

// openCache opens the configured response cache, or a null cache when
// noCache is set.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// newFunctions wires the edge functions: the AI provider, a fetch client
// backed by the response cache, and the function limits. The returned
// closer releases the cache.
func (c *CLI) newFunctions(ctx context.Context, noCache bool) (*functions.Service, func() error, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	model, err := ai.New(ctx, cfg.AI)
	if err != nil {
		return nil, nil, err
	}
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	fetchOpts := []fetch.Option{
		fetch.WithCache(cache.Namespace(cc, "fetch"), cfg.Cache.TTL.D()),
		fetch.WithMaxBody(cfg.Functions.MaxPageBytes),
		fetch.WithRetry(httputil.RetryWithBackoff),
	}
	if cfg.Functions.AllowPrivateNetworks {
		c.Logger.Warn("scrape-url may reach private networks")
		fetchOpts = append(fetchOpts, fetch.WithPrivateNetworks())
	}
	fetcher := fetch.New(fetchOpts...)
	svc := functions.New(model, fetcher, cfg.Functions,
		functions.WithLogger(c.Logger),
		functions.WithAllowOrigin(cfg.Server.AllowOrigin),
	)
	return svc, cc.Close, nil
}

// tenantFlag registers the --tenant flag shared by board commands.
func tenantFlag(cmd *cobra.Command, tenant *string) {
	cmd.Flags().StringVar(tenant, "tenant", defaultTenant, "tenant (workspace) the boards belong to")
}
