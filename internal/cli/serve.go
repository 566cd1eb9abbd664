package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/campaigncanvas/pkg/functions"
	"github.com/matzehuels/campaigncanvas/pkg/observability"
	"github.com/matzehuels/campaigncanvas/pkg/server"
)

type serveOpts struct {
	addr        string
	storeKind   string
	noFunctions bool
	noCache     bool
	traceHooks  bool
}

// serveCommand runs the HTTP server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board API and edge functions over HTTP",
		Example: `  campaigncanvas serve --addr :8080
  CAMPAIGNCANVAS_AI_API_KEY=... campaigncanvas serve --store sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Server.Addr = opts.addr
			}
			if opts.storeKind != "" {
				cfg.Store.Backend = opts.storeKind
			}
			if opts.traceHooks {
				observability.NewLogHooks(c.Logger).Install()
				defer observability.Reset()
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var fns *functions.Service
			if !opts.noFunctions {
				svc, closeCache, err := c.newFunctions(ctx, opts.noCache)
				if err != nil {
					c.Logger.Warn("edge functions disabled", "err", err)
				} else {
					defer closeCache()
					fns = svc
					c.Logger.Info("edge functions enabled", "provider", cfg.AI.Provider, "functions", fns.Names())
				}
			}

			srv := server.New(st, fns, cfg.Server, server.WithLogger(c.Logger))
			err = srv.Run(ctx)
			if errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.storeKind, "store", "", "board store: memory, file, sqlite, redis, mongo")
	cmd.Flags().BoolVar(&opts.noFunctions, "no-functions", false, "do not serve the edge functions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.traceHooks, "trace", false, "log function, cache and HTTP hook events at debug level")

	return cmd
}
