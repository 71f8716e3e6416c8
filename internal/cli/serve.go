package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/api"
	"github.com/matzehuels/slidegraph/pkg/session"
)

// cleanupInterval is how often the server prunes expired walks.
const cleanupInterval = time.Hour

// serveCommand creates the serve command, which exposes the pipeline and walk
// sessions over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxStates int
		noCache   bool
		noWalks   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explore, layout and walk API over HTTP",
		Long: `Serve the explore, layout and walk API over HTTP.

Routes live under /api/v1 and take and return JSON; errors come back as
{"error": {"code", "message"}} with a matching status. The cache and session
backends come from the config file, so several servers can share a Redis
cache and a MongoDB or Redis walk store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}
			if maxStates == 0 {
				maxStates = cfg.MaxStates
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var store session.Store
			if !noWalks {
				if store, err = c.newSessionStore(ctx); err != nil {
					return err
				}
				defer store.Close()
				go c.cleanupWalks(ctx, store)
			}

			srv := api.New(runner, store, c.Logger,
				api.WithMaxStates(maxStates),
				api.WithWalkTTL(c.Config.Sessions.TTL))

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return srv.ListenAndServe(ctx, addr, cfg.ReadTimeout, cfg.WriteTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxStates, "max-states", 0, "largest state budget a request may ask for")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noWalks, "no-walks", false, "disable the walk session routes")

	return cmd
}

// cleanupWalks prunes expired walks until ctx is done.
func (c *CLI) cleanupWalks(ctx context.Context, store session.Store) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		if err := store.Cleanup(ctx); err != nil && ctx.Err() == nil {
			c.Logger.Warn("walk cleanup failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
