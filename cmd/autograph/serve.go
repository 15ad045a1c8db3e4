package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/esimov/autograph"
	"github.com/esimov/autograph/cache"
	"github.com/esimov/autograph/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		f    cacheFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the signature API and the cached page assets",
		Long: `Serves POST /api/signature and proxies every other request to the configured origin through the asset cache.
The cache version is deployed in the background: until it is active the requests go to the network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := f.load()
			if err != nil {
				return err
			}
			db, err := cache.OpenSQLite(f.db)
			if err != nil {
				return err
			}
			defer db.Close()

			comp, err := autograph.NewCompositor()
			if err != nil {
				return err
			}
			reg := cache.NewRegistry(db, cache.WithLogger(logger))

			srv := &http.Server{
				Addr:              addr,
				Handler:           web.NewRouter(reg, comp, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				logger.Info("Listening", "addr", addr)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				// A failed deployment leaves the server running without cache.
				if _, err := reg.Deploy(ctx, cfg); err != nil {
					logger.Warn("Cache deployment failed", "err", err)
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info("Shutting down")
				err := srv.Shutdown(sctx)
				reg.Wait()
				return err
			})
			return g.Wait()
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")

	return cmd
}
