package main

import (
	"fmt"

	"github.com/esimov/autograph/cache"
	"github.com/spf13/cobra"
)

// cacheFlags locate the cache configuration and database.
type cacheFlags struct {
	config string
	db     string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "cache configuration (TOML), defaults to the built-in manifest")
	cmd.Flags().StringVar(&f.db, "db", "autograph-cache.db", "SQLite database holding the cached assets")
}

func (f *cacheFlags) load() (cache.Config, error) {
	if f.config == "" {
		return cache.DefaultConfig(), nil
	}
	return cache.LoadConfig(f.config)
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the offline copy of the signing page assets",
	}

	cmd.AddCommand(newCacheInstallCmd())
	cmd.AddCommand(newCacheKeysCmd())
	cmd.AddCommand(newCachePruneCmd())

	return cmd
}

func newCacheInstallCmd() *cobra.Command {
	var f cacheFlags

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the manifest and activate the configured cache version",
		Long:  `Stores every manifest asset under the configured version, then removes the namespaces of the other versions. Nothing changes if a single asset fails.`,
		Args:  cobra.NoArgs,
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

			reg := cache.NewRegistry(db, cache.WithLogger(logger))
			if _, err := reg.Deploy(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s installed (%d assets)\n", cfg.Name, len(cfg.Manifest))
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newCacheKeysCmd() *cobra.Command {
	var f cacheFlags

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List the cache namespaces and their stored requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := cache.OpenSQLite(f.db)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			names, err := db.Keys(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				ns, err := db.Open(ctx, name)
				if err != nil {
					return err
				}
				keys, err := ns.Keys(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, name)
				for _, k := range keys {
					fmt.Fprintf(out, "  %s\n", k)
				}
			}
			return nil
		},
	}
	f.register(cmd)

	return cmd
}

func newCachePruneCmd() *cobra.Command {
	var f cacheFlags

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove every namespace except the configured version",
		Args:  cobra.NoArgs,
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

			ctx := cmd.Context()
			names, err := db.Keys(ctx)
			if err != nil {
				return err
			}
			stale := cache.Stale(names, cfg.Name)
			for _, name := range stale {
				if _, err := db.Delete(ctx, name); err != nil {
					return err
				}
				logger.Debug("Pruned", "namespace", name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d namespaces\n", len(stale))
			return nil
		},
	}
	f.register(cmd)

	return cmd
}
