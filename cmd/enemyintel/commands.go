package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"enemyintel/internal/api"
	"enemyintel/internal/logging"
	"enemyintel/internal/service"
)

// withApp opens the service for the duration of fn under the timeout flag.
func withApp(fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newServeCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if watch || cfg.Data.Watch {
				w, err := service.NewWatcher(a.svc, 0)
				if err != nil {
					return err
				}
				if err := w.Start(ctx); err != nil {
					logging.BootWarn("workbook watch disabled: %v", err)
				} else {
					defer w.Stop()
				}
			}

			srv := api.New(a.svc, api.Options{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.GetReadTimeout(),
				WriteTimeout: cfg.GetWriteTimeout(),
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when the workbook changes")
	return cmd
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-ingest the workbook and rewrite the dataset cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				res := a.svc.Reload()
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d enemies across %v\n", heading("Reloaded"), res.EnemiesLoaded, res.NGLevels)
				return nil
			})
		},
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show what is loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				h := a.svc.Health()
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), h)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s loaded=%t enemies=%d source=%s levels=%v\n",
					heading(h.Status), h.DataLoaded, h.TotalEnemies, h.Source, h.NGLevels)
				return nil
			})
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Find enemies whose name contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				res := a.svc.Search(strings.Join(args, " "), ngLevel)
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), res)
				}
				renderSearch(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
}

func newEnemyCmd() *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "enemy [name]",
		Short: "Show an enemy's stats and tactical advice",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				name := strings.Join(args, " ")
				v, ok := a.svc.Enemy(ctx, name, location, ngLevel)
				if !ok {
					return fmt.Errorf("enemy %q not found in %s", name, ngLevel)
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), v)
				}
				renderEnemy(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&location, "location", "l", "", "Prefer the instance at this location")
	return cmd
}

func newRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region [region]",
		Short: "Average a region's enemies and show tactical advice",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				region := strings.Join(args, " ")
				v, ok := a.svc.Region(ctx, region, ngLevel)
				if !ok {
					return fmt.Errorf("region %q not found in %s", region, ngLevel)
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), v)
				}
				renderRegion(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newRegionEnemiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region-enemies [region]",
		Short: "List enemies whose location contains the region",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				res := a.svc.RegionEnemies(strings.Join(args, " "), ngLevel)
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), res)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %d enemies\n", heading(res.Region), res.Count)
				for _, e := range res.Enemies {
					fmt.Fprintf(out, "  %s (%s)\n", e.Name, e.Location)
				}
				return nil
			})
		},
	}
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "Show a level's normalized column names",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				v, ok := a.svc.Columns(ngLevel)
				if !ok {
					return fmt.Errorf("level %q not loaded", ngLevel)
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), v)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", heading(v.NGLevel), strings.Join(v.Columns, ", "))
				return nil
			})
		},
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and edit the advisory cache",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Advice coverage for a level",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				cov, ok := a.svc.CacheStats(ngLevel)
				if !ok {
					return fmt.Errorf("level %q not loaded", ngLevel)
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), cov)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d enemies (%.1f%%)\n",
					heading("Coverage"), cov.CachedEnemies, cov.TotalEnemies, cov.Percentage)
				return nil
			})
		},
	}

	var location, strategy string
	view := &cobra.Command{
		Use:   "view [name]",
		Short: "Show cached advice for an enemy instance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				entry, ok := a.svc.CacheView(strings.Join(args, " "), location)
				if !ok {
					return errors.New("no cached strategy found")
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), entry)
				}
				fmt.Fprintln(cmd.OutOrStdout(), heading(entry.CacheKey))
				fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(entry.Strategy))
				return nil
			})
		},
	}
	view.Flags().StringVarP(&location, "location", "l", "", "Enemy location")

	update := &cobra.Command{
		Use:   "update [name]",
		Short: "Overwrite cached advice for an enemy instance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				entry, err := a.svc.CacheUpdate(ctx, strings.Join(args, " "), location, strategy)
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), entry)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", heading("Updated"), entry.CacheKey)
				return nil
			})
		},
	}
	update.Flags().StringVarP(&location, "location", "l", "", "Enemy location")
	update.Flags().StringVarP(&strategy, "strategy", "s", "", "Advice text (required)")
	_ = update.MarkFlagRequired("strategy")

	debug := &cobra.Command{
		Use:   "debug",
		Short: "Cache size and a sample of keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app) error {
				info := a.svc.CacheDebug()
				if jsonOut {
					return printJSON(cmd.OutOrStdout(), info)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries\n", heading("Advisory cache"), info.Size)
				for _, k := range info.SampleKeys {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", k)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(stats, view, update, debug)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration (without the API key) to --config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			out := *cfg
			out.LLM.APIKey = ""
			if err := out.Save(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", heading("Wrote"), configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
