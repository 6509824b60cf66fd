package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"logoobjects/internal/domain"
	"logoobjects/internal/domain/mirror"
	"logoobjects/internal/infrastructure/storage/postgres"
	"logoobjects/pkg/logger"
)

func newMirrorCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Copy entities into PostgreSQL and read the copies back",
	}
	cmd.AddCommand(newMirrorSyncCommand(a), newMirrorShowCommand(a))
	return cmd
}

func newMirrorSyncCommand(a *app) *cobra.Command {
	var (
		qf       queryFlags
		pageSize int
		maxPages int
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "sync [entity...]",
		Short: "Page entities out of the API into the mirror database",
		Example: `  logoctl mirror sync banks salesmen
  logoctl mirror sync items --filter '{"cardType":1}' --page-size 500
  logoctl mirror sync --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if all {
				names = nil
				for _, def := range a.registry.List() {
					names = append(names, def.Name)
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("name at least one entity or pass --all")
			}
			criteria, err := qf.criteria()
			if err != nil {
				return err
			}

			req, err := a.requester()
			if err != nil {
				return err
			}
			return a.withMirror(cmd.Context(), func(ctx context.Context, store *postgres.MirrorStore, txm *postgres.TxManager) error {
				if pageSize <= 0 {
					pageSize = a.cfg.Mirror.PageSize
				}
				if a.strict() {
					a.registry.EnforceFields()
				}
				svc := mirror.NewService(req, a.registry, store, txm)

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				defer w.Flush()
				fmt.Fprintln(w, "ENTITY\tPAGES\tRECORDS\tSKIPPED\tDURATION")
				for _, name := range names {
					run, err := svc.Sync(ctx, name, mirror.SyncOptions{
						PageSize: pageSize,
						MaxPages: maxPages,
						Criteria: criteria,
						Q:        qf.q,
					})
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", run.Entity, run.Pages, run.Records, run.Skipped,
						run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&qf.filter, "filter", "f", "", "criteria as JSON")
	cmd.Flags().StringVarP(&qf.q, "q", "q", "", "raw filter expression; replaces --filter")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "records per request (default from config)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "stop after this many pages, 0 for no limit")
	cmd.Flags().BoolVar(&all, "all", false, "mirror every known entity")
	return cmd
}

func newMirrorShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <entity> <ref>",
		Short: "Print the mirrored copy of one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withMirror(cmd.Context(), func(ctx context.Context, store *postgres.MirrorStore, txm *postgres.TxManager) error {
				var rec domain.Record
				err := txm.ReadOnly(ctx, func(ctx context.Context) error {
					var err error
					rec, err = mirror.NewService(nil, a.registry, store, txm).Get(ctx, args[0], ref)
					return err
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}
}

// withMirror opens the mirror database, ensures its schema and runs fn.
func (a *app) withMirror(ctx context.Context, fn func(ctx context.Context, store *postgres.MirrorStore, txm *postgres.TxManager) error) error {
	cfg, err := a.load()
	if err != nil {
		return err
	}
	if cfg.Mirror.DSN == "" {
		return fmt.Errorf("mirror database not configured, set LOGO_MIRROR_DSN")
	}
	ctx = logger.WithLogger(ctx, a.currentLogger())

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Mirror.DSN))
	if err != nil {
		return err
	}
	defer pool.Close()
	defer postgres.LogPoolStats(ctx, pool.Pool)

	txm := postgres.NewTxManager(pool)
	store, err := postgres.NewMirrorStore(txm)
	if err != nil {
		return err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(ctx, store, txm)
}
