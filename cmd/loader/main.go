package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/shopstats-backend/config"
	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/ikkim/shopstats-backend/internal/ingest"
	"github.com/ikkim/shopstats-backend/internal/storage"
	"github.com/ikkim/shopstats-backend/pkg/logger"
	"github.com/spf13/cobra"
)

type loadOptions struct {
	users        string
	orders       string
	batchSize    int
	skipAnalysis bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.LogLevel(),
		Format:      cfg.Log.Format,
		Output:      os.Stderr,
		EnableColor: cfg.Log.Format == "console",
	})

	if err := newLoadCommand(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newLoadCommand(cfg *config.Config) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "loader",
		Short: "Replace the store's customers and orders with tabular sources",
		Long: "Reads customers and orders from .csv or .xlsx files, given as local paths or s3://bucket/key URIs, " +
			"reloads both tables, then prints a verification and analysis report.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runLoad(ctx, cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.users, "users", cfg.Ingest.UsersSource, "users source (.csv or .xlsx, path or s3:// URI)")
	cmd.Flags().StringVar(&opts.orders, "orders", cfg.Ingest.OrdersSource, "orders source (.csv or .xlsx, path or s3:// URI)")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", cfg.Ingest.BatchSize, "rows per insert statement")
	cmd.Flags().BoolVar(&opts.skipAnalysis, "skip-analysis", false, "skip the post-load analysis queries")

	return cmd
}

func runLoad(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *loadOptions) error {
	gdb, err := db.Open(&cfg.Database)
	if err != nil {
		logger.Error("Failed to open database", err)
		return err
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var objects ingest.ObjectOpener
	if storage.IsURI(opts.users) || storage.IsURI(opts.orders) {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3.Region, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.Endpoint)
		if err != nil {
			logger.Error("Failed to configure s3 storage", err)
			return err
		}
		objects = s3Storage
	}

	loader := ingest.NewLoader(gdb, ingest.NewSourceReader(objects))
	report, err := loader.Run(ctx, ingest.Options{
		UsersSource:  opts.users,
		OrdersSource: opts.orders,
		BatchSize:    opts.batchSize,
		SkipAnalysis: opts.skipAnalysis,
	})
	if err != nil {
		logger.Error("Ingestion failed", err)
		if report != nil {
			_ = report.Render(cmd.ErrOrStderr())
		}
		return err
	}

	return report.Render(cmd.OutOrStdout())
}
