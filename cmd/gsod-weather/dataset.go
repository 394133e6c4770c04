package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/i474232898/gsod-weather/internal/config"
	"github.com/i474232898/gsod-weather/internal/dataset"
	bqdataset "github.com/i474232898/gsod-weather/internal/dataset/bigquery"
	"github.com/i474232898/gsod-weather/internal/dataset/postgres"
	"github.com/i474232898/gsod-weather/internal/dataset/sqlite"
)

// openDataset connects the configured backend and returns it with its closer.
func openDataset(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (dataset.Executor, func(), error) {
	switch cfg.Backend {
	case config.BackendBigQuery:
		exec, err := bqdataset.New(ctx, bqdataset.Config{
			ProjectID:       cfg.BigQueryProject,
			CredentialsFile: cfg.CredentialsFile,
			Location:        cfg.BigQueryLocation,
		})
		if err != nil {
			return nil, nil, err
		}
		return exec, func() {
			if err := exec.Close(); err != nil {
				logger.Error("failed to close bigquery client", "error", err)
			}
		}, nil

	case config.BackendSQLite:
		exec, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if cfg.ApplySchema {
			if err := exec.ApplySchema(ctx); err != nil {
				_ = exec.Close()
				return nil, nil, err
			}
		}
		return exec, func() {
			if err := exec.Close(); err != nil {
				logger.Error("failed to close sqlite database", "error", err)
			}
		}, nil

	case config.BackendPostgres:
		exec, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.ApplySchema {
			if err := exec.ApplySchema(ctx); err != nil {
				exec.Close()
				return nil, nil, err
			}
		}
		return exec, exec.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset backend %q", cfg.Backend)
}
