// Package bootstrap provides dependency initialization for prochop.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/maauso/prochop/internal/audio"
	"github.com/maauso/prochop/internal/chop"
	"github.com/maauso/prochop/internal/config"
	"github.com/maauso/prochop/internal/plan"
	"github.com/maauso/prochop/internal/storage"
)

// Dependencies holds all initialized dependencies for a run.
type Dependencies struct {
	Service *chop.Service
}

// NewDependencies creates and initializes all dependencies for the tool.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	format, err := chop.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	opts := []chop.Option{
		chop.WithFormat(format),
	}
	if cfg.KeepDuplicates {
		opts = append(opts, chop.WithPolicy(plan.PolicyDisambiguate))
	}
	if cfg.RemoveSilence {
		opts = append(opts, chop.WithSilenceTrim(audio.TrimOpts{
			ThresholdDB: cfg.SilenceThreshDB,
		}))
	}

	svc := chop.NewService(store, logger, opts...)

	return &Dependencies{
		Service: svc,
	}, nil
}

// initStorage creates the appropriate output sink based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.OutputDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 archive configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local output configured",
		slog.String("output_dir", cfg.OutputDir),
	)
	return localStore, nil
}
