// Package main provides the entry point for the prochop tool, which
// chops one continuous recording into separate files based on an
// annotation file of break points.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/maauso/prochop/internal/bootstrap"
	"github.com/maauso/prochop/internal/chop"
	"github.com/maauso/prochop/internal/config"
)

const version = "0.1.1"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("prochop", flag.ContinueOnError)
	var (
		audioPath      = fs.String("a", "", "Audio file to be segmented into separate files. Can be 1 or 2 channels.")
		annotationPath = fs.String("t", "", "Annotation text file containing the break points. Each line is a time in seconds, TAB, and a filename label.")
		outputDir      = fs.String("o", "", "Output directory where the separate files are placed. Created if absent.")
		outputFormat   = fs.String("f", "", "Output file format. Defaults to WAV.")
		keepDuplicates = fs.Bool("k", false, "Keep duplicate names: repeated labels get a numbered suffix instead of overwriting earlier files.")
		removeSilence  = fs.Bool("s", false, "Remove silence at the start and end of each segment.")
		showVersion    = fs.Bool("I", false, "Report version number and exit.")
	)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *showVersion {
		fmt.Println(version)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load ambient configuration from environment
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Command-line flags override the environment
	cfg.AudioPath = *audioPath
	cfg.AnnotationPath = *annotationPath
	cfg.OutputDir = *outputDir
	if *outputFormat != "" {
		cfg.OutputFormat = *outputFormat
	}
	if *keepDuplicates {
		cfg.KeepDuplicates = true
	}
	if *removeSilence {
		cfg.RemoveSilence = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create structured logger
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting prochop",
		slog.String("version", version),
		slog.String("audio", cfg.AudioPath),
		slog.String("annotations", cfg.AnnotationPath),
		slog.String("output_dir", cfg.OutputDir),
		slog.String("output_format", cfg.OutputFormat),
		slog.Bool("keep_duplicates", cfg.KeepDuplicates),
		slog.Bool("remove_silence", cfg.RemoveSilence),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	// Initialize dependencies using bootstrap
	deps, err := bootstrap.NewDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	result, err := deps.Service.Run(ctx, chop.Request{
		AudioPath:      cfg.AudioPath,
		AnnotationPath: cfg.AnnotationPath,
	})
	if err != nil {
		return err
	}

	logger.Info("chopping completed",
		slog.Int("segments", len(result.Files)),
		slog.Float64("source_duration_sec", result.Info.Duration()),
	)
	return nil
}
