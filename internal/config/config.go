// Package config provides configuration for the prochop tool.
// Per-invocation inputs (paths, format, policy toggles) come from the
// command line; ambient settings come from PROCHOP_* environment
// variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Static errors for configuration validation.
var (
	// ErrAudioPathRequired is returned when no source audio file is given.
	ErrAudioPathRequired = errors.New("config: audio file path is required (-a)")
	// ErrAnnotationPathRequired is returned when no annotation file is given.
	ErrAnnotationPathRequired = errors.New("config: annotation file path is required (-t)")
	// ErrOutputDirRequired is returned when no output directory is given.
	ErrOutputDirRequired = errors.New("config: output directory is required (-o)")
)

// Config holds all configuration for one invocation.
type Config struct {
	// Invocation inputs, filled from command-line flags.
	AudioPath      string `json:"audio_path" validate:"required"`
	AnnotationPath string `json:"annotation_path" validate:"required"`
	OutputDir      string `json:"output_dir" validate:"required"`

	// OutputFormat selects the output container.
	OutputFormat string `env:"PROCHOP_OUTPUT_FORMAT, default=wav" json:"output_format" validate:"oneof=wav WAV"`

	// KeepDuplicates switches the duplicate-name policy from overwrite
	// to numeric disambiguation.
	KeepDuplicates bool `env:"PROCHOP_KEEP_DUPLICATES" json:"keep_duplicates"`

	// RemoveSilence enables trimming of silent segment edges.
	RemoveSilence bool `env:"PROCHOP_REMOVE_SILENCE" json:"remove_silence"`

	// SilenceThreshDB is the silence threshold in dBFS.
	SilenceThreshDB float64 `env:"PROCHOP_SILENCE_THRESHOLD_DB, default=-40" json:"silence_thresh_db" validate:"lt=0"`

	// Optional S3 archive settings
	S3Bucket           string `env:"PROCHOP_S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"PROCHOP_S3_REGION" json:"s3_region,omitempty"`
	S3Prefix           string `env:"PROCHOP_S3_PREFIX" json:"s3_prefix,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"PROCHOP_LOG_FORMAT, default=text" json:"log_format" validate:"oneof=json text"`
	LogLevel  string `env:"PROCHOP_LOG_LEVEL, default=info" json:"log_level" validate:"oneof=debug info warn warning error"`
}

// S3Enabled returns true if S3 archival is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads the ambient configuration from environment variables using
// go-envconfig. Invocation inputs are filled by the caller afterwards.
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and that
// enumerated fields hold supported values.
func (c *Config) Validate() error {
	if c.AudioPath == "" {
		return ErrAudioPathRequired
	}
	if c.AnnotationPath == "" {
		return ErrAnnotationPathRequired
	}
	if c.OutputDir == "" {
		return ErrOutputDirRequired
	}
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config: invalid %s value %v", fe.Field(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for batch
// pipelines. Otherwise, it outputs human-readable text logs.
// Logs go to stderr so they never interleave with -I/help output.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{AudioPath: %s, AnnotationPath: %s, OutputDir: %s, OutputFormat: %s, KeepDuplicates: %t, RemoveSilence: %t, SilenceThreshDB: %g, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.AudioPath,
		c.AnnotationPath,
		c.OutputDir,
		c.OutputFormat,
		c.KeepDuplicates,
		c.RemoveSilence,
		c.SilenceThreshDB,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
