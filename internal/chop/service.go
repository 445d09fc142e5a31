// Package chop orchestrates the segmentation pipeline: parse the
// annotation file, plan segment boundaries against the source
// recording, then extract and write one output file per break point.
package chop

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maauso/prochop/internal/annotation"
	"github.com/maauso/prochop/internal/audio"
	"github.com/maauso/prochop/internal/plan"
	"github.com/maauso/prochop/internal/storage"
	"github.com/maauso/prochop/internal/wav"
)

// Request identifies the inputs of one chopping run.
type Request struct {
	// AudioPath is the source recording to be segmented.
	AudioPath string
	// AnnotationPath is the break point file.
	AnnotationPath string
}

// Result summarizes a completed run.
type Result struct {
	// Info is the source recording format.
	Info wav.Info
	// Files are the local paths written, in segment order.
	Files []string
}

// Service runs the chopping pipeline. A Service is configured once and
// can process multiple recordings sequentially.
type Service struct {
	store  storage.Storage
	logger *slog.Logger

	policy plan.Policy
	format Format

	trimSilence bool
	trimOpts    audio.TrimOpts

	status Status
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithPolicy selects the duplicate-name policy. Default is overwrite.
func WithPolicy(p plan.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithFormat selects the output container. Default is WAV.
func WithFormat(f Format) Option {
	return func(s *Service) {
		s.format = f
	}
}

// WithSilenceTrim enables silence removal at segment edges using the
// given options.
func WithSilenceTrim(opts audio.TrimOpts) Option {
	return func(s *Service) {
		s.trimSilence = true
		s.trimOpts = opts
	}
}

// NewService creates a Service writing segments through store.
func NewService(store storage.Storage, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:    store,
		logger:   logger,
		policy:   plan.PolicyOverwrite,
		format:   FormatWAV,
		trimOpts: audio.DefaultTrimOpts(),
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current pipeline stage.
func (s *Service) Status() Status {
	return s.status
}

// transitionTo moves the pipeline to the next stage. Transitions follow
// the linear run order; anything else is a programming error.
func (s *Service) transitionTo(to Status) error {
	if !canTransition(s.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.status, to)
	}
	s.status = to
	return nil
}

// fail marks the run failed and returns err unchanged.
func (s *Service) fail(err error) error {
	s.status = StatusFailed
	return err
}

// Run executes the pipeline for one recording. The first error aborts
// the run; there is no partial-success mode.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	s.status = StatusIdle

	if err := s.transitionTo(StatusParsing); err != nil {
		return nil, err
	}
	points, err := annotation.ParseFile(req.AnnotationPath)
	if err != nil {
		return nil, s.fail(err)
	}
	s.logger.Info("annotation parsed",
		slog.String("file", req.AnnotationPath),
		slog.Int("break_points", len(points)),
	)

	src, err := wav.Open(req.AudioPath)
	if err != nil {
		return nil, s.fail(err)
	}
	info := src.Info()
	s.logger.Info("source audio opened",
		slog.String("file", req.AudioPath),
		slog.Int("channels", info.Channels),
		slog.Int("sample_rate", info.SampleRate),
		slog.Int("bits_per_sample", info.BitsPerSample),
		slog.Float64("duration_sec", info.Duration()),
	)

	if err := s.transitionTo(StatusPlanning); err != nil {
		return nil, err
	}
	segments, err := plan.Plan(points, info, plan.Options{Policy: s.policy})
	if err != nil {
		return nil, s.fail(err)
	}

	extractor := audio.NewExtractor(s.trimSilence, s.trimOpts)
	labelWidth := annotation.MaxLabelLen(points)
	files := make([]string, 0, len(segments))

	for i, seg := range segments {
		if err := s.transitionTo(StatusExtracting); err != nil {
			return nil, err
		}
		frames, err := extractor.Extract(src, seg)
		if err != nil {
			return nil, s.fail(fmt.Errorf("extract segment %q: %w", seg.Label, err))
		}

		if err := s.transitionTo(StatusWriting); err != nil {
			return nil, err
		}
		data, err := s.format.encode(info, frames)
		if err != nil {
			return nil, s.fail(fmt.Errorf("encode segment %q: %w", seg.Label, err))
		}
		path, err := s.store.WriteSegment(ctx, seg.OutputName+s.format.Ext(), data)
		if err != nil {
			return nil, s.fail(fmt.Errorf("write segment %q: %w", seg.OutputName, err))
		}
		files = append(files, path)

		s.logger.Info("segment written",
			slog.String("label", fmt.Sprintf("%-*s", labelWidth, seg.Label)),
			slog.String("progress", fmt.Sprintf("%d/%d", i+1, len(segments))),
			slog.Float64("start_sec", float64(seg.Start)/float64(info.SampleRate)),
			slog.Float64("end_sec", float64(seg.End)/float64(info.SampleRate)),
			slog.String("path", path),
		)
	}

	if err := s.transitionTo(StatusDone); err != nil {
		return nil, err
	}
	return &Result{Info: info, Files: files}, nil
}
