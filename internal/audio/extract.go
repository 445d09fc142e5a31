// Package audio provides segment extraction and silence trimming over
// decoded WAV streams.
package audio

import (
	"github.com/maauso/prochop/internal/plan"
	"github.com/maauso/prochop/internal/wav"
)

// TrimOpts configures the behavior of silence trimming.
type TrimOpts struct {
	// ThresholdDB is the amplitude in dBFS below which a frame is
	// considered silent across all of its channels.
	// Default: -40 dBFS.
	ThresholdDB float64
}

// DefaultTrimOpts returns the default options for silence trimming.
func DefaultTrimOpts() TrimOpts {
	return TrimOpts{ThresholdDB: -40}
}

// Extractor slices segments out of a source stream. It holds the trim
// options so a single configuration applies to every segment of a run.
type Extractor struct {
	trim bool
	opts TrimOpts
}

// NewExtractor creates an Extractor. When trimSilence is true, leading
// and trailing frames below the threshold are removed from each segment.
func NewExtractor(trimSilence bool, opts TrimOpts) *Extractor {
	return &Extractor{trim: trimSilence, opts: opts}
}

// Extract returns the interleaved frames of seg from r, trimmed of edge
// silence when the extractor is configured to do so. A segment that is
// silent throughout degenerates to an empty frame buffer; the caller
// still writes it so every break point yields an output file.
func (e *Extractor) Extract(r *wav.Reader, seg plan.Segment) ([]byte, error) {
	frames, err := r.ReadFrames(seg.Start, seg.End-seg.Start)
	if err != nil {
		return nil, err
	}
	if e.trim {
		frames = TrimSilence(frames, r.Info(), e.opts)
	}
	return frames, nil
}
