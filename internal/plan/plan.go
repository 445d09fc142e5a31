// Package plan turns break points into concrete segment boundaries.
// Each break point marks the start of a segment that ends where the
// next one begins; the final segment runs to the end of the recording.
package plan

import (
	"errors"
	"fmt"
	"math"

	"github.com/maauso/prochop/internal/annotation"
	"github.com/maauso/prochop/internal/wav"
)

// ErrNoBreakPoints is returned when Plan is called with an empty sequence.
var ErrNoBreakPoints = errors.New("no break points to plan")

// Policy selects how segments sharing a label map to output filenames.
type Policy int

const (
	// PolicyOverwrite gives every occurrence of a label the same output
	// name; writing in input order means the last occurrence wins.
	PolicyOverwrite Policy = iota
	// PolicyDisambiguate appends a numeric suffix to repeated labels so
	// every segment maps to a unique output name.
	PolicyDisambiguate
)

// Options configures planning.
type Options struct {
	// Policy resolves duplicate labels. Defaults to PolicyOverwrite.
	Policy Policy
}

// Segment is a contiguous frame range to be written as one output file.
type Segment struct {
	// Start is the first frame of the segment.
	Start int
	// End is one past the last frame. End == Start only for a degenerate
	// segment whose break point sits at the exact end of the recording.
	End int
	// Label is the raw label from the annotation file.
	Label string
	// OutputName is the filename base after duplicate resolution.
	OutputName string
}

// OrderingError describes a break point whose time is out of range or
// earlier than its predecessor.
type OrderingError struct {
	// Index is the 0-based position of the break point in input order.
	Index int
	// Time is the offending time value in seconds.
	Time float64
	// Reason explains the violation.
	Reason string
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("break point %d (t=%gs): %s", e.Index+1, e.Time, e.Reason)
}

// Plan derives segment boundaries from points against a recording with
// the given format. Times are converted to frame indices by rounding to
// the nearest frame. Points must be monotonically non-decreasing and
// must not exceed the recording duration.
func Plan(points []annotation.BreakPoint, info wav.Info, opts Options) ([]Segment, error) {
	if len(points) == 0 {
		return nil, ErrNoBreakPoints
	}

	duration := info.Duration()
	frames := make([]int, len(points))
	for i, p := range points {
		if i > 0 && p.Time < points[i-1].Time {
			return nil, &OrderingError{
				Index: i, Time: p.Time,
				Reason: fmt.Sprintf("earlier than preceding break point at %gs", points[i-1].Time),
			}
		}
		if p.Time > duration {
			return nil, &OrderingError{
				Index: i, Time: p.Time,
				Reason: fmt.Sprintf("beyond the end of the recording (%gs)", duration),
			}
		}
		idx := int(math.Round(p.Time * float64(info.SampleRate)))
		if idx > info.Frames {
			idx = info.Frames
		}
		frames[i] = idx
	}

	segments := make([]Segment, len(points))
	for i, p := range points {
		end := info.Frames
		if i+1 < len(points) {
			end = frames[i+1]
		}
		segments[i] = Segment{Start: frames[i], End: end, Label: p.Label}
	}

	resolveNames(segments, opts.Policy)
	return segments, nil
}

// resolveNames assigns OutputName to every segment per the policy.
// Disambiguation is deterministic given input order: the first occurrence
// of a label keeps the bare name, repeats get _2, _3, and so on, bumping
// past any name an earlier segment already claimed.
func resolveNames(segments []Segment, policy Policy) {
	if policy == PolicyOverwrite {
		for i := range segments {
			segments[i].OutputName = segments[i].Label
		}
		return
	}

	seen := make(map[string]int, len(segments))
	used := make(map[string]bool, len(segments))
	for i := range segments {
		label := segments[i].Label
		seen[label]++

		name := label
		if seen[label] > 1 {
			name = fmt.Sprintf("%s_%d", label, seen[label])
		}
		for used[name] {
			seen[label]++
			name = fmt.Sprintf("%s_%d", label, seen[label])
		}

		segments[i].OutputName = name
		used[name] = true
	}
}
