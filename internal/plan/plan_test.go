package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/maauso/prochop/internal/annotation"
	"github.com/maauso/prochop/internal/wav"
)

// testInfo describes a one second mono recording at 8 kHz.
var testInfo = wav.Info{Channels: 1, SampleRate: 8000, BitsPerSample: 16, Frames: 8000}

func TestPlan_SegmentBoundaries(t *testing.T) {
	points := []annotation.BreakPoint{
		{Time: 0, Label: "a"},
		{Time: 0.25, Label: "b"},
		{Time: 0.5, Label: "c"},
	}

	segments, err := Plan(points, testInfo, Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}

	if len(segments) != len(points) {
		t.Fatalf("got %d segments, want %d (one per break point)", len(segments), len(points))
	}

	want := []Segment{
		{Start: 0, End: 2000, Label: "a", OutputName: "a"},
		{Start: 2000, End: 4000, Label: "b", OutputName: "b"},
		{Start: 4000, End: 8000, Label: "c", OutputName: "c"},
	}
	for i, seg := range segments {
		if seg != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, seg, want[i])
		}
	}
}

func TestPlan_RoundsToNearestFrame(t *testing.T) {
	points := []annotation.BreakPoint{
		{Time: 0, Label: "a"},
		// 0.100049s at 8kHz is 800.392 frames, rounds to 800
		{Time: 0.100049, Label: "b"},
	}

	segments, err := Plan(points, testInfo, Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if segments[1].Start != 800 {
		t.Errorf("rounded start = %d, want 800", segments[1].Start)
	}
}

func TestPlan_Boundaries(t *testing.T) {
	t.Run("break point at zero accepted", func(t *testing.T) {
		_, err := Plan([]annotation.BreakPoint{{Time: 0, Label: "a"}}, testInfo, Options{})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
	})

	t.Run("break point at exact duration accepted", func(t *testing.T) {
		points := []annotation.BreakPoint{
			{Time: 0, Label: "a"},
			{Time: 1.0, Label: "tail"},
		}
		segments, err := Plan(points, testInfo, Options{})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		// The final segment degenerates to zero frames but is still planned.
		last := segments[len(segments)-1]
		if last.Start != 8000 || last.End != 8000 {
			t.Errorf("final segment = [%d, %d), want [8000, 8000)", last.Start, last.End)
		}
	})
}

func TestPlan_OrderingErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []annotation.BreakPoint
		index  int
	}{
		{
			name: "time beyond duration",
			points: []annotation.BreakPoint{
				{Time: 0, Label: "a"},
				{Time: 1.5, Label: "b"},
			},
			index: 1,
		},
		{
			name: "non-monotonic times",
			points: []annotation.BreakPoint{
				{Time: 0.5, Label: "a"},
				{Time: 0.25, Label: "b"},
			},
			index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(tt.points, testInfo, Options{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var ordErr *OrderingError
			if !errors.As(err, &ordErr) {
				t.Fatalf("expected *OrderingError, got %T", err)
			}
			if ordErr.Index != tt.index {
				t.Errorf("Index = %d, want %d", ordErr.Index, tt.index)
			}
		})
	}
}

func TestPlan_EqualTimesAllowed(t *testing.T) {
	// Non-decreasing, not strictly increasing: equal times are valid
	// and produce an empty middle segment.
	points := []annotation.BreakPoint{
		{Time: 0, Label: "a"},
		{Time: 0.5, Label: "b"},
		{Time: 0.5, Label: "c"},
	}
	segments, err := Plan(points, testInfo, Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if segments[1].Start != segments[1].End {
		t.Errorf("middle segment = [%d, %d), want empty", segments[1].Start, segments[1].End)
	}
}

func TestPlan_NoBreakPoints(t *testing.T) {
	_, err := Plan(nil, testInfo, Options{})
	if !errors.Is(err, ErrNoBreakPoints) {
		t.Errorf("err = %v, want ErrNoBreakPoints", err)
	}
}

func TestPlan_DuplicatePolicies(t *testing.T) {
	points := []annotation.BreakPoint{
		{Time: 0, Label: "x"},
		{Time: 0.25, Label: "x"},
		{Time: 0.5, Label: "x"},
	}

	t.Run("overwrite gives every occurrence the same name", func(t *testing.T) {
		segments, err := Plan(points, testInfo, Options{Policy: PolicyOverwrite})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		for i, seg := range segments {
			if seg.OutputName != "x" {
				t.Errorf("segment %d OutputName = %q, want %q", i, seg.OutputName, "x")
			}
		}
	})

	t.Run("disambiguate yields unique names containing the label", func(t *testing.T) {
		segments, err := Plan(points, testInfo, Options{Policy: PolicyDisambiguate})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}

		names := make(map[string]bool)
		for _, seg := range segments {
			if names[seg.OutputName] {
				t.Errorf("duplicate output name %q", seg.OutputName)
			}
			names[seg.OutputName] = true
			if !strings.Contains(seg.OutputName, "x") {
				t.Errorf("output name %q does not contain label", seg.OutputName)
			}
		}
		if len(names) != 3 {
			t.Errorf("got %d distinct names, want 3", len(names))
		}
	})

	t.Run("disambiguate is deterministic", func(t *testing.T) {
		first, err := Plan(points, testInfo, Options{Policy: PolicyDisambiguate})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		second, err := Plan(points, testInfo, Options{Policy: PolicyDisambiguate})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}
		for i := range first {
			if first[i].OutputName != second[i].OutputName {
				t.Errorf("segment %d name differs between runs: %q vs %q", i, first[i].OutputName, second[i].OutputName)
			}
		}
	})

	t.Run("disambiguate bumps past claimed names", func(t *testing.T) {
		// A literal "x_2" label already claims the name the second "x"
		// would get; the policy must still produce unique names.
		clash := []annotation.BreakPoint{
			{Time: 0, Label: "x"},
			{Time: 0.2, Label: "x_2"},
			{Time: 0.4, Label: "x"},
		}
		segments, err := Plan(clash, testInfo, Options{Policy: PolicyDisambiguate})
		if err != nil {
			t.Fatalf("Plan() error = %v", err)
		}

		names := make(map[string]bool)
		for _, seg := range segments {
			if names[seg.OutputName] {
				t.Fatalf("duplicate output name %q", seg.OutputName)
			}
			names[seg.OutputName] = true
		}
	})
}
