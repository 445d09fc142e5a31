package chop

import (
	"fmt"
	"strings"

	"github.com/maauso/prochop/internal/wav"
)

// Format is the output container for chopped segments. The variant is
// selected once at startup; each variant has one encoder.
type Format int

const (
	// FormatWAV writes RIFF/WAVE files with the source sample format.
	FormatWAV Format = iota
)

// ParseFormat converts a format name from the command line to a Format.
// The legacy SFS export of the original ProChop tool is intentionally
// not supported.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "wav":
		return FormatWAV, nil
	default:
		return 0, fmt.Errorf("unsupported output format %q (only wav is supported)", s)
	}
}

// Ext returns the filename extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatWAV:
		return ".wav"
	default:
		return ""
	}
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// encode serializes frames into the selected container.
func (f Format) encode(info wav.Info, frames []byte) ([]byte, error) {
	switch f {
	case FormatWAV:
		return wav.Encode(info, frames)
	default:
		return nil, fmt.Errorf("unsupported output format %v", f)
	}
}
