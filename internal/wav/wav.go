// Package wav reads and writes uncompressed RIFF/WAVE audio files.
// It supports linear PCM with 1 or 2 channels and 8, 16, 24 or 32 bits
// per sample, which covers the recordings produced by prompt-and-record
// tools. Compressed encodings are rejected.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnsupportedFormat is returned when a file is not linear PCM,
// has an unsupported channel count or bit depth, or has a header
// that cannot be parsed.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// headerSize is the size of the canonical 44-byte header written by Encode.
const headerSize = 44

// Info describes the format of a WAV stream.
type Info struct {
	// Channels is the number of interleaved channels (1 or 2).
	Channels int
	// SampleRate is the sampling frequency in Hz.
	SampleRate int
	// BitsPerSample is the sample width in bits (8, 16, 24 or 32).
	BitsPerSample int
	// Frames is the total number of frames (one sample per channel).
	Frames int
}

// Duration returns the stream length in seconds.
func (i Info) Duration() float64 {
	if i.SampleRate == 0 {
		return 0
	}
	return float64(i.Frames) / float64(i.SampleRate)
}

// BlockAlign returns the size of one frame in bytes.
func (i Info) BlockAlign() int {
	return i.Channels * i.BitsPerSample / 8
}

func (i Info) validate() error {
	if i.Channels != 1 && i.Channels != 2 {
		return fmt.Errorf("%w: %d channels (only mono and stereo are supported)", ErrUnsupportedFormat, i.Channels)
	}
	switch i.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, i.BitsPerSample)
	}
	if i.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, i.SampleRate)
	}
	return nil
}

// Reader provides random access to the frames of a decoded WAV stream.
// The data chunk is held in memory, which is acceptable for the
// recording lengths this tool targets.
type Reader struct {
	info Info
	data []byte
}

// Open reads and decodes the WAV file at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r, nil
}

// NewReader decodes a WAV stream from r.
// It walks the RIFF chunk list to locate the fmt and data chunks, so
// files with extra chunks (LIST, cue, bext) decode correctly.
func NewReader(r io.Reader) (*Reader, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: truncated RIFF header", ErrUnsupportedFormat)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE file", ErrUnsupportedFormat)
	}

	var (
		info    Info
		data    []byte
		haveFmt bool
	)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk too short", ErrUnsupportedFormat)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("%w: truncated fmt chunk", ErrUnsupportedFormat)
			}
			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("%w: audio format %d (only PCM is supported)", ErrUnsupportedFormat, audioFormat)
			}
			info.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			if err := info.validate(); err != nil {
				return nil, err
			}
			haveFmt = true
		case "data":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("%w: truncated data chunk", ErrUnsupportedFormat)
			}
			data = body
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("%w: truncated %q chunk", ErrUnsupportedFormat, id)
			}
		}
		// Chunks are word aligned: odd sizes carry one pad byte.
		if size%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read chunk padding: %w", err)
			}
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrUnsupportedFormat)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrUnsupportedFormat)
	}

	align := info.BlockAlign()
	info.Frames = len(data) / align
	// Drop a trailing partial frame rather than failing the whole file.
	data = data[:info.Frames*align]

	return &Reader{info: info, data: data}, nil
}

// Info returns the stream format.
func (r *Reader) Info() Info {
	return r.info
}

// ReadFrames returns a copy of n interleaved frames starting at frame
// index start. The range [start, start+n) must lie within the stream.
func (r *Reader) ReadFrames(start, n int) ([]byte, error) {
	if start < 0 || n < 0 || start+n > r.info.Frames {
		return nil, fmt.Errorf("frame range [%d, %d) out of bounds (stream has %d frames)", start, start+n, r.info.Frames)
	}
	align := r.info.BlockAlign()
	out := make([]byte, n*align)
	copy(out, r.data[start*align:(start+n)*align])
	return out, nil
}

// Encode serializes interleaved PCM frames into a complete WAV file image
// with a canonical 44-byte header. A zero-length frame buffer is valid and
// produces a header-only file.
func Encode(info Info, frames []byte) ([]byte, error) {
	if err := info.validate(); err != nil {
		return nil, err
	}
	align := info.BlockAlign()
	if len(frames)%align != 0 {
		return nil, fmt.Errorf("frame data length %d is not a multiple of block align %d", len(frames), align)
	}

	dataSize := uint32(len(frames))
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(frames)))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(headerSize-8)+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(info.Channels))
	binary.Write(buf, binary.LittleEndian, uint32(info.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(info.SampleRate*align))
	binary.Write(buf, binary.LittleEndian, uint16(align))
	binary.Write(buf, binary.LittleEndian, uint16(info.BitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(frames)

	return buf.Bytes(), nil
}

// WriteFile encodes frames with the given format and writes the result
// to path, overwriting any existing file.
func WriteFile(path string, info Info, frames []byte) error {
	data, err := Encode(info, frames)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	return nil
}
