package audio

import (
	"encoding/binary"
	"math"

	"github.com/maauso/prochop/internal/wav"
)

// TrimSilence removes leading and trailing frames whose every channel
// stays below the amplitude threshold. It never removes more than the
// full buffer: a fully silent input returns an empty slice.
func TrimSilence(frames []byte, info wav.Info, opts TrimOpts) []byte {
	align := info.BlockAlign()
	if align == 0 || len(frames) < align {
		return frames
	}
	n := len(frames) / align
	threshold := math.Pow(10, opts.ThresholdDB/20)

	lead := 0
	for lead < n && frameSilent(frames, lead, info, threshold) {
		lead++
	}
	if lead == n {
		return frames[:0]
	}

	tail := n
	for tail > lead && frameSilent(frames, tail-1, info, threshold) {
		tail--
	}

	return frames[lead*align : tail*align]
}

// frameSilent reports whether every channel of frame i is below the
// linear amplitude threshold.
func frameSilent(frames []byte, i int, info wav.Info, threshold float64) bool {
	width := info.BitsPerSample / 8
	base := i * info.BlockAlign()
	for c := 0; c < info.Channels; c++ {
		if math.Abs(sampleAt(frames, base+c*width, width)) >= threshold {
			return false
		}
	}
	return true
}

// sampleAt decodes one little-endian PCM sample at a byte offset and
// normalizes it to [-1, 1]. 8-bit WAV samples are unsigned, wider ones
// are signed two's complement.
func sampleAt(data []byte, off, width int) float64 {
	switch width {
	case 1:
		return (float64(data[off]) - 128) / 128
	case 2:
		v := int16(binary.LittleEndian.Uint16(data[off : off+2]))
		return float64(v) / float64(math.MaxInt16+1)
	case 3:
		v := int32(data[off]) | int32(data[off+1])<<8 | int32(data[off+2])<<16
		if v&0x800000 != 0 {
			v |= ^0xffffff
		}
		return float64(v) / float64(1<<23)
	case 4:
		v := int32(binary.LittleEndian.Uint32(data[off : off+4]))
		return float64(v) / float64(math.MaxInt32+1)
	default:
		return 0
	}
}
