package diarize

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Audio is decoded mono PCM ready for the clustering engine.
type Audio struct {
	Samples    []float32
	SampleRate int
}

// Duration in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate == 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

var ErrNotWAV = errors.New("not a RIFF/WAVE container")

const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// DecodeWAV parses a RIFF/WAVE container and returns mono PCM. 16-bit
// integer and 32-bit float payloads are supported; multi-channel audio is
// downmixed by averaging the samples of each frame.
func DecodeWAV(r io.Reader) (*Audio, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("wav header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		format     uint16
		channels   int
		sampleRate int
		bitDepth   int
		haveFmt    bool
	)

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, errors.New("wav: no data chunk")
			}
			return nil, fmt.Errorf("wav chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav: fmt chunk too small (%d bytes)", size)
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("wav fmt chunk: %w", err)
			}
			format = binary.LittleEndian.Uint16(buf[0:2])
			channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(buf[14:16]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, errors.New("wav: data chunk before fmt chunk")
			}
			payload := make([]byte, size)
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, fmt.Errorf("wav data chunk: %w", err)
			}
			samples, err := decodeSamples(payload, format, bitDepth, channels)
			if err != nil {
				return nil, err
			}
			return &Audio{Samples: samples, SampleRate: sampleRate}, nil

		default:
			// Skip unknown chunks; chunk payloads are word-aligned.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("wav skip %q chunk: %w", id, err)
			}
		}
	}
}

func decodeSamples(payload []byte, format uint16, bitDepth, channels int) ([]float32, error) {
	if channels < 1 {
		return nil, fmt.Errorf("wav: invalid channel count %d", channels)
	}

	switch {
	case format == formatPCM && bitDepth == 16:
		return downmix16(payload, channels), nil
	case format == formatIEEEFloat && bitDepth == 32:
		return downmixFloat32(payload, channels), nil
	default:
		return nil, fmt.Errorf("wav: unsupported encoding (format=%d bits=%d)", format, bitDepth)
	}
}

func downmix16(payload []byte, channels int) []float32 {
	frame := 2 * channels
	n := len(payload) / frame
	out := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			off := i*frame + c*2
			v := int16(binary.LittleEndian.Uint16(payload[off : off+2]))
			sum += float64(v) / 32768.0
		}
		out = append(out, float32(sum/float64(channels)))
	}
	return out
}

func downmixFloat32(payload []byte, channels int) []float32 {
	frame := 4 * channels
	n := len(payload) / frame
	out := make([]float32, 0, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			off := i*frame + c*4
			bits := binary.LittleEndian.Uint32(payload[off : off+4])
			sum += float64(math.Float32frombits(bits))
		}
		out = append(out, float32(sum/float64(channels)))
	}
	return out
}
