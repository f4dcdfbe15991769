// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audconv/utils"
)

// HeaderSize is the size of the canonical PCM header written by WriteWAV16.
const HeaderSize = 44

// chunkSize is how many int16 samples are converted and written at a time.
// Encode rounds it down to whole frames.
const chunkSize = 8192

type encodeConfig struct {
	bitsPerSample int
	progress      func(percent float64)
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeConfig)

// WithBitsPerSample selects the sample width. Only 16 is supported.
func WithBitsPerSample(bits int) EncodeOption {
	return func(c *encodeConfig) {
		c.bitsPerSample = bits
	}
}

// WithProgress registers a callback receiving the written share of the PCM
// data in percent after every chunk. The last call is always 100.
func WithProgress(fn func(percent float64)) EncodeOption {
	return func(c *encodeConfig) {
		c.progress = fn
	}
}

// Encode writes planar float channels as an interleaved 16-bit PCM WAV file.
// ctx is checked between chunks; a cancelled encode leaves w truncated.
func Encode(ctx context.Context, w io.Writer, channels [][]float32, sampleRate int, opts ...EncodeOption) error {
	cfg := encodeConfig{bitsPerSample: 16}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.bitsPerSample != 16 {
		return fmt.Errorf("%w: got %d bits", ErrOnlyPCM16bitSupported, cfg.bitsPerSample)
	}

	if len(channels) == 0 {
		return ErrNoChannels
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return ErrChannelLengthMismatch
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeHeader(w, sampleRate, len(channels), frames*len(channels)); err != nil {
		return err
	}

	if frames == 0 {
		report(cfg.progress, 100)
		return nil
	}

	step := max(1, chunkSize/len(channels))
	block := make([][]float32, len(channels))
	buf := make([]byte, min(frames, step)*len(channels)*2)

	for start := 0; start < frames; start += step {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+step, frames)
		for c, ch := range channels {
			block[c] = ch[start:end]
		}

		samples := utils.FloatsToInt16(utils.Interleave(block))
		if _, err := w.Write(putSamples(buf, samples)); err != nil {
			return fmt.Errorf("%w", err)
		}

		report(cfg.progress, float64(end)/float64(frames)*100)
	}

	return nil
}

// WriteWAV16 writes 16-bit PCM WAV at sampleRate. samples must be
// interleaved int16 PCM with numChannels values per frame.
func WriteWAV16(w io.Writer, sampleRate, numChannels int, samples []int16) error {
	if err := writeHeader(w, sampleRate, numChannels, len(samples)); err != nil {
		return err
	}

	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		if _, err := w.Write(putSamples(buf, samples[i:min(i+chunkSize, len(samples))])); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

func writeHeader(w io.Writer, sampleRate, numChannels, numSamples int) error {
	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if numChannels <= 0 || numChannels > math.MaxUint16/2 {
		return ErrNoChannels
	}

	if uint64(numSamples)*2 > math.MaxUint32-36 {
		return ErrDataTooLarge
	}

	if _, err := w.Write(header(sampleRate, numChannels, uint32(numSamples*2))); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// putSamples encodes samples little-endian into the front of buf.
func putSamples(buf []byte, samples []int16) []byte {
	out := buf[:len(samples)*2]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}

	return out
}

// header builds the 44 byte RIFF/WAVE header for 16-bit PCM.
func header(sampleRate, numChannels int, dataSize uint32) []byte {
	const bitsPerSample = 16

	blockAlign := uint16(numChannels) * bitsPerSample / 8
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	h := make([]byte, HeaderSize)

	// RIFF header (12 bytes)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataSize)
	copy(h[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(h[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], byteRate)
	binary.LittleEndian.PutUint16(h[32:34], blockAlign)
	binary.LittleEndian.PutUint16(h[34:36], bitsPerSample)

	// data chunk header (8 bytes)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)

	return h
}

func report(fn func(float64), percent float64) {
	if fn != nil {
		fn(percent)
	}
}
