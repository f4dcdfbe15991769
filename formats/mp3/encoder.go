// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audconv/utils"
)

const (
	// FrameSize is the number of samples per channel handed to the frame
	// encoder at a time. It matches one MPEG-1 Layer III frame.
	FrameSize = 1152

	// DefaultBitrate in kbps.
	DefaultBitrate = 128
)

// FrameEncoder turns blocks of int16 PCM into MP3 bytes. Encode may buffer
// internally and return nothing; Flush returns whatever is left.
type FrameEncoder interface {
	// Encode submits one block. right is nil for mono input.
	Encode(left, right []int16) ([]byte, error)
	Flush() ([]byte, error)
	Close() error
}

// NewFrameEncoderFunc opens a FrameEncoder for the given stream layout.
type NewFrameEncoderFunc func(sampleRate, channels, bitrateKbps int) (FrameEncoder, error)

type encodeConfig struct {
	bitrate  int
	progress func(percent float64)
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeConfig)

// WithBitrate sets the constant bitrate in kbps.
func WithBitrate(kbps int) EncodeOption {
	return func(c *encodeConfig) {
		c.bitrate = kbps
	}
}

// WithProgress registers a callback receiving processed/total in percent
// after every block, and 100 once the encoder has been flushed.
func WithProgress(fn func(percent float64)) EncodeOption {
	return func(c *encodeConfig) {
		c.progress = fn
	}
}

// Encode feeds planar float channels to a FrameEncoder in blocks of
// FrameSize and writes the produced bytes to w in order.
//
// On failure the bytes already written to w are an incomplete stream and
// must be discarded by the caller.
func Encode(ctx context.Context, w io.Writer, newEncoder NewFrameEncoderFunc, channels [][]float32, sampleRate int, opts ...EncodeOption) (err error) {
	cfg := encodeConfig{bitrate: DefaultBitrate}
	for _, opt := range opts {
		opt(&cfg)
	}

	if newEncoder == nil {
		return ErrNoEncoder
	}

	if len(channels) < 1 || len(channels) > 2 {
		return fmt.Errorf("%w: got %d", ErrUnsupportedChannels, len(channels))
	}

	if len(channels) == 2 && len(channels[0]) != len(channels[1]) {
		return ErrChannelLengthMismatch
	}

	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	if cfg.bitrate <= 0 {
		return ErrInvalidBitrate
	}

	enc, err := newEncoder(sampleRate, len(channels), cfg.bitrate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoderFailed, err)
	}

	defer func() {
		if cerr := enc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrEncoderFailed, cerr)
		}
	}()

	total := len(channels[0])
	left := make([]int16, min(total, FrameSize))

	var right []int16
	if len(channels) == 2 {
		right = make([]int16, len(left))
	}

	for start := 0; start < total; start += FrameSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+FrameSize, total)
		size := end - start

		l := left[:size]
		for i, s := range channels[0][start:end] {
			l[i] = utils.FloatToInt16(s)
		}

		var r []int16
		if right != nil {
			r = right[:size]
			for i, s := range channels[1][start:end] {
				r[i] = utils.FloatToInt16(s)
			}
		}

		out, err := enc.Encode(l, r)
		if err != nil {
			return fmt.Errorf("%w: block at sample %d: %w", ErrEncoderFailed, start, err)
		}

		if err := write(w, out); err != nil {
			return err
		}

		report(cfg.progress, float64(end)/float64(total)*100)
	}

	out, err := enc.Flush()
	if err != nil {
		return fmt.Errorf("%w: flush: %w", ErrEncoderFailed, err)
	}

	if err := write(w, out); err != nil {
		return err
	}

	report(cfg.progress, 100)

	return nil
}

func write(w io.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	if _, err := w.Write(p); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func report(fn func(float64), percent float64) {
	if fn != nil {
		fn(percent)
	}
}
