// SPDX-License-Identifier: EPL-2.0

package audconv

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audconv/formats"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/formats/wav"
)

type options struct {
	bitrate  int
	progress func(percent float64)
	newMP3   mp3.NewFrameEncoderFunc
}

// Option configures Encode.
type Option func(*options)

// WithBitrate sets the MP3 bitrate in kbps. It is ignored for WAV.
func WithBitrate(kbps int) Option {
	return func(o *options) {
		o.bitrate = kbps
	}
}

// WithProgress registers a callback for encoding progress in percent.
// Reports never decrease and end at 100.
func WithProgress(fn func(percent float64)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithMP3Encoder selects the MP3 frame encoder backend, for example
// lame.NewFrameEncoder. MP3 output fails with mp3.ErrNoEncoder without one.
func WithMP3Encoder(fn mp3.NewFrameEncoderFunc) Option {
	return func(o *options) {
		o.newMP3 = fn
	}
}

// Encode writes planar float channels to w in the requested container.
//
// Encoding is synchronous. Run it through the worker package to keep it off
// an interactive goroutine.
func Encode(ctx context.Context, w io.Writer, channels [][]float32, sampleRate int, format formats.Format, opts ...Option) error {
	o := options{bitrate: mp3.DefaultBitrate}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	switch format {
	case formats.WAV:
		return wav.Encode(ctx, w, channels, sampleRate, wav.WithProgress(o.progress))

	case formats.MP3:
		return mp3.Encode(ctx, w, o.newMP3, channels, sampleRate,
			mp3.WithBitrate(o.bitrate),
			mp3.WithProgress(o.progress),
		)

	default:
		return fmt.Errorf("%w: %q", formats.ErrUnknownFormat, string(format))
	}
}
