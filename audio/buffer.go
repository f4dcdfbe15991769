// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audconv/utils"
)

// MaxChannels is the widest layout a Buffer holds. Wider sources are folded
// down to mono by ReadAll.
const MaxChannels = 2

const maxEmptyReads = 3

// Buffer is fully decoded planar PCM. It is treated as immutable once built:
// range selection hands out sub-slices of Data rather than copies.
type Buffer struct {
	// Data holds one slice per channel, every one Length frames long.
	Data       [][]float32
	SampleRate int
	Channels   int
	// Length is the number of frames per channel.
	Length int
}

// NewBuffer validates planar data and wraps it in a Buffer.
func NewBuffer(data [][]float32, sampleRate int) (*Buffer, error) {
	if len(data) == 0 || len(data) > MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrNoAudio, len(data))
	}

	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	length := len(data[0])
	for _, ch := range data[1:] {
		if len(ch) != length {
			return nil, ErrChannelLengthMismatch
		}
	}

	return &Buffer{
		Data:       data,
		SampleRate: sampleRate,
		Channels:   len(data),
		Length:     length,
	}, nil
}

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	if b == nil || b.SampleRate == 0 {
		return 0
	}

	return float64(b.Length) / float64(b.SampleRate)
}

// ReadAll drains src into a Buffer and closes it. Sources with more than
// MaxChannels channels are mixed down to mono.
func ReadAll(src Source) (*Buffer, error) {
	return ReadAllContext(context.Background(), src)
}

// ReadAllContext is ReadAll with cancellation checked between reads.
func ReadAllContext(ctx context.Context, src Source) (*Buffer, error) {
	defer src.Close()

	var stream Source = src
	if src.Channels() > MaxChannels {
		stream = NewMonoMixer(src)
	}

	channels := stream.Channels()
	if channels <= 0 {
		return nil, ErrNoAudio
	}

	if stream.SampleRate() <= 0 {
		return nil, ErrInvalidSampleRate
	}

	// The mixer reads BufSize frames from its source per call, so size the
	// buffer in frames of the output layout.
	size := max(stream.BufSize(), 1024)
	size -= size % channels
	buf := make([]float32, size)

	var interleaved []float32
	empty := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := stream.ReadSamples(buf)
		if n > 0 {
			interleaved = append(interleaved, buf[:n]...)
			empty = 0
		} else {
			empty++
		}

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		// some decoders signal the end with 0, nil
		if empty >= maxEmptyReads {
			break
		}
	}

	return NewBuffer(utils.Deinterleave(interleaved, channels), stream.SampleRate())
}
