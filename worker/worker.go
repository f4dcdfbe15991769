// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"context"
	"fmt"

	"github.com/ik5/audconv/blob"
	"github.com/ik5/audconv/formats"
	"github.com/ik5/audconv/formats/mp3"
	"go.uber.org/zap"
)

// Job is one encoding request. Channels are planar samples in [-1, 1].
type Job struct {
	Channels    [][]float32    `msgpack:"channels"`
	SampleRate  int            `msgpack:"sample_rate"`
	Format      formats.Format `msgpack:"format"`
	BitrateKbps int            `msgpack:"bitrate_kbps,omitempty"`
}

// Frames is the per-channel length.
func (j Job) Frames() int {
	if len(j.Channels) == 0 {
		return 0
	}
	return len(j.Channels[0])
}

func (j Job) validate() error {
	if !j.Format.Valid() {
		return fmt.Errorf("%w: format %q", ErrInvalidJob, string(j.Format))
	}

	if len(j.Channels) < 1 || len(j.Channels) > 2 {
		return fmt.Errorf("%w: %d channels", ErrInvalidJob, len(j.Channels))
	}

	if j.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidJob, j.SampleRate)
	}

	return nil
}

// Kind tells messages apart.
type Kind uint8

const (
	KindProgress Kind = iota + 1
	KindDone
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message flows from a task to its owner. Done carries the encoded blob,
// Error a human readable reason.
type Message struct {
	Kind     Kind       `msgpack:"kind"`
	Progress float64    `msgpack:"progress,omitempty"`
	Blob     *blob.Blob `msgpack:"blob,omitempty"`
	Error    string     `msgpack:"error,omitempty"`
}

// Terminal reports whether m ends the task.
func (m Message) Terminal() bool {
	return m.Kind == KindDone || m.Kind == KindError
}

// Task is a single background encoding run.
//
// Messages yields non-decreasing progress values followed by exactly one
// terminal message, then the channel is closed. Once Terminate returns the
// channel delivers nothing else and is closed shortly after.
type Task interface {
	Messages() <-chan Message
	Terminate()
}

// Runner starts tasks.
type Runner interface {
	Start(ctx context.Context, job Job) (Task, error)
}

type config struct {
	newMP3 mp3.NewFrameEncoderFunc
	logger *zap.Logger
}

// Option configures runners and Serve.
type Option func(*config)

// WithMP3Encoder sets the frame encoder used for MP3 jobs.
func WithMP3Encoder(fn mp3.NewFrameEncoderFunc) Option {
	return func(c *config) {
		c.newMP3 = fn
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func newConfig(opts []Option) config {
	c := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
