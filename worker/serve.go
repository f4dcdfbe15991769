// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Serve is the worker side of the Process runner: it reads one msgpack Job
// from r, encodes it and writes msgpack Messages to w. Encoding failures are
// reported as an error Message; the returned error is only set when r or w
// fail.
func Serve(ctx context.Context, r io.Reader, w io.Writer, opts ...Option) error {
	cfg := newConfig(opts)

	var job Job
	if err := msgpack.NewDecoder(r).Decode(&job); err != nil {
		return fmt.Errorf("%w: reading job: %w", ErrInvalidJob, err)
	}

	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)

	emit := func(m Message) error {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("writing %s message: %w", m.Kind, err)
		}
		return bw.Flush()
	}

	if err := job.validate(); err != nil {
		return emit(Message{Kind: KindError, Error: err.Error()})
	}

	cfg.logger.Debug("worker received job",
		zap.String("format", string(job.Format)),
		zap.Int("channels", len(job.Channels)),
		zap.Int("frames", job.Frames()),
	)

	last := -1.0
	var writeErr error

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b, err := encode(ctx, job, cfg, func(p float64) {
		if writeErr != nil || math.Floor(p) <= math.Floor(last) {
			return
		}

		last = p
		if writeErr = emit(Message{Kind: KindProgress, Progress: p}); writeErr != nil {
			// nobody is listening any more
			cancel()
		}
	})

	if writeErr != nil {
		return writeErr
	}

	if err != nil {
		return emit(Message{Kind: KindError, Error: err.Error()})
	}

	return emit(Message{Kind: KindDone, Progress: 100, Blob: b})
}
