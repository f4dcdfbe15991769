// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// InProcess runs every task on its own goroutine.
type InProcess struct {
	cfg config
}

var _ Runner = (*InProcess)(nil)

func NewInProcess(opts ...Option) *InProcess {
	return &InProcess{cfg: newConfig(opts)}
}

func (r *InProcess) Start(ctx context.Context, job Job) (Task, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	t := newTask(cancel)

	go func() {
		defer close(t.out)
		defer cancel()

		started := time.Now()

		b, err := encode(ctx, job, r.cfg, func(p float64) { t.progress(p) })
		if err != nil {
			r.cfg.logger.Debug("encoding failed", zap.String("format", string(job.Format)), zap.Error(err))
			t.fail(err)
			return
		}

		r.cfg.logger.Debug("encoding done",
			zap.String("format", string(job.Format)),
			zap.Int("frames", job.Frames()),
			zap.Int("bytes", b.Size()),
			zap.Duration("took", time.Since(started)),
		)

		t.send(Message{Kind: KindDone, Progress: 100, Blob: b})
	}()

	return t, nil
}
