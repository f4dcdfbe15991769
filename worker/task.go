// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"context"
	"math"
	"sync"
)

// task carries the delivery rules shared by all runners. A single producer
// goroutine calls progress and finish; any goroutine may call Terminate.
type task struct {
	out    chan Message
	stop   chan struct{}
	cancel context.CancelFunc

	stopOnce   sync.Once
	mu         sync.Mutex
	terminated bool

	// producer side only
	last float64
}

func newTask(cancel context.CancelFunc) *task {
	return &task{
		out:    make(chan Message),
		stop:   make(chan struct{}),
		cancel: cancel,
		last:   -1,
	}
}

func (t *task) Messages() <-chan Message { return t.out }

func (t *task) Terminate() {
	t.stopOnce.Do(func() {
		close(t.stop)
		t.cancel()
	})

	// a send racing with close(stop) finishes before this lock is taken
	t.mu.Lock()
	t.terminated = true
	t.mu.Unlock()
}

// send delivers m unless the task was terminated.
func (t *task) send(m Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminated {
		return false
	}

	select {
	case t.out <- m:
		return true
	case <-t.stop:
		return false
	}
}

// progress forwards p when it moves to a new whole percent. Values below
// the last one sent are dropped. It returns false once the task is
// terminated.
func (t *task) progress(p float64) bool {
	p = max(0, min(p, 100))

	if p < t.last || math.Floor(p) == math.Floor(t.last) {
		return t.alive()
	}

	if !t.send(Message{Kind: KindProgress, Progress: p}) {
		return false
	}
	t.last = p

	return true
}

func (t *task) fail(err error) {
	t.send(Message{Kind: KindError, Error: err.Error()})
}

func (t *task) alive() bool {
	select {
	case <-t.stop:
		return false
	default:
		return true
	}
}
