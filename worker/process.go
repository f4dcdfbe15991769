// SPDX-License-Identifier: EPL-2.0

package worker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// Process runs each task in a child process that calls Serve, normally
// "audconv worker". The job goes to the child's stdin and messages come back
// on its stdout, both msgpack encoded. Terminate kills the child.
type Process struct {
	Path string
	Args []string
	// Env is added to the parent's environment.
	Env []string

	cfg config
}

var _ Runner = (*Process)(nil)

// NewProcess returns a runner executing path with args. Only the logger
// option applies; the child picks its own encoder.
func NewProcess(path string, args []string, opts ...Option) *Process {
	return &Process{
		Path: path,
		Args: args,
		cfg:  newConfig(opts),
	}
}

// Self returns a runner re-executing the running binary with args.
func Self(args []string, opts ...Option) (*Process, error) {
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return NewProcess(path, args, opts...), nil
}

func (p *Process) Start(ctx context.Context, job Job) (Task, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Env = append(os.Environ(), p.Env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting worker: %w", err)
	}

	p.cfg.logger.Debug("worker started", zap.String("path", p.Path), zap.Int("pid", cmd.Process.Pid))

	t := newTask(cancel)

	sent := make(chan error, 1)
	go func() {
		err := msgpack.NewEncoder(stdin).Encode(job)
		stdin.Close()
		sent <- err
	}()

	go func() {
		defer close(t.out)
		defer cancel()

		terminal := false
		dec := msgpack.NewDecoder(bufio.NewReader(stdout))

		for {
			var msg Message
			if err := dec.Decode(&msg); err != nil {
				if !errors.Is(err, io.EOF) {
					// garbage on stdout, the child may block writing more
					cancel()
				}
				break
			}

			if msg.Kind == KindProgress {
				if !t.progress(msg.Progress) {
					break
				}
				continue
			}

			if msg.Terminal() {
				terminal = true
				t.send(msg)
				break
			}
		}

		waitErr := cmd.Wait()
		sendErr := <-sent

		if terminal {
			return
		}

		reason := ErrWorkerCrashed.Error()
		switch {
		case waitErr != nil:
			reason = fmt.Sprintf("%s: %v", reason, waitErr)
			if tail := lastLine(stderr.String()); tail != "" {
				reason += ": " + tail
			}
		case sendErr != nil:
			reason = fmt.Sprintf("%s: sending job: %v", reason, sendErr)
		}

		p.cfg.logger.Warn("worker failed", zap.String("reason", reason))
		t.send(Message{Kind: KindError, Error: reason})
	}()

	return t, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
