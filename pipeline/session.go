// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ik5/audconv"
	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/blob"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/worker"
	"go.uber.org/zap"
)

// File is user input as it arrives: a name, a declared MIME type (may be
// empty) and the raw bytes.
type File struct {
	Name string
	MIME string
	Data []byte
}

type config struct {
	registry *audio.Registry
	video    audio.Decoder
	runner   worker.Runner
	store    blob.Store
	bitrate  int
	logger   *zap.Logger
}

// Option configures a Session.
type Option func(*config)

// WithRegistry replaces the audio decoders, audconv.NewRegistry by default.
func WithRegistry(r *audio.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithVideoDecoder sets the extractor used by video tools. There is no
// default since it depends on external binaries.
func WithVideoDecoder(d audio.Decoder) Option {
	return func(c *config) {
		c.video = d
	}
}

// WithRunner sets where encoding tasks run. The default is an in-process
// runner without an MP3 encoder.
func WithRunner(r worker.Runner) Option {
	return func(c *config) {
		c.runner = r
	}
}

func WithStore(st blob.Store) Option {
	return func(c *config) {
		c.store = st
	}
}

// WithBitrate sets the MP3 bitrate in kbps.
func WithBitrate(kbps int) Option {
	return func(c *config) {
		c.bitrate = kbps
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

type job struct {
	token uuid.UUID
	task  worker.Task
	rng   audio.TimeRange
	// prev is where a failed job returns to.
	prev State

	done chan struct{}
	once sync.Once
	err  error
}

func (j *job) finish(err error) {
	j.once.Do(func() {
		j.err = err
		close(j.done)
	})
}

type subscriber struct {
	id int
	fn func(Event)
}

// Session drives one tool from file selection to download.
//
// Every method is safe for concurrent use. Subscribers receive events in
// the order the changes happened, outside the session lock, so they may
// call back into the session. An event can be delivered by whichever
// goroutine is already dispatching, after the method that caused it
// returned.
type Session struct {
	tool Tool
	cfg  config

	mu       sync.Mutex
	token    uuid.UUID
	state    State
	status   Status
	progress float64
	file     File
	buf      *audio.Buffer
	rng      audio.TimeRange
	job      *job
	url      string
	err      error

	// stops the decode started by the current Load
	cancelDecode context.CancelFunc

	subs     []subscriber
	nextSub  int
	pending  []Event
	draining bool
}

// NewSession returns an idle session for tool.
func NewSession(tool Tool, opts ...Option) *Session {
	cfg := config{
		bitrate: mp3.DefaultBitrate,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.registry == nil {
		cfg.registry = audconv.NewRegistry()
	}
	if cfg.runner == nil {
		cfg.runner = worker.NewInProcess(worker.WithLogger(cfg.logger))
	}
	if cfg.store == nil {
		cfg.store = blob.NewMemoryStore()
	}

	return &Session{
		tool:   tool,
		cfg:    cfg,
		token:  uuid.New(),
		state:  StateIdle,
		status: Status{Text: tool.Messages.Prompt, Kind: StatusInfo},
	}
}

func (s *Session) Tool() Tool { return s.tool }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Progress of the current or last job in percent.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progress
}

// Range is the current trim selection.
func (s *Session) Range() audio.TimeRange {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rng
}

// Decoded returns the decoded input, nil before Load succeeds.
func (s *Session) Decoded() *audio.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf
}

// Err is the last failure, cleared by Reset and by a successful Convert.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// URL of the output blob, empty unless the session is done.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.url
}

// Subscribe registers fn for events. The returned func removes it.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
		s.mu.Unlock()
	}
}

// Load resets the session and decodes f. Files the tool does not accept
// leave it Idle with ErrInvalidInput; undecodable ones move it to Error
// with ErrDecode. On success the range covers the whole input and the
// session is Ready.
func (s *Session) Load(ctx context.Context, f File) error {
	s.mu.Lock()
	s.resetLocked()
	token := s.token

	if !s.tool.Accepts(f) {
		err := fmt.Errorf("%w: %q", ErrInvalidInput, f.Name)
		s.err = err
		s.cfg.logger.Info("rejected input", zap.String("tool", s.tool.Name), zap.String("file", f.Name), zap.String("mime", f.MIME))
		s.unlockAndEmit(s.setLocked(StateIdle, StatusError, s.tool.Messages.Invalid))
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.file = f
	s.cancelDecode = cancel
	loaded := s.setLocked(StateFileLoaded, StatusInfo,
		fmt.Sprintf("%s (%s)", filepath.Base(f.Name), humanize.IBytes(uint64(len(f.Data)))))
	decoding := s.setLocked(StateDecoding, StatusInfo, s.tool.Messages.Decoding)
	s.unlockAndEmit(loaded, decoding)

	started := time.Now()
	buf, err := s.decode(ctx, f)

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		return ErrReset
	}
	s.cancelDecode = nil

	if err != nil {
		err = fmt.Errorf("%w: %w", ErrDecode, err)
		s.err = err
		s.cfg.logger.Warn("decode failed", zap.String("tool", s.tool.Name), zap.String("file", f.Name), zap.Error(err))
		s.unlockAndEmit(s.setLocked(StateError, StatusError, failure(s.tool.Messages.DecodeFailed, err)))
		return err
	}

	s.buf = buf
	s.rng = audio.FullRange(buf)
	s.cfg.logger.Info("decoded input",
		zap.String("tool", s.tool.Name),
		zap.String("file", f.Name),
		zap.Int("channels", buf.Channels),
		zap.Int("sample_rate", buf.SampleRate),
		zap.Float64("seconds", buf.Duration()),
		zap.Duration("took", time.Since(started)),
	)
	s.unlockAndEmit(s.setLocked(StateReady, StatusSuccess, s.tool.Messages.Ready))

	return nil
}

func (s *Session) decode(ctx context.Context, f File) (*audio.Buffer, error) {
	dec, err := s.decoder(f)
	if err != nil {
		return nil, err
	}

	var src audio.Source
	if cd, ok := dec.(audio.ContextDecoder); ok {
		src, err = cd.DecodeContext(ctx, bytes.NewReader(f.Data))
	} else {
		src, err = dec.Decode(bytes.NewReader(f.Data))
	}
	if err != nil {
		return nil, err
	}

	return audio.ReadAllContext(ctx, src)
}

// decoder picks by content first, then by name, then by declared type.
func (s *Session) decoder(f File) (audio.Decoder, error) {
	if s.tool.Input == VideoInput {
		if s.cfg.video == nil {
			return nil, errNoVideoDecoder
		}
		return s.cfg.video, nil
	}

	if _, d, ok := s.cfg.registry.Detect(f.Data); ok {
		return d, nil
	}

	if d, ok := s.cfg.registry.ForFile(f.Name); ok {
		return d, nil
	}

	if f.MIME != "" {
		if d, ok := s.cfg.registry.Get(f.MIME); ok {
			return d, nil
		}
	}

	return nil, errNoDecoder
}

// SetStart moves the trim start. Only trimming tools accept it, and only
// while Ready or RangeSelected.
func (s *Session) SetStart(seconds float64) (audio.TimeRange, error) {
	return s.updateRange(func(r *audio.TimeRange) { r.SetStart(seconds) })
}

func (s *Session) SetEnd(seconds float64) (audio.TimeRange, error) {
	return s.updateRange(func(r *audio.TimeRange) { r.SetEnd(seconds) })
}

// SetRange moves the start and then the end, so an end before the start
// collapses the selection to an empty range that Convert rejects.
func (s *Session) SetRange(start, end float64) (audio.TimeRange, error) {
	return s.updateRange(func(r *audio.TimeRange) {
		r.SetStart(start)
		r.SetEnd(end)
	})
}

func (s *Session) updateRange(fn func(*audio.TimeRange)) (audio.TimeRange, error) {
	s.mu.Lock()

	if !s.tool.Trim {
		s.mu.Unlock()
		return audio.TimeRange{}, fmt.Errorf("%w: %s does not trim", ErrWrongState, s.tool.Name)
	}

	if !s.state.convertible() {
		state := s.state
		s.mu.Unlock()
		return audio.TimeRange{}, fmt.Errorf("%w: set range while %s", ErrWrongState, state)
	}

	fn(&s.rng)
	rng := s.rng
	s.unlockAndEmit(s.setLocked(StateRangeSelected, StatusInfo, "Selection "+rng.String()))

	return rng, nil
}

// Convert starts encoding the decoded input, trimmed for trimming tools.
// It returns once the task is running; use Wait or Subscribe to follow it.
func (s *Session) Convert(ctx context.Context) error {
	s.mu.Lock()

	if !s.state.convertible() {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: convert while %s", ErrWrongState, state)
	}

	channels := s.buf.Data
	rng := s.rng
	if s.tool.Trim {
		sel, err := audio.SelectRange(s.buf, rng)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidRange, err)
			s.err = err
			s.unlockAndEmit(s.statusLocked(StatusError, s.tool.Messages.BadRange))
			return err
		}
		channels = sel
	}

	task, err := s.cfg.runner.Start(context.WithoutCancel(ctx), worker.Job{
		Channels:    channels,
		SampleRate:  s.buf.SampleRate,
		Format:      s.tool.Output,
		BitrateKbps: s.cfg.bitrate,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrEncode, err)
		s.err = err
		s.unlockAndEmit(s.statusLocked(StatusError, failure(s.tool.Messages.EncodeFailed, err)))
		return err
	}

	j := &job{
		token: uuid.New(),
		task:  task,
		rng:   rng,
		prev:  s.state,
		done:  make(chan struct{}),
	}
	s.job = j
	s.progress = 0
	s.err = nil

	s.cfg.logger.Info("encoding started",
		zap.String("tool", s.tool.Name),
		zap.String("format", string(s.tool.Output)),
		zap.Stringer("range", rng),
		zap.String("job", j.token.String()),
	)
	s.unlockAndEmit(s.setLocked(StateEncoding, StatusInfo, s.tool.Messages.Encoding))

	go s.pump(j)

	return nil
}

// pump forwards task messages tagged with the job's token.
func (s *Session) pump(j *job) {
	defer j.task.Terminate()

	terminal := false
	for m := range j.task.Messages() {
		s.deliver(j.token, m)
		terminal = terminal || m.Terminal()
	}

	if !terminal {
		s.deliver(j.token, worker.Message{Kind: worker.KindError, Error: "task ended without a result"})
	}
}

// deliver applies m when token still names the running job. Messages from
// terminated or superseded jobs change nothing and report false.
func (s *Session) deliver(token uuid.UUID, m worker.Message) bool {
	s.mu.Lock()

	j := s.job
	if j == nil || j.token != token || s.state != StateEncoding {
		s.mu.Unlock()
		return false
	}

	var ev Event
	switch m.Kind {
	case worker.KindProgress:
		if m.Progress < s.progress {
			s.mu.Unlock()
			return false
		}
		s.progress = min(m.Progress, 100)
		ev = s.eventLocked()
	case worker.KindDone:
		ev = s.completeLocked(j, m.Blob)
	default:
		ev = s.failLocked(j, m.Error)
	}

	s.unlockAndEmit(ev)

	return true
}

func (s *Session) completeLocked(j *job, b *blob.Blob) Event {
	if b == nil {
		return s.failLocked(j, "task finished without output")
	}

	if s.url != "" {
		s.cfg.store.Revoke(s.url)
		s.url = ""
	}

	url, err := s.cfg.store.Create(*b)
	if err != nil {
		return s.failLocked(j, err.Error())
	}

	s.url = url
	s.job = nil
	s.progress = 100
	j.finish(nil)

	s.cfg.logger.Info("encoding done",
		zap.String("tool", s.tool.Name),
		zap.String("job", j.token.String()),
		zap.String("size", humanize.IBytes(uint64(b.Size()))),
	)

	text := s.tool.Messages.Done
	if s.tool.Trim {
		text += " (" + j.rng.String() + ")"
	}

	return s.setLocked(StateDone, StatusSuccess, text)
}

// failLocked returns the session to where Convert started, keeping the
// decoded input for a retry.
func (s *Session) failLocked(j *job, reason string) Event {
	err := fmt.Errorf("%w: %s", ErrEncode, reason)
	s.err = err
	s.job = nil
	s.progress = 0
	j.finish(err)

	s.cfg.logger.Warn("encoding failed",
		zap.String("tool", s.tool.Name),
		zap.String("job", j.token.String()),
		zap.Error(err),
	)

	return s.setLocked(j.prev, StatusError, s.tool.Messages.EncodeFailed+": "+reason)
}

// Wait blocks until the running job ends or the session is reset. It
// returns nil on success and the ErrEncode failure otherwise. Without a
// running job it reports the outcome of the last one.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	j := s.job
	last := s.err
	s.mu.Unlock()

	if j == nil {
		if errors.Is(last, ErrEncode) {
			return last
		}
		return nil
	}

	select {
	case <-j.done:
		return j.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Download returns the output's file name and contents.
func (s *Session) Download() (string, blob.Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDone || s.url == "" {
		return "", blob.Blob{}, fmt.Errorf("%w: download while %s", ErrWrongState, s.state)
	}

	b, err := s.cfg.store.Open(s.url)
	if err != nil {
		return "", blob.Blob{}, err
	}

	return s.tool.DownloadName(s.file.Name), b, nil
}

// Reset stops any running job, releases the output and returns to Idle.
func (s *Session) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.unlockAndEmit(s.setLocked(StateIdle, StatusInfo, s.tool.Messages.Prompt))
}

func (s *Session) resetLocked() {
	s.token = uuid.New()

	if s.cancelDecode != nil {
		s.cancelDecode()
		s.cancelDecode = nil
	}

	if j := s.job; j != nil {
		s.job = nil
		j.task.Terminate()
		j.finish(ErrReset)
		s.cfg.logger.Debug("job terminated", zap.String("job", j.token.String()))
	}

	if s.url != "" {
		s.cfg.store.Revoke(s.url)
		s.url = ""
	}

	s.file = File{}
	s.buf = nil
	s.rng = audio.TimeRange{}
	s.progress = 0
	s.err = nil
}

func (s *Session) setLocked(state State, kind StatusKind, text string) Event {
	s.state = state
	return s.statusLocked(kind, text)
}

func (s *Session) statusLocked(kind StatusKind, text string) Event {
	s.status = Status{Text: text, Kind: kind}
	return s.eventLocked()
}

func (s *Session) eventLocked() Event {
	return Event{State: s.state, Status: s.status, Progress: s.progress}
}

// unlockAndEmit queues events, releases the lock and dispatches the queue
// unless another goroutine already does.
func (s *Session) unlockAndEmit(events ...Event) {
	s.pending = append(s.pending, events...)
	if s.draining {
		s.mu.Unlock()
		return
	}

	s.draining = true
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		subs := slices.Clone(s.subs)
		s.mu.Unlock()

		for _, e := range batch {
			for _, sub := range subs {
				sub.fn(e)
			}
		}

		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

func failure(text string, err error) string {
	return text + ": " + err.Error()
}
