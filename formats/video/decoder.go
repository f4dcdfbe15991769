// SPDX-License-Identifier: EPL-2.0

package video

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strconv"

	"github.com/ik5/audconv/audio"
	"go.uber.org/zap"
)

// Decoder extracts the first audio stream of a video container with ffmpeg.
// The input is spooled to a temporary file so containers with their index at
// the end (mp4 without faststart) can be read.
type Decoder struct {
	ffmpeg     string
	ffprobe    string
	sampleRate int
	tempDir    string
	runner     Runner
	logger     *zap.Logger
}

var (
	_ audio.Decoder        = (*Decoder)(nil)
	_ audio.ContextDecoder = (*Decoder)(nil)
)

type Option func(*Decoder)

// WithBinaries sets explicit tool paths and skips the PATH lookup.
func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(d *Decoder) {
		d.ffmpeg = ffmpeg
		d.ffprobe = ffprobe
	}
}

// WithSampleRate makes ffmpeg resample the extracted audio. Zero keeps the
// rate of the source stream.
func WithSampleRate(rate int) Option {
	return func(d *Decoder) {
		d.sampleRate = rate
	}
}

// WithTempDir sets where inputs are spooled. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(d *Decoder) {
		d.tempDir = dir
	}
}

func WithRunner(r Runner) Option {
	return func(d *Decoder) {
		d.runner = r
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(d *Decoder) {
		d.logger = l
	}
}

// New builds a Decoder, locating ffmpeg and ffprobe once. The libav names
// avconv and avprobe are accepted as fallbacks.
func New(opts ...Option) (*Decoder, error) {
	d := &Decoder{
		runner: execRunner{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	var err error
	if d.ffmpeg == "" {
		if d.ffmpeg, err = Locate("ffmpeg", "avconv"); err != nil {
			return nil, err
		}
	}

	if d.ffprobe == "" {
		if d.ffprobe, err = Locate("ffprobe", "avprobe"); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Locate returns the path of the first name found in PATH.
func Locate(names ...string) (string, error) {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: tried %v", ErrToolNotFound, names)
}

func (d *Decoder) Decode(r io.Reader) (audio.Source, error) {
	return d.DecodeContext(context.Background(), r)
}

// DecodeContext spools r, probes the audio stream and starts ffmpeg. The
// returned Source streams 32-bit float PCM and removes the spool file on
// Close. Cancelling ctx kills ffmpeg.
func (d *Decoder) DecodeContext(ctx context.Context, r io.Reader) (audio.Source, error) {
	path, err := d.spool(r)
	if err != nil {
		return nil, err
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			d.logger.Warn("removing spool file", zap.String("path", path), zap.Error(err))
		}
	}

	stream, err := d.probe(ctx, path)
	if err != nil {
		cleanup()
		return nil, err
	}

	channels := min(stream.Channels, audio.MaxChannels)
	rate := stream.SampleRate
	if d.sampleRate > 0 {
		rate = d.sampleRate
	}

	args := []string{
		"-v", "error", "-nostdin",
		"-i", path,
		"-vn", "-map", "0:a:0",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(rate),
		"-f", "f32le", "-acodec", "pcm_f32le",
		"pipe:1",
	}

	d.logger.Debug("extracting audio",
		zap.String("codec", stream.Codec),
		zap.Int("source_channels", stream.Channels),
		zap.Int("source_rate", stream.SampleRate),
		zap.Int("channels", channels),
		zap.Int("rate", rate),
	)

	out, err := d.runner.Start(ctx, d.ffmpeg, args...)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	return &source{
		out:        out,
		sampleRate: rate,
		channels:   channels,
		cleanup:    cleanup,
	}, nil
}

func (d *Decoder) spool(r io.Reader) (string, error) {
	f, err := os.CreateTemp(d.tempDir, "audconv-*.media")
	if err != nil {
		return "", fmt.Errorf("creating spool file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("spooling input: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w", err)
	}

	return f.Name(), nil
}

type streamInfo struct {
	Codec      string
	SampleRate int
	Channels   int
}

type ffprobeOutput struct {
	Streams []struct {
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

func (d *Decoder) probe(ctx context.Context, path string) (streamInfo, error) {
	out, err := d.runner.Output(ctx, d.ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name,sample_rate,channels",
		"-of", "json",
		path,
	)
	if err != nil {
		return streamInfo{}, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return streamInfo{}, fmt.Errorf("%w: parsing output: %w", ErrProbeFailed, err)
	}

	if len(parsed.Streams) == 0 {
		return streamInfo{}, ErrNoAudioStream
	}

	s := parsed.Streams[0]

	rate, err := strconv.Atoi(s.SampleRate)
	if err != nil || rate <= 0 || s.Channels <= 0 {
		return streamInfo{}, fmt.Errorf("%w: bad stream parameters %q Hz, %d channels",
			ErrProbeFailed, s.SampleRate, s.Channels)
	}

	return streamInfo{Codec: s.CodecName, SampleRate: rate, Channels: s.Channels}, nil
}

// source converts ffmpeg's f32le stdout into samples.
type source struct {
	out        io.ReadCloser
	sampleRate int
	channels   int
	cleanup    func()
	buf        []byte
	pending    int // bytes of a partial sample carried over
	done       bool
	closed     bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return 8192 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * 4
	if cap(s.buf) < need {
		nb := make([]byte, need)
		copy(nb, s.buf[:s.pending])
		s.buf = nb
	}
	s.buf = s.buf[:need]

	// pipes may hand out less than one sample at a time
	n := s.pending
	var err error
	for n < 4 && err == nil {
		var m int
		m, err = s.out.Read(s.buf[n:])
		n += m
	}

	samples := n / 4
	for i := range samples {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(s.buf[i*4:]))
	}

	s.pending = copy(s.buf, s.buf[samples*4:n])

	if err == io.EOF {
		s.done = true
		if cerr := s.finish(); cerr != nil {
			return samples, fmt.Errorf("%w: %w", ErrExtractFailed, cerr)
		}
		return samples, io.EOF
	}

	if err != nil {
		return samples, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	return samples, nil
}

// finish waits for ffmpeg and removes the spool file.
func (s *source) finish() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.out.Close()
	s.cleanup()

	return err
}

func (s *source) Close() error {
	if !s.done {
		// ffmpeg exits on the broken pipe, its status is irrelevant
		s.done = true
		_ = s.finish()
		return nil
	}

	return s.finish()
}
