// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides generated audio and scripted collaborators for
// tests across the module. It does not import the audio package so that
// package can use it from its own tests.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the value of a sample for a given frame index and channel.
type Waveform func(frame, channel int) float32

// Silence is a waveform of zeros.
func Silence(int, int) float32 { return 0 }

// Sine returns a sine waveform of the given frequency at sampleRate.
func Sine(sampleRate int, frequency float64) Waveform {
	return func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	}
}

// Ramp encodes the frame index and channel into the value, which makes
// slicing and interleaving mistakes easy to spot: frame/frames, negated for
// odd channels.
func Ramp(frames int) Waveform {
	return func(frame, channel int) float32 {
		v := float32(frame) / float32(max(frames, 1))
		if channel%2 == 1 {
			return -v
		}
		return v
	}
}

// Channels builds planar channel data of the given shape.
func Channels(channels, frames int, wave Waveform) [][]float32 {
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
		for i := range frames {
			out[c][i] = wave(i, c)
		}
	}

	return out
}

// MockSource streams generated interleaved samples. It satisfies
// audio.Source without importing it.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    Waveform
	readErr     error
	closed      bool
}

// NewMockSource creates a source producing totalFrames frames of wave.
func NewMockSource(sampleRate, channels, totalFrames int, wave Waveform) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    wave,
	}
}

// NewSilentSource creates a mock source that generates silence.
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, Silence)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, Sine(sampleRate, frequency))
}

// FailAfter makes ReadSamples return err once every frame has been produced
// instead of io.EOF.
func (m *MockSource) FailAfter(err error) *MockSource {
	m.readErr = err
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}

	framesToWrite := min(len(dst)/m.channels, m.totalFrames-m.generated)

	for frame := range framesToWrite {
		idx := m.generated + frame
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(idx, ch)
		}
	}

	m.generated += framesToWrite

	return framesToWrite * m.channels, nil
}
