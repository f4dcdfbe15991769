// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audconv/audio"
)

var _ audio.Prober = Decoder{}

// mockOggVorbisReader returns at most chunk values per Read.
type mockOggVorbisReader struct {
	channels int
	samples  []float32
	chunk    int
	err      error
}

func (m *mockOggVorbisReader) SampleRate() int { return 48000 }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	if len(m.samples) == 0 {
		return 0, io.EOF
	}

	n := copy(buf[:min(len(buf), m.chunk)], m.samples)
	m.samples = m.samples[n:]

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, in := range [][]byte{nil, []byte("This is not Ogg Vorbis data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(in)); !errors.Is(err, ErrNotVorbisFile) {
			t.Errorf("Decode(%q) error = %v, want ErrNotVorbisFile", in, err)
		}
	}
}

func TestDecoder_Probe(t *testing.T) {
	t.Parallel()

	if !(Decoder{}).Probe([]byte("OggS\x00\x02")) {
		t.Error("Ogg page not recognised")
	}

	if (Decoder{}).Probe([]byte("ID3\x04")) {
		t.Error("ID3 tag recognised as Ogg")
	}
}

func TestSource_ReadSamples_FrameAligned(t *testing.T) {
	t.Parallel()

	mock := &mockOggVorbisReader{channels: 2, samples: []float32{0.1, 0.2, 0.3, 0.4}, chunk: 16}
	src := &source{dec: mock, sampleRate: 48000, channels: 2}

	// an odd destination is trimmed to whole frames
	dst := make([]float32, 3)
	n, err := src.ReadSamples(dst)
	if n != 2 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v, want 2, nil", n, err)
	}

	if dst[0] != 0.1 || dst[1] != 0.2 {
		t.Errorf("dst = %v", dst[:2])
	}

	if n, err := src.ReadSamples(dst[:1]); n != 0 || err != nil {
		t.Errorf("sub-frame read = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadAll(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 600)
	for i := range samples {
		samples[i] = float32(i%3) / 4
	}

	mock := &mockOggVorbisReader{channels: 3, samples: samples, chunk: 99}
	buf, err := audio.ReadAll(&source{dec: mock, sampleRate: 48000, channels: 3})
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	// three channels fold to mono
	if buf.Channels != 1 || buf.Length != 200 {
		t.Fatalf("buffer = %d ch, %d frames, want 1 ch, 200 frames", buf.Channels, buf.Length)
	}

	if want := 0.25; math.Abs(float64(buf.Data[0][0])-want) > 1e-6 {
		t.Errorf("mono[0] = %v, want %v", buf.Data[0][0], want)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("bad packet")
	src := &source{dec: &mockOggVorbisReader{channels: 1, err: readErr}, sampleRate: 48000, channels: 1}

	if _, err := src.ReadSamples(make([]float32, 8)); !errors.Is(err, readErr) {
		t.Errorf("ReadSamples() error = %v, want %v", err, readErr)
	}
}
