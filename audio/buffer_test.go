// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ik5/audconv/internal/audiotest"
)

func TestNewBuffer(t *testing.T) {
	t.Parallel()

	b, err := NewBuffer([][]float32{{0, 0.5, 1}, {0, -0.5, -1}}, 44100)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	if b.Channels != 2 || b.Length != 3 || b.SampleRate != 44100 {
		t.Errorf("NewBuffer() = %+v", b)
	}
}

func TestNewBuffer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    [][]float32
		rate    int
		wantErr error
	}{
		{"no channels", nil, 8000, ErrNoAudio},
		{"too many channels", [][]float32{{0}, {0}, {0}}, 8000, ErrNoAudio},
		{"zero rate", [][]float32{{0}}, 0, ErrInvalidSampleRate},
		{"negative rate", [][]float32{{0}}, -1, ErrInvalidSampleRate},
		{"length mismatch", [][]float32{{0, 1}, {0}}, 8000, ErrChannelLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewBuffer(tt.data, tt.rate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuffer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuffer_Duration(t *testing.T) {
	t.Parallel()

	b := &Buffer{SampleRate: 44100, Length: 88200, Channels: 1}
	if got := b.Duration(); got != 2 {
		t.Errorf("Duration() = %v, want 2", got)
	}

	var nilBuf *Buffer
	if got := nilBuf.Duration(); got != 0 {
		t.Errorf("nil Duration() = %v, want 0", got)
	}
}

func TestReadAll_Stereo(t *testing.T) {
	t.Parallel()

	const frames = 10000
	src := audiotest.NewMockSource(22050, 2, frames, audiotest.Ramp(frames))

	b, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if b.Channels != 2 || b.Length != frames || b.SampleRate != 22050 {
		t.Fatalf("ReadAll() = channels %d, length %d, rate %d", b.Channels, b.Length, b.SampleRate)
	}

	want := audiotest.Ramp(frames)
	for _, i := range []int{0, 1, 4095, 4096, frames - 1} {
		if b.Data[0][i] != want(i, 0) || b.Data[1][i] != want(i, 1) {
			t.Errorf("frame %d = (%v, %v), want (%v, %v)", i, b.Data[0][i], b.Data[1][i], want(i, 0), want(i, 1))
		}
	}

	if !src.Closed() {
		t.Error("ReadAll() did not close the source")
	}
}

func TestReadAll_FoldsWideSourcesToMono(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(48000, 4, 2000, func(_, channel int) float32 {
		return float32(channel) * 0.1 // 0, 0.1, 0.2, 0.3 -> mean 0.15
	})

	b, err := ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if b.Channels != 1 || b.Length != 2000 {
		t.Fatalf("ReadAll() channels = %d, length = %d, want 1, 2000", b.Channels, b.Length)
	}

	for i, v := range b.Data[0] {
		if math.Abs(float64(v-0.15)) > 1e-6 {
			t.Fatalf("sample %d = %v, want 0.15", i, v)
		}
	}
}

func TestReadAll_Empty(t *testing.T) {
	t.Parallel()

	b, err := ReadAll(audiotest.NewSilentSource(8000, 1, 0))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if b.Length != 0 || b.Channels != 1 {
		t.Errorf("ReadAll() = %+v, want empty mono buffer", b)
	}
}

func TestReadAll_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("corrupt frame")
	src := audiotest.NewSilentSource(8000, 1, 100).FailAfter(boom)

	if _, err := ReadAll(src); !errors.Is(err, boom) {
		t.Errorf("ReadAll() error = %v, want %v", err, boom)
	}
}

func TestReadAll_InvalidSampleRate(t *testing.T) {
	t.Parallel()

	if _, err := ReadAll(audiotest.NewSilentSource(0, 1, 10)); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("ReadAll() error = %v, want ErrInvalidSampleRate", err)
	}
}

func TestReadAllContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := audiotest.NewSilentSource(8000, 1, 100)
	if _, err := ReadAllContext(ctx, src); !errors.Is(err, context.Canceled) {
		t.Errorf("ReadAllContext() error = %v, want context.Canceled", err)
	}

	if !src.Closed() {
		t.Error("source not closed after cancellation")
	}
}
