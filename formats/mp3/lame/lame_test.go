// SPDX-License-Identifier: EPL-2.0

package lame

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/internal/audiotest"
)

func TestEncoder_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
	}{
		{"mono", 1},
		{"stereo", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			channels := audiotest.Channels(tt.channels, 44100, audiotest.Sine(44100, 440))

			out := new(bytes.Buffer)
			if err := mp3.Encode(context.Background(), out, NewFrameEncoder, channels, 44100); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			if out.Len() == 0 {
				t.Fatal("no MP3 data produced")
			}

			if !(mp3.Decoder{}).Probe(out.Bytes()) {
				t.Errorf("output does not start with an MP3 frame: % x", out.Bytes()[:4])
			}

			src, err := mp3.Decoder{}.Decode(bytes.NewReader(out.Bytes()))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			buf, err := audio.ReadAll(src)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}

			if buf.SampleRate != 44100 {
				t.Errorf("sample rate = %d, want 44100", buf.SampleRate)
			}

			// encoder delay and padding add a little
			if buf.Length < 44100 {
				t.Errorf("decoded %d frames, want at least 44100", buf.Length)
			}

			t.Logf("%d frames -> %d bytes", 44100, out.Len())
		})
	}
}

func TestNew_InvalidChannels(t *testing.T) {
	t.Parallel()

	for _, ch := range []int{0, 3} {
		if _, err := New(44100, ch, 128); !errors.Is(err, ErrChannels) {
			t.Errorf("New(%d channels) error = %v, want ErrChannels", ch, err)
		}
	}
}

func TestEncoder_Closed(t *testing.T) {
	t.Parallel()

	enc, err := New(44100, 1, 128)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := enc.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := enc.Encode(make([]int16, 10), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Encode after Close error = %v, want ErrClosed", err)
	}
}

func TestEncoder_StereoBlockMismatch(t *testing.T) {
	t.Parallel()

	enc, err := New(44100, 2, 128)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer enc.Close()

	if _, err := enc.Encode(make([]int16, 10), make([]int16, 5)); !errors.Is(err, ErrBlockSizeMismatch) {
		t.Errorf("Encode() error = %v, want ErrBlockSizeMismatch", err)
	}
}
