// SPDX-License-Identifier: EPL-2.0

package audconv

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ik5/audconv/formats"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/internal/audiotest"
)

func TestEncode_WAV(t *testing.T) {
	t.Parallel()

	var last float64
	out := new(bytes.Buffer)

	err := Encode(context.Background(), out, audiotest.Channels(2, 100, audiotest.Silence), 8000, formats.WAV,
		WithProgress(func(p float64) { last = p }))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if out.Len() != 44+100*2*2 {
		t.Errorf("len = %d, want %d", out.Len(), 44+400)
	}

	if last != 100 {
		t.Errorf("last progress = %v, want 100", last)
	}
}

func TestEncode_MP3(t *testing.T) {
	t.Parallel()

	enc := &audiotest.FrameEncoder{}
	open := func(rate, ch, kbps int) (mp3.FrameEncoder, error) { return enc.Open(rate, ch, kbps) }

	err := Encode(context.Background(), new(bytes.Buffer), audiotest.Channels(1, 2000, audiotest.Silence), 22050, formats.MP3,
		WithMP3Encoder(open), WithBitrate(96))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if enc.Bitrate != 96 || enc.SampleRate != 22050 || enc.Calls != 2 {
		t.Errorf("encoder saw %d kbps %d Hz %d calls", enc.Bitrate, enc.SampleRate, enc.Calls)
	}
}

func TestEncode_MP3DefaultBitrate(t *testing.T) {
	t.Parallel()

	enc := &audiotest.FrameEncoder{}
	open := func(rate, ch, kbps int) (mp3.FrameEncoder, error) { return enc.Open(rate, ch, kbps) }

	if err := Encode(context.Background(), new(bytes.Buffer), [][]float32{{0}}, 44100, formats.MP3, WithMP3Encoder(open)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	if enc.Bitrate != 128 {
		t.Errorf("bitrate = %d, want 128", enc.Bitrate)
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		format formats.Format
		want   error
	}{
		{"unknown format", context.Background(), formats.Format("flac"), formats.ErrUnknownFormat},
		{"mp3 without encoder", context.Background(), formats.MP3, mp3.ErrNoEncoder},
		{"cancelled", cancelled, formats.WAV, context.Canceled},
	}

	for _, tt := range tests {
		err := Encode(tt.ctx, new(bytes.Buffer), [][]float32{{0}}, 44100, tt.format)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: Encode() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}
