// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"slices"
	"testing"
)

func TestInterleave(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels [][]float32
		want     []float32
	}{
		{
			name:     "no channels",
			channels: nil,
			want:     nil,
		},
		{
			name:     "mono is copied",
			channels: [][]float32{{0.1, 0.2, 0.3}},
			want:     []float32{0.1, 0.2, 0.3},
		},
		{
			name:     "stereo",
			channels: [][]float32{{1, 2, 3}, {-1, -2, -3}},
			want:     []float32{1, -1, 2, -2, 3, -3},
		},
		{
			name:     "three channels",
			channels: [][]float32{{1, 2}, {3, 4}, {5, 6}},
			want:     []float32{1, 3, 5, 2, 4, 6},
		},
		{
			name:     "short second channel padded",
			channels: [][]float32{{1, 2, 3}, {4}},
			want:     []float32{1, 4, 2, 0, 3, 0},
		},
		{
			name:     "empty channels",
			channels: [][]float32{{}, {}},
			want:     []float32{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Interleave(tt.channels)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Interleave() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestInterleave_IndexLayout checks the i*N+c placement rule on a larger input.
func TestInterleave_IndexLayout(t *testing.T) {
	t.Parallel()

	const frames = 1000
	channels := [][]float32{make([]float32, frames), make([]float32, frames)}
	for i := range frames {
		channels[0][i] = float32(i)
		channels[1][i] = float32(-i)
	}

	out := Interleave(channels)
	if len(out) != frames*2 {
		t.Fatalf("len = %d, want %d", len(out), frames*2)
	}

	for i := range frames {
		for c := range 2 {
			if out[i*2+c] != channels[c][i] {
				t.Fatalf("out[%d] = %v, want channel %d sample %d = %v", i*2+c, out[i*2+c], c, i, channels[c][i])
			}
		}
	}
}

func TestInterleave_DoesNotAlias(t *testing.T) {
	t.Parallel()

	mono := []float32{1, 2, 3}
	out := Interleave([][]float32{mono})
	out[0] = 42

	if mono[0] != 1 {
		t.Error("Interleave returned a slice aliasing its input")
	}
}

func TestDeinterleave(t *testing.T) {
	t.Parallel()

	got := Deinterleave([]float32{1, -1, 2, -2, 3, -3, 9}, 2)
	if len(got) != 2 {
		t.Fatalf("channels = %d, want 2", len(got))
	}

	if !slices.Equal(got[0], []float32{1, 2, 3}) {
		t.Errorf("left = %v", got[0])
	}

	if !slices.Equal(got[1], []float32{-1, -2, -3}) {
		t.Errorf("right = %v", got[1])
	}
}

func TestDeinterleave_InvalidChannels(t *testing.T) {
	t.Parallel()

	if got := Deinterleave([]float32{1, 2}, 0); got != nil {
		t.Errorf("Deinterleave(_, 0) = %v, want nil", got)
	}
}

func TestInterleaveDeinterleave_RoundTrip(t *testing.T) {
	t.Parallel()

	in := [][]float32{{0.1, 0.2, 0.3, 0.4}, {0.5, 0.6, 0.7, 0.8}}
	out := Deinterleave(Interleave(in), 2)

	for c := range in {
		if !slices.Equal(in[c], out[c]) {
			t.Errorf("channel %d = %v, want %v", c, out[c], in[c])
		}
	}
}
