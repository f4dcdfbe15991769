// SPDX-License-Identifier: EPL-2.0

package utils

// Interleave merges planar channels into frames: sample i of channel c lands
// at index i*N+c. All channels are expected to have the length of channels[0];
// shorter channels are padded with silence.
func Interleave(channels [][]float32) []float32 {
	n := len(channels)
	if n == 0 {
		return nil
	}

	frames := len(channels[0])
	out := make([]float32, frames*n)

	if n == 1 {
		copy(out, channels[0])
		return out
	}

	for c, ch := range channels {
		limit := min(len(ch), frames)
		for i := range limit {
			out[i*n+c] = ch[i]
		}
	}

	return out
}

// Deinterleave splits interleaved frames back into one slice per channel.
// A trailing partial frame is dropped.
func Deinterleave(interleaved []float32, channels int) [][]float32 {
	if channels <= 0 {
		return nil
	}

	frames := len(interleaved) / channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	for i := range frames {
		base := i * channels
		for c := range channels {
			out[c][i] = interleaved[base+c]
		}
	}

	return out
}
