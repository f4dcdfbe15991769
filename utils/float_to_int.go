// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToInt16 converts a normalized sample into signed 16-bit PCM.
//
// Negative values scale by 32768 and non-negative values by 32767 so that
// -1.0 and 1.0 land exactly on math.MinInt16 and math.MaxInt16. The result
// is truncated toward zero.
func FloatToInt16(x float32) int16 {
	// NaN fails every comparison below
	if x != x {
		return 0
	}

	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	if x < 0 {
		return int16(x * 32768.0)
	}

	return int16(x * 32767.0)
}

// FloatsToInt16 converts a block of samples into a freshly allocated int16 slice.
func FloatsToInt16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = FloatToInt16(s)
	}

	return out
}

// Int16ToFloat is the inverse used by decoders: v / 32768.
func Int16ToFloat(v int16) float32 {
	return float32(v) / 32768.0
}
