// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// TimeRange is a trim selection in seconds. Start <= End always holds after
// SetStart or SetEnd: moving one bound past the other drags the other along.
type TimeRange struct {
	Start float64
	End   float64
	// Duration bounds both ends from above. Zero leaves them unbounded.
	Duration float64
}

// FullRange selects the whole buffer.
func FullRange(b *Buffer) TimeRange {
	d := b.Duration()
	return TimeRange{Start: 0, End: d, Duration: d}
}

// SetStart moves the start bound, clamped to [0, Duration].
func (r *TimeRange) SetStart(t float64) {
	r.Start = r.clamp(t)
	if r.Start > r.End {
		r.End = r.Start
	}
}

// SetEnd moves the end bound, clamped to [0, Duration].
func (r *TimeRange) SetEnd(t float64) {
	r.End = r.clamp(t)
	if r.End < r.Start {
		r.Start = r.End
	}
}

// Length of the selection in seconds.
func (r TimeRange) Length() float64 { return r.End - r.Start }

func (r TimeRange) String() string {
	return FormatTime(r.Start) + " → " + FormatTime(r.End)
}

func (r *TimeRange) clamp(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}

	if r.Duration > 0 && t > r.Duration {
		return r.Duration
	}

	return t
}

// SelectRange slices every channel of b to the frames covered by r.
//
// Both bounds become frame indices through floor(seconds * sampleRate); the
// end index is exclusive. An end at or past the buffer's duration selects
// through the last frame. The returned slices share memory with b.
func SelectRange(b *Buffer, r TimeRange) ([][]float32, error) {
	if b == nil || b.Channels == 0 {
		return nil, ErrNoAudio
	}

	if math.IsNaN(r.Start) || math.IsNaN(r.End) || r.Start < 0 || r.End < r.Start {
		return nil, fmt.Errorf("%w (%.3fs, %.3fs)", ErrInvertedRange, r.Start, r.End)
	}

	if r.End == r.Start {
		return nil, ErrEmptyRange
	}

	start := frameIndex(b, r.Start)
	end := frameIndex(b, r.End)

	if end <= start {
		return nil, ErrEmptyRange
	}

	out := make([][]float32, b.Channels)
	for c, ch := range b.Data {
		out[c] = ch[start:end:end]
	}

	return out, nil
}

func frameIndex(b *Buffer, seconds float64) int {
	if seconds >= b.Duration() {
		return b.Length
	}

	idx := int(math.Floor(seconds * float64(b.SampleRate)))

	return min(max(idx, 0), b.Length)
}

// FormatTime renders seconds as mm:ss.s, rounded to a tenth of a second.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}

	tenths := int64(math.Round(seconds * 10))
	mins := tenths / 600
	rest := tenths % 600

	return fmt.Sprintf("%02d:%02d.%d", mins, rest/10, rest%10)
}

var timePattern = regexp.MustCompile(`^(\d+):(\d+(?:\.\d+)?)$`)

// ParseTime reads mm:ss.s (minutes may exceed 59, fractional seconds are
// optional) into seconds.
func ParseTime(text string) (float64, error) {
	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeFormat, text)
	}

	mins, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadTimeFormat, err)
	}

	secs, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadTimeFormat, err)
	}

	return float64(mins)*60 + secs, nil
}
