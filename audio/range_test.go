// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audconv/internal/audiotest"
)

func newTestBuffer(t *testing.T, channels, frames, rate int) *Buffer {
	t.Helper()

	b, err := NewBuffer(audiotest.Channels(channels, frames, audiotest.Ramp(frames)), rate)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}

	return b
}

func TestSelectRange_FullDurationReturnsEveryFrame(t *testing.T) {
	t.Parallel()

	// lengths that do not divide evenly into the sample rate exercise the
	// floating point edge at the end of the buffer
	for _, frames := range []int{88200, 12345, 1, 44099} {
		b := newTestBuffer(t, 2, frames, 44100)

		got, err := SelectRange(b, FullRange(b))
		if err != nil {
			t.Fatalf("frames=%d: SelectRange() error = %v", frames, err)
		}

		for c := range got {
			if len(got[c]) != frames {
				t.Errorf("frames=%d: channel %d length = %d", frames, c, len(got[c]))
			}
			if got[c][0] != b.Data[c][0] || got[c][frames-1] != b.Data[c][frames-1] {
				t.Errorf("frames=%d: channel %d content differs", frames, c)
			}
		}
	}
}

func TestSelectRange_TrimScenario(t *testing.T) {
	t.Parallel()

	b := newTestBuffer(t, 1, 10*44100, 44100)

	got, err := SelectRange(b, TimeRange{Start: 2.5, End: 4.0})
	if err != nil {
		t.Fatalf("SelectRange() error = %v", err)
	}

	if len(got[0]) != 66150 {
		t.Fatalf("selected %d frames, want 66150", len(got[0]))
	}

	if got[0][0] != b.Data[0][110250] {
		t.Errorf("first frame = %v, want frame 110250 (%v)", got[0][0], b.Data[0][110250])
	}

	if got[0][len(got[0])-1] != b.Data[0][176399] {
		t.Errorf("last frame = %v, want frame 176399", got[0][len(got[0])-1])
	}
}

func TestSelectRange_FloorsBothBounds(t *testing.T) {
	t.Parallel()

	b := newTestBuffer(t, 1, 100, 10)

	// 1.09s -> 10.9 -> 10, 2.99s -> 29.9 -> 29
	got, err := SelectRange(b, TimeRange{Start: 1.09, End: 2.99})
	if err != nil {
		t.Fatalf("SelectRange() error = %v", err)
	}

	if len(got[0]) != 19 || got[0][0] != b.Data[0][10] {
		t.Errorf("SelectRange() = %d frames starting at %v", len(got[0]), got[0][0])
	}
}

func TestSelectRange_ZeroLengthIsError(t *testing.T) {
	t.Parallel()

	b := newTestBuffer(t, 2, 44100, 44100)

	for _, ts := range []float64{0, 0.25, 0.5, 1} {
		_, err := SelectRange(b, TimeRange{Start: ts, End: ts})
		if !errors.Is(err, ErrEmptyRange) || !errors.Is(err, ErrInvalidRange) {
			t.Errorf("SelectRange(%v, %v) error = %v, want ErrEmptyRange", ts, ts, err)
		}
	}

	// distinct seconds inside the same frame
	_, err := SelectRange(b, TimeRange{Start: 0.50001, End: 0.50002})
	if !errors.Is(err, ErrEmptyRange) {
		t.Errorf("sub-frame range error = %v, want ErrEmptyRange", err)
	}
}

func TestSelectRange_Inverted(t *testing.T) {
	t.Parallel()

	b := newTestBuffer(t, 1, 1000, 1000)

	tests := []TimeRange{
		{Start: 0.5, End: 0.2},
		{Start: -1, End: 0.2},
		{Start: math.NaN(), End: 0.2},
	}

	for _, r := range tests {
		if _, err := SelectRange(b, r); !errors.Is(err, ErrInvertedRange) {
			t.Errorf("SelectRange(%+v) error = %v, want ErrInvertedRange", r, err)
		}
	}
}

func TestSelectRange_SharesMemory(t *testing.T) {
	t.Parallel()

	b := newTestBuffer(t, 1, 100, 10)

	got, err := SelectRange(b, TimeRange{Start: 1, End: 2})
	if err != nil {
		t.Fatalf("SelectRange() error = %v", err)
	}

	if &got[0][0] != &b.Data[0][10] {
		t.Error("SelectRange() copied the data")
	}

	if cap(got[0]) != len(got[0]) {
		t.Errorf("cap = %d, want %d so appends cannot clobber the buffer", cap(got[0]), len(got[0]))
	}
}

func TestSelectRange_NoAudio(t *testing.T) {
	t.Parallel()

	if _, err := SelectRange(nil, TimeRange{End: 1}); !errors.Is(err, ErrNoAudio) {
		t.Errorf("SelectRange(nil) error = %v, want ErrNoAudio", err)
	}
}

func TestTimeRange_Clamping(t *testing.T) {
	t.Parallel()

	r := TimeRange{Start: 0, End: 10, Duration: 10}

	r.SetStart(4)
	if r.Start != 4 || r.End != 10 {
		t.Errorf("after SetStart(4) = %+v", r)
	}

	r.SetEnd(2) // end moved before start drags start
	if r.Start != 2 || r.End != 2 {
		t.Errorf("after SetEnd(2) = %+v", r)
	}

	r.SetStart(7) // start moved past end drags end
	if r.Start != 7 || r.End != 7 {
		t.Errorf("after SetStart(7) = %+v", r)
	}

	r.SetEnd(25)
	if r.End != 10 {
		t.Errorf("SetEnd(25) = %v, want clamp to 10", r.End)
	}

	r.SetStart(-3)
	if r.Start != 0 {
		t.Errorf("SetStart(-3) = %v, want 0", r.Start)
	}

	if r.Start > r.End {
		t.Errorf("invariant broken: %+v", r)
	}
}

func TestTimeRange_Unbounded(t *testing.T) {
	t.Parallel()

	var r TimeRange
	r.SetEnd(1000)

	if r.End != 1000 {
		t.Errorf("SetEnd(1000) without duration = %v", r.End)
	}
}

func TestFormatTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00.0"},
		{2.5, "00:02.5"},
		{59.96, "01:00.0"},
		{61.24, "01:01.2"},
		{754.3, "12:34.3"},
		{-4, "00:00.0"},
	}

	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"00:00.0", 0, false},
		{"00:02.5", 2.5, false},
		{"01:30", 90, false},
		{"12:34.25", 754.25, false},
		{"90:00", 5400, false},
		{"1:2:3", 0, true},
		{"abc", 0, true},
		{"-1:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTime(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrBadTimeFormat) {
				t.Errorf("ParseTime(%q) error = %v, want ErrBadTimeFormat", tt.in, err)
			}
			continue
		}

		if err != nil || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseTime(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestTimeRange_String(t *testing.T) {
	t.Parallel()

	r := TimeRange{Start: 2.5, End: 4}
	if got := r.String(); got != "00:02.5 → 00:04.0" {
		t.Errorf("String() = %q", got)
	}

	if r.Length() != 1.5 {
		t.Errorf("Length() = %v, want 1.5", r.Length())
	}
}
