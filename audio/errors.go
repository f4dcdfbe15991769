// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAudio is returned when a source or buffer carries no usable stream.
	ErrNoAudio = errors.New("no audio stream")
	// ErrInvalidSampleRate is returned for non-positive sample rates.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrChannelLengthMismatch is returned when planar channels differ in length.
	ErrChannelLengthMismatch = errors.New("channels have different lengths")

	// ErrInvalidRange is the parent of every time range validation error.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrEmptyRange is returned when a range selects zero frames.
	ErrEmptyRange = fmt.Errorf("%w: range is empty", ErrInvalidRange)
	// ErrInvertedRange is returned when the start lies after the end.
	ErrInvertedRange = fmt.Errorf("%w: start is after end", ErrInvalidRange)

	// ErrBadTimeFormat is returned by ParseTime for text not shaped like mm:ss.s.
	ErrBadTimeFormat = errors.New("time must look like mm:ss.s")
)
