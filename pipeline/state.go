// SPDX-License-Identifier: EPL-2.0

package pipeline

import "fmt"

// State of a Session.
type State uint8

const (
	StateIdle State = iota
	StateFileLoaded
	StateDecoding
	StateReady
	StateRangeSelected
	StateEncoding
	StateDone
	StateError
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateFileLoaded:    "file loaded",
	StateDecoding:      "decoding",
	StateReady:         "ready",
	StateRangeSelected: "range selected",
	StateEncoding:      "encoding",
	StateDone:          "done",
	StateError:         "error",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// convertible reports whether Convert and the range setters may run.
func (s State) convertible() bool {
	return s == StateReady || s == StateRangeSelected
}

// StatusKind colors a status message.
type StatusKind uint8

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusInfo:
		return "info"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("StatusKind(%d)", uint8(k))
	}
}

// Status is the line a user sees.
type Status struct {
	Text string
	Kind StatusKind
}

// Event is published to subscribers on every state, status or progress
// change.
type Event struct {
	State    State
	Status   Status
	Progress float64
}
