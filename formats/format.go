// SPDX-License-Identifier: EPL-2.0

// Package formats names the containers the pipeline can produce. The
// encoders and decoders themselves live in the subpackages.
package formats

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by Parse for names it does not recognise.
var ErrUnknownFormat = errors.New("unknown output format")

// Format is an output container.
type Format string

const (
	WAV Format = "wav"
	MP3 Format = "mp3"
)

// MIME type of the produced blob.
func (f Format) MIME() string {
	switch f {
	case WAV:
		return "audio/wav"
	case MP3:
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}

// Ext is the file extension without the dot.
func (f Format) Ext() string { return string(f) }

func (f Format) String() string { return strings.ToUpper(string(f)) }

// Valid reports whether f is a known container.
func (f Format) Valid() bool { return f == WAV || f == MP3 }

// Parse accepts a name such as "wav", ".MP3" or "audio/mpeg".
func Parse(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "wav", "wave", "audio/wav", "audio/wave", "audio/x-wav":
		return WAV, nil
	case "mp3", "audio/mpeg", "audio/mp3":
		return MP3, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
