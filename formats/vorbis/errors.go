package vorbis

import "errors"

// ErrNotVorbisFile is returned when the stream has no Vorbis headers.
var ErrNotVorbisFile = errors.New("not an Ogg Vorbis file")
