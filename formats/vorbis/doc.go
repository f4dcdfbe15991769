// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files through
// github.com/jfreymuth/oggvorbis.
//
// The library already produces float32 in [-1, 1], so samples are passed
// through unchanged. Reads are kept frame aligned.
package vorbis
