// SPDX-License-Identifier: EPL-2.0

// Package lame is a constant bitrate MP3 frame encoder backed by libmp3lame.
// It needs cgo and the LAME development headers.
package lame

/*
#cgo darwin CFLAGS: -I/opt/homebrew/include
#cgo darwin LDFLAGS: -L/opt/homebrew/lib -lmp3lame
#cgo linux LDFLAGS: -lmp3lame
#include <lame/lame.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ik5/audconv/formats/mp3"
)

var (
	ErrInit              = errors.New("lame: failed to initialize")
	ErrParams            = errors.New("lame: rejected encoder parameters")
	ErrEncode            = errors.New("lame: encode failed")
	ErrClosed            = errors.New("lame: encoder is closed")
	ErrChannels          = errors.New("lame: channels must be 1 or 2")
	ErrBlockSizeMismatch = errors.New("lame: left and right blocks differ in length")
)

// flushSize is the minimum output buffer lame_encode_flush may need.
const flushSize = 7200

// Encoder is a mp3.FrameEncoder. It is safe for use from one goroutine at a
// time; calls are serialised.
type Encoder struct {
	mu       sync.Mutex
	gf       *C.lame_global_flags
	channels int
	buf      []byte
	closed   bool
}

var _ mp3.FrameEncoder = (*Encoder)(nil)

// New opens a CBR encoder. Mono input is encoded in MONO mode, stereo in
// JOINT_STEREO.
func New(sampleRate, channels, bitrateKbps int) (*Encoder, error) {
	if channels != 1 && channels != 2 {
		return nil, ErrChannels
	}

	gf := C.lame_init()
	if gf == nil {
		return nil, ErrInit
	}

	C.lame_set_in_samplerate(gf, C.int(sampleRate))
	C.lame_set_num_channels(gf, C.int(channels))

	if channels == 1 {
		C.lame_set_mode(gf, C.MONO)
	} else {
		C.lame_set_mode(gf, C.JOINT_STEREO)
	}

	C.lame_set_VBR(gf, C.vbr_off)
	C.lame_set_brate(gf, C.int(bitrateKbps))

	if C.lame_init_params(gf) < 0 {
		C.lame_close(gf)
		return nil, fmt.Errorf("%w: %d Hz, %d ch, %d kbps", ErrParams, sampleRate, channels, bitrateKbps)
	}

	return &Encoder{
		gf:       gf,
		channels: channels,
		buf:      make([]byte, mp3.FrameSize*5/4+flushSize),
	}, nil
}

// NewFrameEncoder has the mp3.NewFrameEncoderFunc signature.
func NewFrameEncoder(sampleRate, channels, bitrateKbps int) (mp3.FrameEncoder, error) {
	enc, err := New(sampleRate, channels, bitrateKbps)
	if err != nil {
		return nil, err
	}

	return enc, nil
}

func (e *Encoder) Encode(left, right []int16) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	if len(left) == 0 {
		return nil, nil
	}

	rightPtr := (*C.short)(nil)
	if e.channels == 2 {
		if len(right) != len(left) {
			return nil, ErrBlockSizeMismatch
		}
		rightPtr = (*C.short)(unsafe.Pointer(&right[0]))
	}

	// LAME recommends 1.25*num_samples + 7200
	required := len(left)*5/4 + flushSize
	if len(e.buf) < required {
		e.buf = make([]byte, required)
	}

	n := C.lame_encode_buffer(
		e.gf,
		(*C.short)(unsafe.Pointer(&left[0])),
		rightPtr,
		C.int(len(left)),
		(*C.uchar)(unsafe.Pointer(&e.buf[0])),
		C.int(len(e.buf)),
	)
	if n < 0 {
		return nil, fmt.Errorf("%w: code %d", ErrEncode, int(n))
	}

	return append([]byte(nil), e.buf[:n]...), nil
}

func (e *Encoder) Flush() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	n := C.lame_encode_flush(
		e.gf,
		(*C.uchar)(unsafe.Pointer(&e.buf[0])),
		C.int(len(e.buf)),
	)
	if n < 0 {
		return nil, fmt.Errorf("%w: flush code %d", ErrEncode, int(n))
	}

	return append([]byte(nil), e.buf[:n]...), nil
}

// Close releases the LAME context. It is safe to call more than once.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if e.gf != nil {
		C.lame_close(e.gf)
		e.gf = nil
	}

	return nil
}
