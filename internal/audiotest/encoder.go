// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"errors"
	"sync"
)

// ErrScripted is returned by FrameEncoder when told to fail.
var ErrScripted = errors.New("scripted encoder failure")

// FrameEncoder is a scripted stand-in for an MP3 frame encoder. Every Encode
// call emits one byte holding the call number (mod 256) followed by the
// block length as a little-endian uint16, which lets tests check ordering.
// Flush emits a single 0xFF byte.
type FrameEncoder struct {
	mu sync.Mutex

	SampleRate int
	Channels   int
	Bitrate    int

	// FailOnCall makes the n-th Encode call (1-based) fail. Zero disables it.
	FailOnCall int
	// FailFlush makes Flush fail.
	FailFlush bool

	Calls      int
	BlockSizes []int
	Stereo     []bool
	Flushed    bool
	Closed     bool
}

// Open records the parameters the encoder was opened with and returns enc.
// Wrap it in a closure to get an mp3.NewFrameEncoderFunc.
func (enc *FrameEncoder) Open(sampleRate, channels, bitrateKbps int) (*FrameEncoder, error) {
	enc.mu.Lock()
	defer enc.mu.Unlock()

	enc.SampleRate = sampleRate
	enc.Channels = channels
	enc.Bitrate = bitrateKbps

	return enc, nil
}

func (enc *FrameEncoder) Encode(left, right []int16) ([]byte, error) {
	enc.mu.Lock()
	defer enc.mu.Unlock()

	enc.Calls++
	if enc.FailOnCall > 0 && enc.Calls == enc.FailOnCall {
		return nil, ErrScripted
	}

	enc.BlockSizes = append(enc.BlockSizes, len(left))
	enc.Stereo = append(enc.Stereo, right != nil)

	return binary.LittleEndian.AppendUint16([]byte{byte(enc.Calls)}, uint16(len(left))), nil
}

func (enc *FrameEncoder) Flush() ([]byte, error) {
	enc.mu.Lock()
	defer enc.mu.Unlock()

	if enc.FailFlush {
		return nil, ErrScripted
	}

	enc.Flushed = true

	return []byte{0xFF}, nil
}

func (enc *FrameEncoder) Close() error {
	enc.mu.Lock()
	defer enc.mu.Unlock()

	enc.Closed = true

	return nil
}
