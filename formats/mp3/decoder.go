// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/utils"
)

// mp3Reader is the subset of gomp3.Decoder used by source.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	// mono streams come out of go-mp3 duplicated into both channels; only
	// the left one is kept.
	mono bool
	buf  []byte
}

func (s *source) SampleRate() int { return s.sampleRate }

func (s *source) Channels() int {
	if s.mono {
		return 1
	}
	return 2
}

func (s *source) Close() error { return nil }
func (s *source) BufSize() int { return cap(s.buf) / s.stride() }

// stride is the number of decoded bytes behind one value of dst.
func (s *source) stride() int {
	if s.mono {
		return 4
	}
	return 2
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	// go-mp3 yields interleaved little-endian int16 stereo
	stride := s.stride()
	bytesNeeded := len(dst) * stride
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.dec, s.buf)
	samples := n / stride

	for i := range samples {
		val := int16(uint16(s.buf[stride*i]) | uint16(s.buf[stride*i+1])<<8)
		dst[i] = utils.Int16ToFloat(val)
	}

	switch err {
	case nil:
		return samples, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("%w", err)
	}
}

// Decoder decodes MPEG-1/2 Layer III streams through
// github.com/hajimehoshi/go-mp3. Single channel streams decode to one
// channel.
type Decoder struct{}

// Probe recognises an ID3v2 tag or an MPEG audio frame sync.
func (Decoder) Probe(header []byte) bool {
	if len(header) >= 3 && bytes.Equal(header[:3], []byte("ID3")) {
		return true
	}

	return len(header) >= 2 && isLayer3Sync(header[0], header[1])
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3File, err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		mono:       isMono(data),
		buf:        make([]byte, 8192),
	}, nil
}

// 11 sync bits, layer III (01)
func isLayer3Sync(b0, b1 byte) bool {
	return b0 == 0xFF && b1&0xE0 == 0xE0 && b1&0x06 == 0x02
}

// isMono reports whether the first frame after any ID3v2 tag uses the
// single channel mode.
func isMono(data []byte) bool {
	off := 0
	if len(data) >= 10 && bytes.Equal(data[:3], []byte("ID3")) {
		// syncsafe size excludes the 10 byte header and the optional footer
		size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)
		off = 10 + size
		if data[5]&0x10 != 0 {
			off += 10
		}
	}

	for i := off; i+3 < len(data); i++ {
		if !isLayer3Sync(data[i], data[i+1]) {
			continue
		}

		// bitrate index 1111 and sample rate index 11 are invalid
		if data[i+2]>>4 == 0x0F || (data[i+2]>>2)&0x03 == 0x03 {
			continue
		}

		return data[i+3]>>6 == 0x03
	}

	return false
}
