// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audconv/audio"
)

// aiffReader is the subset of aiff.Decoder used by source.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	scale      float32
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

// BufSize follows the largest read so far.
func (s *source) BufSize() int {
	if s.intBuf == nil {
		return 4096
	}
	return cap(s.intBuf.Data)
}

// ints returns the reusable integer buffer resized to n samples.
func (s *source) ints(n int) *goaudio.IntBuffer {
	if s.intBuf == nil || cap(s.intBuf.Data) < n {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, n), Format: s.dec.Format()}
	}
	s.intBuf.Data = s.intBuf.Data[:n]

	return s.intBuf
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	buf := s.ints(len(dst))

	n, err := s.dec.PCMBuffer(buf)
	switch {
	case err != nil && err != io.EOF && n == 0:
		return 0, fmt.Errorf("%w", err)
	case n == 0:
		return 0, io.EOF
	}

	// AIFF samples are signed at every depth
	for i, v := range buf.Data[:n] {
		dst[i] = float32(v) / s.scale
	}

	if err == nil && n < len(dst) {
		err = io.EOF
	}

	return n, err
}

// Decoder reads uncompressed AIFF through github.com/go-audio/aiff.
type Decoder struct{}

// Probe recognises the FORM/AIFF and FORM/AIFC signatures.
func (Decoder) Probe(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[0:4], []byte("FORM")) {
		return false
	}

	form := string(header[8:12])

	return form == "AIFF" || form == "AIFC"
}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		scale:      float32(int64(1) << (dec.BitDepth - 1)),
	}, nil
}
