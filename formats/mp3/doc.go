// SPDX-License-Identifier: EPL-2.0

// Package mp3 encodes and decodes MP3 streams.
//
// # Encoding
//
// Encode is a block harness: it splits planar float channels into blocks of
// FrameSize (1152) samples, converts each block to int16 and hands it to a
// FrameEncoder, writing whatever bytes come back in order. After the last
// block the encoder is flushed and closed.
//
//	err := mp3.Encode(ctx, out, lame.NewFrameEncoder, [][]float32{left, right}, 44100,
//		mp3.WithBitrate(128),
//		mp3.WithProgress(func(p float64) { log.Printf("%.0f%%", p) }))
//
// The frame encoder is pluggable. The lame subpackage provides a cgo backend
// on top of libmp3lame; tests use a scripted fake.
//
// Any encoder error aborts the run and is wrapped in ErrEncoderFailed. The
// bytes written so far are not a valid stream.
//
// # Decoding
//
// Decoder uses github.com/hajimehoshi/go-mp3. go-mp3 always produces
// interleaved 16-bit stereo; when the first frame header after any ID3v2 tag
// says single channel, the duplicate right channel is dropped and the source
// reports one channel.
package mp3
