// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decode-side primitives of the conversion
// pipeline.
//
// This package contains:
//   - Source and Decoder interfaces for streaming decoded PCM
//   - Registry for picking a decoder by name, extension, MIME type or by
//     sniffing the first bytes of a file
//   - Buffer, the fully decoded planar PCM a conversion works on
//   - TimeRange and SelectRange for trimming a Buffer
//   - MonoMixer for folding wide layouts down to mono
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders in formats/... return a Source. ReadAll drains one into a Buffer:
//
//	src, _ := mp3.Decoder{}.Decode(file)
//	buf, err := audio.ReadAll(src)
//
// # Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("mp3", mp3.Decoder{}, "audio/mpeg")
//	format, decoder, ok := registry.Detect(data[:audio.ProbeSize])
//
// Decoders implementing Prober take part in Detect; everything else is only
// reachable by name or alias.
//
// # Trimming
//
// A TimeRange holds start and end in seconds. SetStart and SetEnd clamp into
// the buffer's duration and keep Start <= End. SelectRange turns the range
// into frame indices with floor(seconds * rate), end exclusive:
//
//	r := audio.FullRange(buf)
//	r.SetStart(2.5)
//	r.SetEnd(4.0)
//	channels, err := audio.SelectRange(buf, r) // 66150 frames at 44.1kHz
//
// An empty selection is reported as ErrEmptyRange, never as empty output.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. Buffers hold at most two channels.
package audio
