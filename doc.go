// SPDX-License-Identifier: EPL-2.0

// Package audconv converts audio between containers.
//
// It backs five tools: MP3 to WAV, WAV to MP3, an audio cutter that trims a
// time range to MP3, and video to MP3 or WAV. Every tool runs the same
// pipeline:
//
//	bytes -> decoder -> audio.Buffer -> [audio.SelectRange] -> Encode -> blob
//
// # Decoding
//
// NewRegistry returns an audio.Registry with the WAV, MP3, Ogg Vorbis and
// AIFF decoders. Decoders are picked by sniffing the first bytes of the
// input, falling back to the file extension. Video containers go through
// formats/video, which drives ffmpeg.
//
//	reg := audconv.NewRegistry()
//	_, dec, ok := reg.Detect(header)
//	src, err := dec.Decode(file)
//	buf, err := audio.ReadAll(src)
//
// # Encoding
//
// Encode writes planar channels as WAV (16-bit PCM) or MP3 (constant
// bitrate, 128 kbps unless WithBitrate says otherwise):
//
//	err := audconv.Encode(ctx, out, buf.Data, buf.SampleRate, formats.MP3,
//		audconv.WithMP3Encoder(lame.NewFrameEncoder),
//		audconv.WithProgress(func(p float64) { fmt.Printf("%.0f%%\n", p) }))
//
// # Sessions
//
// The pipeline package wraps all of this into a per-tool Session state
// machine that validates input, decodes, keeps the selected range, runs the
// encoder on a worker and hands out the result as a revocable blob URL.
//
// # Subpackages
//
//   - audio: Source, Decoder, Registry, Buffer, TimeRange and SelectRange
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: codecs
//   - formats/mp3/lame: libmp3lame frame encoder (cgo)
//   - formats/video: ffmpeg based audio extraction
//   - worker: background encoding tasks, in process or in a subprocess
//   - blob: object URL store
//   - pipeline: tool presets and sessions
//   - utils: PCM conversion helpers
package audconv
