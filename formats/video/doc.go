// SPDX-License-Identifier: EPL-2.0

// Package video pulls the audio track out of video containers by running
// ffmpeg.
//
// New locates ffmpeg and ffprobe once (avconv and avprobe are accepted as
// fallbacks). Each Decode spools the input to a temporary file, asks ffprobe
// for the first audio stream, then streams it from ffmpeg as 32-bit float
// PCM. Streams with more than two channels are downmixed to stereo by
// ffmpeg.
//
//	dec, err := video.New(video.WithLogger(log))
//	src, err := dec.DecodeContext(ctx, file)
//	buf, err := audio.ReadAllContext(ctx, src)
//
// The tool invocations go through a Runner so they can be replaced in tests.
package video
