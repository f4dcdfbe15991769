// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files.
//
// # Writing
//
// Encode takes planar float channels in [-1, 1], interleaves them and writes
// a 16-bit PCM file with the canonical 44 byte header:
//
//	out, _ := os.Create("out.wav")
//	err := wav.Encode(ctx, out, [][]float32{left, right}, 44100,
//		wav.WithProgress(func(p float64) { fmt.Printf("%.0f%%\n", p) }))
//
// Conversion to int16 is asymmetric: negative samples scale by 32768 and
// non-negative ones by 32767, truncating toward zero. WriteWAV16 writes
// already converted interleaved samples.
//
// Progress is reported after every chunk of 8192 samples and always ends at
// 100.
//
// # Reading
//
// Decoder parses files through github.com/go-audio/wav, so chunk order and
// extra chunks (LIST, fact) do not matter. Integer PCM of 8, 16, 24 and 32
// bits is supported; IEEE float files are rejected with
// ErrUnsupportedEncoding. Decoder implements audio.Prober and recognises the
// RIFF/WAVE signature.
package wav
