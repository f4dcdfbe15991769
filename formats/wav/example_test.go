// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/formats/wav"
)

// Example_encode writes two stereo frames and inspects the header.
func Example_encode() {
	channels := [][]float32{
		{0.25, -0.25},
		{0.5, -0.5},
	}

	out := new(bytes.Buffer)
	if err := wav.Encode(context.Background(), out, channels, 8000); err != nil {
		fmt.Println("encode:", err)
		return
	}

	b := out.Bytes()
	fmt.Printf("Bytes: %d\n", len(b))
	fmt.Printf("Chunks: %s %s %s %s\n", b[0:4], b[8:12], b[12:16], b[36:40])
	fmt.Printf("Channels: %d, Rate: %d\n",
		binary.LittleEndian.Uint16(b[22:24]), binary.LittleEndian.Uint32(b[24:28]))

	// Output:
	// Bytes: 52
	// Chunks: RIFF WAVE fmt  data
	// Channels: 2, Rate: 8000
}

// Example_decoding reads a file back into planar channels.
func Example_decoding() {
	wavData := new(bytes.Buffer)
	if err := wav.WriteWAV16(wavData, 16000, 1, []int16{100, 200, 300, 400, 500}); err != nil {
		fmt.Println("write:", err)
		return
	}

	src, err := wav.Decoder{}.Decode(wavData)
	if err != nil {
		fmt.Println("decode:", err)
		return
	}

	buf, err := audio.ReadAll(src)
	if err != nil {
		fmt.Println("read:", err)
		return
	}

	fmt.Printf("Sample rate: %d Hz\n", buf.SampleRate)
	fmt.Printf("Channels: %d\n", buf.Channels)
	fmt.Printf("Frames: %d\n", buf.Length)

	// Output:
	// Sample rate: 16000 Hz
	// Channels: 1
	// Frames: 5
}
