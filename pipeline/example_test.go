// SPDX-License-Identifier: EPL-2.0

package pipeline_test

import (
	"context"
	"fmt"
	"io"

	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/internal/audiotest"
	"github.com/ik5/audconv/pipeline"
)

func ExampleTool_DownloadName() {
	fmt.Println(pipeline.Cutter.DownloadName("interview.final.mp3"))
	fmt.Println(pipeline.VideoToWAV.DownloadName("/home/me/Videos/trip.mp4"))
	fmt.Println(pipeline.MP3ToWAV.DownloadName(".mp3"))

	// Output:
	// interview.final_cut.mp3
	// trip.wav
	// audio.wav
}

type toneExtractor struct{}

func (toneExtractor) Decode(io.Reader) (audio.Source, error) {
	return audiotest.NewSineSource(22050, 2, 22050, 440), nil
}

func ExampleSession() {
	s := pipeline.NewSession(pipeline.VideoToWAV, pipeline.WithVideoDecoder(toneExtractor{}))
	s.Subscribe(func(e pipeline.Event) {
		if e.State != pipeline.StateEncoding {
			fmt.Printf("%s: %s\n", e.State, e.Status.Text)
		}
	})

	ctx := context.Background()
	if err := s.Load(ctx, pipeline.File{Name: "trip.mp4", MIME: "video/mp4", Data: []byte{0}}); err != nil {
		fmt.Println(err)
		return
	}

	if err := s.Convert(ctx); err != nil {
		fmt.Println(err)
		return
	}

	if err := s.Wait(ctx); err != nil {
		fmt.Println(err)
		return
	}

	name, out, _ := s.Download()
	fmt.Println(name, out.MIME, out.Size())
}
