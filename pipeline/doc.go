// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs the conversion tools: validate a file, decode it,
// optionally trim it, encode it in the background and hand back the result.
//
// A Tool describes one flow (MP3ToWAV, WAVToMP3, Cutter, VideoToMP3,
// VideoToWAV). A Session walks a tool through its states:
//
//	Idle → FileLoaded → Decoding → Ready (→ RangeSelected) → Encoding → Done
//
// Decoding failures land in Error, encoding failures go back to Ready with
// the decoded audio kept for a retry, and Reset returns to Idle from
// anywhere.
//
// Basic usage:
//
//	s := pipeline.NewSession(pipeline.Cutter,
//		pipeline.WithRunner(worker.NewInProcess(worker.WithMP3Encoder(lame.NewFrameEncoder))),
//	)
//	if err := s.Load(ctx, pipeline.File{Name: "talk.wav", Data: data}); err != nil {
//		return err
//	}
//	s.SetRange(2.5, 4)
//	if err := s.Convert(ctx); err != nil {
//		return err
//	}
//	if err := s.Wait(ctx); err != nil {
//		return err
//	}
//	name, out, _ := s.Download() // "talk_cut.mp3"
//
// Each encoding job carries its own token. Messages arriving from a job that
// was reset or replaced are dropped, so a terminated task never changes the
// session. Output blobs are revoked before a new one is stored and on Reset.
package pipeline
