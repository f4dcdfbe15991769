// SPDX-License-Identifier: EPL-2.0

// Package worker runs encoding jobs away from the caller's goroutine.
//
// A Runner starts a Task for one Job. The task reports progress and then
// exactly one done or error Message on its Messages channel, which is closed
// afterwards:
//
//	task, err := worker.NewInProcess(worker.WithMP3Encoder(lame.NewFrameEncoder)).
//		Start(ctx, worker.Job{Channels: buf.Data, SampleRate: buf.SampleRate, Format: formats.MP3})
//	for msg := range task.Messages() {
//		switch msg.Kind {
//		case worker.KindProgress:
//			fmt.Printf("%.0f%%\n", msg.Progress)
//		case worker.KindDone:
//			save(msg.Blob)
//		case worker.KindError:
//			log.Print(msg.Error)
//		}
//	}
//
// Progress never decreases and is sent once per whole percent. Terminate
// stops the task; nothing is delivered after it returns.
//
// # Runners
//
// InProcess encodes on a goroutine. Process starts a child, usually the same
// binary with the hidden "worker" command, and talks to it with msgpack over
// stdin and stdout. The child side is Serve. Terminate on a Process task
// kills the child.
package worker
