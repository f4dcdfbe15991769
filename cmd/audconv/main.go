// SPDX-License-Identifier: EPL-2.0

// Command audconv converts and trims audio files:
//
//	audconv mp3-to-wav song.mp3
//	audconv wav-to-mp3 take.wav -o out/
//	audconv cut talk.ogg --start 00:02.5 --end 00:04.0
//	audconv video-to-mp3 clip.mp4
//	audconv video-to-wav clip.mkv
package main

func main() {
	Execute()
}
