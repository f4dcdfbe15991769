// SPDX-License-Identifier: EPL-2.0

package pipeline

import "testing"

func TestTool_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tool Tool
		file File
		want bool
	}{
		{MP3ToWAV, File{Name: "a.bin", MIME: "audio/mpeg"}, true},
		{MP3ToWAV, File{Name: "A.MP3"}, true},
		{MP3ToWAV, File{Name: "a.wav", MIME: "audio/wav"}, false},
		{WAVToMP3, File{Name: "take.wav"}, true},
		{WAVToMP3, File{Name: "take", MIME: "Audio/X-WAV"}, true},
		{WAVToMP3, File{Name: "take.mp3"}, false},
		{Cutter, File{Name: "x", MIME: "audio/flac"}, true},
		{Cutter, File{Name: "song.ogg"}, true},
		{Cutter, File{Name: "clip.mp4", MIME: "video/mp4"}, false},
		{VideoToMP3, File{Name: "x", MIME: "video/quicktime"}, true},
		{VideoToWAV, File{Name: "movie.MKV"}, true},
		{VideoToWAV, File{Name: "movie"}, false},
		{VideoToWAV, File{Name: ".mp4"}, true},
	}

	for _, tt := range tests {
		if got := tt.tool.Accepts(tt.file); got != tt.want {
			t.Errorf("%s.Accepts(%+v) = %v, want %v", tt.tool.Name, tt.file, got, tt.want)
		}
	}
}

func TestTool_DownloadName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tool     Tool
		original string
		want     string
	}{
		{MP3ToWAV, "song.mp3", "song.wav"},
		{WAVToMP3, "take.final.wav", "take.final.mp3"},
		{Cutter, "voice.ogg", "voice_cut.mp3"},
		{Cutter, ".mp3", "audio_cut.mp3"},
		{VideoToMP3, "/tmp/upload/clip.mp4", "clip.mp3"},
		{VideoToWAV, "", "audio.wav"},
		{VideoToWAV, "noext", "noext.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := tt.tool.DownloadName(tt.original); got != tt.want {
				t.Errorf("DownloadName(%q) = %q, want %q", tt.original, got, tt.want)
			}
		})
	}
}

func TestTools(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, tool := range Tools() {
		if seen[tool.Name] {
			t.Errorf("duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true

		if !tool.Output.Valid() {
			t.Errorf("%s produces %q", tool.Name, tool.Output)
		}

		if tool.Messages.Prompt == "" || tool.Messages.Invalid == "" || tool.Messages.Done == "" {
			t.Errorf("%s is missing status texts", tool.Name)
		}

		if tool.Trim != (tool.Suffix != "") {
			t.Errorf("%s: trim %v with suffix %q", tool.Name, tool.Trim, tool.Suffix)
		}
	}

	if len(seen) != 5 {
		t.Errorf("got %d tools, want 5", len(seen))
	}
}
