// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/ik5/audconv/formats"
)

// Input selects the decoder a tool feeds its files to.
type Input uint8

const (
	// AudioInput goes through the audio decoder registry.
	AudioInput Input = iota
	// VideoInput goes through the video audio extractor.
	VideoInput
)

func (i Input) String() string {
	if i == VideoInput {
		return "video"
	}
	return "audio"
}

// Messages are the status texts a tool shows. Failure texts get the reason
// appended after a colon.
type Messages struct {
	Prompt       string
	Invalid      string
	Decoding     string
	Ready        string
	DecodeFailed string
	Encoding     string
	Done         string
	EncodeFailed string
	BadRange     string
}

// Tool is one conversion flow: which files it takes, what it produces and
// whether the user trims before encoding.
type Tool struct {
	Name string
	// Accept lists MIME type prefixes, matched case insensitively.
	Accept []string
	// Extensions lists file extensions with their leading dot, lower case.
	Extensions []string
	Output     formats.Format
	Trim       bool
	// Suffix is appended to the download base name.
	Suffix   string
	Input    Input
	Messages Messages
}

var (
	MP3ToWAV = Tool{
		Name:       "mp3-to-wav",
		Accept:     []string{"audio/mpeg", "audio/mp3"},
		Extensions: []string{".mp3"},
		Output:     formats.WAV,
		Input:      AudioInput,
		Messages: Messages{
			Prompt:       "Please select an MP3 file to begin.",
			Invalid:      "Invalid file type. Please choose an MP3.",
			Decoding:     "Decoding MP3…",
			Ready:        "File ready. Convert to WAV when you are.",
			DecodeFailed: "The file may be corrupt",
			Encoding:     "Converting… this may take a moment.",
			Done:         "Conversion successful! You can preview or download.",
			EncodeFailed: "Conversion failed",
		},
	}

	WAVToMP3 = Tool{
		Name:       "wav-to-mp3",
		Accept:     []string{"audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave"},
		Extensions: []string{".wav", ".wave"},
		Output:     formats.MP3,
		Input:      AudioInput,
		Messages: Messages{
			Prompt:       "Please select a WAV file to begin.",
			Invalid:      "Only WAV files are supported.",
			Decoding:     "Reading WAV…",
			Ready:        "File loaded. Ready to convert.",
			DecodeFailed: "Could not read the WAV file",
			Encoding:     "Converting… please wait.",
			Done:         "Conversion complete!",
			EncodeFailed: "Something went wrong during conversion",
		},
	}

	Cutter = Tool{
		Name:       "cut",
		Accept:     []string{"audio/"},
		Extensions: []string{".mp3", ".wav", ".wave", ".ogg", ".oga", ".aif", ".aiff", ".aifc"},
		Output:     formats.MP3,
		Trim:       true,
		Suffix:     "_cut",
		Input:      AudioInput,
		Messages: Messages{
			Prompt:       "Please select an audio file to begin.",
			Invalid:      "Invalid audio file.",
			Decoding:     "Loading audio…",
			Ready:        "File loaded. Set your cut points.",
			DecodeFailed: "Failed to decode audio",
			Encoding:     "Encoding MP3…",
			Done:         "Cut complete",
			EncodeFailed: "Encoding failed",
			BadRange:     "Invalid cut range.",
		},
	}

	VideoToMP3 = Tool{
		Name:       "video-to-mp3",
		Accept:     []string{"video/"},
		Extensions: videoExtensions,
		Output:     formats.MP3,
		Input:      VideoInput,
		Messages: Messages{
			Prompt:       "Select a video file to begin.",
			Invalid:      "Please select a valid video file.",
			Decoding:     "Decoding audio…",
			Ready:        "File loaded. Ready to extract audio.",
			DecodeFailed: "This video format may not be supported",
			Encoding:     "Encoding MP3…",
			Done:         "Extraction complete!",
			EncodeFailed: "Encoding failed",
		},
	}

	VideoToWAV = Tool{
		Name:       "video-to-wav",
		Accept:     []string{"video/"},
		Extensions: videoExtensions,
		Output:     formats.WAV,
		Input:      VideoInput,
		Messages: Messages{
			Prompt:       "Please select a video file to begin.",
			Invalid:      "That doesn't look like a video file.",
			Decoding:     "Decoding audio…",
			Ready:        "File ready. Extract WAV audio to start.",
			DecodeFailed: "Extraction failed",
			Encoding:     "Encoding WAV…",
			Done:         "Extraction complete!",
			EncodeFailed: "Encoding failed",
		},
	}
)

var videoExtensions = []string{".mp4", ".m4v", ".mov", ".mkv", ".webm", ".avi", ".mpg", ".mpeg", ".ogv", ".3gp"}

// Tools lists the presets in the order the CLI shows them.
func Tools() []Tool {
	return []Tool{MP3ToWAV, WAVToMP3, Cutter, VideoToMP3, VideoToWAV}
}

// Accepts reports whether f looks like input for t, by declared MIME type
// or by file extension.
func (t Tool) Accepts(f File) bool {
	mime := strings.ToLower(strings.TrimSpace(f.MIME))
	if mime != "" {
		for _, prefix := range t.Accept {
			if strings.HasPrefix(mime, prefix) {
				return true
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(f.Name))

	return ext != "" && slices.Contains(t.Extensions, ext)
}

// DownloadName is the file name offered for output made from original.
// Directories and the last extension are dropped; an empty base becomes
// "audio".
func (t Tool) DownloadName(original string) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "audio"
	}

	return base + t.Suffix + "." + t.Output.Ext()
}
