package audconv

import (
	"github.com/ik5/audconv/audio"
	"github.com/ik5/audconv/formats/aiff"
	"github.com/ik5/audconv/formats/mp3"
	"github.com/ik5/audconv/formats/vorbis"
	"github.com/ik5/audconv/formats/wav"
)

// NewRegistry returns a registry holding every built-in audio decoder,
// reachable by format name, file extension and MIME type. Detection order
// is WAV, MP3, Ogg Vorbis, AIFF.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()

	reg.Register("wav", wav.Decoder{}, ".wave", "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave")
	reg.Register("mp3", mp3.Decoder{}, ".mpga", "audio/mpeg", "audio/mp3", "audio/mpeg3", "audio/x-mpeg-3")
	reg.Register("ogg", vorbis.Decoder{}, ".oga", ".ogg", "audio/ogg", "audio/vorbis", "application/ogg")
	reg.Register("aiff", aiff.Decoder{}, ".aif", ".aifc", "audio/aiff", "audio/x-aiff")

	return reg
}
