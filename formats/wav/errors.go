package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrUnsupportedWavLayout  = errors.New("unsupported WAV layout")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrUnsupportedEncoding   = errors.New("only integer PCM WAV files can be decoded")

	ErrNoChannels            = errors.New("no channels to encode")
	ErrChannelLengthMismatch = errors.New("channels have different lengths")
	ErrInvalidSampleRate     = errors.New("sample rate must be positive")
	ErrDataTooLarge          = errors.New("PCM data does not fit a RIFF chunk")
)
