package mp3

import "errors"

var (
	// ErrEncoderFailed wraps any error coming out of the frame encoder.
	ErrEncoderFailed = errors.New("mp3 encoder failed")

	ErrNoEncoder             = errors.New("no mp3 frame encoder configured")
	ErrUnsupportedChannels   = errors.New("mp3 encoding supports 1 or 2 channels")
	ErrChannelLengthMismatch = errors.New("channels have different lengths")
	ErrInvalidSampleRate     = errors.New("sample rate must be positive")
	ErrInvalidBitrate        = errors.New("bitrate must be positive")

	ErrNotMP3File = errors.New("not an MP3 file")
)
