package video

import "errors"

var (
	ErrToolNotFound  = errors.New("ffmpeg tool not found")
	ErrProbeFailed   = errors.New("ffprobe failed")
	ErrNoAudioStream = errors.New("no audio stream in input")
	ErrExtractFailed = errors.New("ffmpeg audio extraction failed")
)
