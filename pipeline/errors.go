package pipeline

import (
	"errors"
	"fmt"

	"github.com/ik5/audconv/audio"
)

var (
	// ErrInvalidInput is returned by Load for files the tool does not accept.
	ErrInvalidInput = errors.New("invalid input file")
	// ErrDecode is returned by Load when the file cannot be decoded.
	ErrDecode = errors.New("failed to decode input")
	// ErrEncode is recorded when an encoding task fails.
	ErrEncode = errors.New("failed to encode output")
	// ErrInvalidRange is returned by Convert for empty or inverted trims.
	ErrInvalidRange = fmt.Errorf("pipeline: %w", audio.ErrInvalidRange)
	// ErrWrongState is returned for operations the current state forbids.
	ErrWrongState = errors.New("operation not allowed in current state")
	// ErrReset is returned to callers whose work was dropped by Reset or by
	// a newer Load.
	ErrReset = errors.New("session was reset")

	errNoDecoder      = errors.New("no decoder recognises this file")
	errNoVideoDecoder = errors.New("no video decoder configured")
)
