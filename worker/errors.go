package worker

import "errors"

var (
	ErrInvalidJob    = errors.New("invalid encoding job")
	ErrWorkerCrashed = errors.New("worker exited without a result")
)
