package scheduler

import "errors"

var (
	// ErrInvalidInterval is returned when the loop interval is not positive
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
	// ErrLoopNotRunning is returned when stopping a loop that never started
	ErrLoopNotRunning = errors.New("scheduler: loop is not running")
)
