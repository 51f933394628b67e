package job

import "errors"

// Job errors.
var (
	// ErrAlreadyStarted is returned when starting a running scheduler.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when stopping a scheduler that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrInvalidSchedule is returned for an unparseable cron expression.
	ErrInvalidSchedule = errors.New("job: invalid schedule")
)
