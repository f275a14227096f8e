package montecarlo

import "errors"

var (
	// ErrNoScheduleData indicates the project has no activities to simulate.
	ErrNoScheduleData = errors.New("no schedule data for project")
	// ErrInvalidInput indicates invalid simulation parameters.
	ErrInvalidInput = errors.New("invalid simulation input")
)
