package launcher

import "fmt"

// LaunchError is a fatal failure before or instead of the unit loop.
type LaunchError struct {
	State State
	Err   error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch failed in %s: %v", e.State, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// UnitError is an isolated failure of one unit. Stage is "read", "load",
// "entry" or "execute".
type UnitError struct {
	Path  string
	Stage string
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }
