package launcher

import "fmt"

// State is a step of the launch state machine.
type State uint8

const (
	StateOpening State = iota + 1
	StateManifestRead
	StateUnitLoad
	StateUnitExecute
	StateDone
	// StateTerminal is entered after a fatal error.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "Opening"
	case StateManifestRead:
		return "ManifestRead"
	case StateUnitLoad:
		return "UnitLoad"
	case StateUnitExecute:
		return "UnitExecute"
	case StateDone:
		return "Done"
	case StateTerminal:
		return "Terminal"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ExecMode selects how units run.
type ExecMode uint8

const (
	// ModeInProcess loads every unit into the VM of this process.
	ModeInProcess ExecMode = iota
	// ModeExtract writes each unit to a temporary directory and runs it as
	// a child "nova run --nomc" process.
	ModeExtract
)

// ParseMode converts a flag value.
func ParseMode(s string) (ExecMode, error) {
	switch s {
	case "", "inprocess", "in-process":
		return ModeInProcess, nil
	case "extract":
		return ModeExtract, nil
	}
	return ModeInProcess, fmt.Errorf("unknown exec mode %q (expected: inprocess|extract)", s)
}
