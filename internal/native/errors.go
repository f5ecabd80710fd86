package native

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPath      = errors.New("unknown native path")
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrNotCallable      = errors.New("value is not callable")
	ErrBadArgument      = errors.New("bad argument")
)

// CallError is returned to the calling unit when a native call fails. Kind
// is one of the sentinel errors above or the error raised by the callee.
type CallError struct {
	Path string
	Kind error
	Msg  string
}

func (e *CallError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("native %s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("native %s: %v: %s", e.Path, e.Kind, e.Msg)
}

func (e *CallError) Unwrap() error { return e.Kind }

func callErr(path string, kind error, format string, args ...any) *CallError {
	return &CallError{Path: path, Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func argErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadArgument, fmt.Sprintf(format, args...))
}
