package ir

import (
	"fmt"

	"github.com/NovaVoxel/NovaLang/internal/token"
)

// BuildError reports AST that cannot be lowered.
type BuildError struct {
	Pos  token.Pos
	Func string
	Msg  string
}

func (e *BuildError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("ir: %s: in %s: %s", e.Pos, e.Func, e.Msg)
	}
	return fmt.Sprintf("ir: %s: %s", e.Pos, e.Msg)
}
