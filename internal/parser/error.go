package parser

import (
	"fmt"

	"github.com/NovaVoxel/NovaLang/internal/diag"
)

// Error reports that a file failed to parse. Diags holds every diagnostic,
// sorted with errors first.
type Error struct {
	File  string
	Diags *diag.Bag
}

func (e *Error) Error() string {
	if e.Diags == nil || e.Diags.Len() == 0 {
		return e.File + ": parse failed"
	}
	first := e.Diags.Items()[0]
	errs, _ := e.Diags.Counts()
	msg := fmt.Sprintf("%s:%s: %s", e.File, first.Pos, first.Message)
	if errs > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", errs-1)
	}
	return msg
}
