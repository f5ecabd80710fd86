package native

import (
	"fmt"
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/ir"
)

// CodegenError reports IR the backend cannot lower. Op is ir.OpCount when
// the failure is not tied to one instruction.
type CodegenError struct {
	Func  string
	Block string
	Op    ir.OpCode
	Msg   string
}

func (e *CodegenError) Error() string {
	var sb strings.Builder
	sb.WriteString("codegen")
	if e.Func != "" {
		fmt.Fprintf(&sb, ": func %s", e.Func)
	}
	if e.Block != "" {
		fmt.Fprintf(&sb, ": block %s", e.Block)
	}
	if e.Op < ir.OpCount {
		fmt.Fprintf(&sb, ": %s", e.Op)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	return sb.String()
}
