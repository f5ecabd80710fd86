package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

var ioIntrinsics = map[string]intrinsic{
	nomc.RtPrint: func(m *machine, args []Value) (Value, error) {
		return NilValue(), writeLine(m.img.env.Stdout, "", args, Value.String)
	},
	nomc.RtDebug: func(m *machine, args []Value) (Value, error) {
		return NilValue(), writeLine(m.img.env.Stderr, "[debug] ", args, Value.Repr)
	},
}

func writeLine(w io.Writer, prefix string, args []Value, render func(Value) string) error {
	var sb strings.Builder
	sb.WriteString(prefix)
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(render(a))
	}
	sb.WriteByte('\n')
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
