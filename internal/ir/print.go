package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable listing of m.
func Dump(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "module %s\n", m.Name); err != nil {
		return err
	}
	for _, u := range m.Uses {
		fmt.Fprintf(w, "use %s\n", u)
	}
	for _, f := range m.Funcs {
		fmt.Fprintf(w, "\nfunc %s(%s)\n", f.Name, strings.Join(f.Params, ", "))
		for _, b := range f.Blocks {
			fmt.Fprintf(w, "%s:\n", b.Name)
			for i := range b.Instrs {
				if _, err := fmt.Fprintf(w, "  %s\n", b.Instrs[i].String()); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DumpString renders m with Dump.
func DumpString(m *Module) string {
	var sb strings.Builder
	_ = Dump(&sb, m)
	return sb.String()
}
