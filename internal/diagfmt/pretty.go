package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/NovaVoxel/NovaLang/internal/diag"
)

// Pretty renders diagnostics in bag order (call bag.Sort first):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line and a caret when the source is known, then
// notes and a summary line.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	errC := color.New(color.FgRed, color.Bold)
	warnC := color.New(color.FgYellow, color.Bold)
	infoC := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{errC, warnC, infoC, dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range bag.Items() {
		sev := infoC
		switch d.Severity {
		case diag.SevError:
			sev = errC
		case diag.SevWarning:
			sev = warnC
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(d.File, d.Pos.Line, d.Pos.Col, opts.PathMode),
			sev.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		if line, ok := sourceLine(opts.Sources[d.File], d.Pos.Line); ok && d.Pos.Col > 0 {
			fmt.Fprintf(w, "  %s\n", line)
			pad := strings.Repeat(" ", int(d.Pos.Col-1))
			fmt.Fprintf(w, "  %s%s\n", pad, sev.Sprint("^"))
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s: %s\n", dim.Sprint("note"), n.Pos, n.Msg)
			}
		}
	}
	if errs, warns := bag.Counts(); errs+warns > 0 {
		fmt.Fprintln(w, Summary(errs, warns))
	}
}

// Summary renders "N error(s), M warning(s)".
func Summary(errs, warns int) string {
	return fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func location(file string, line, col uint32, mode PathMode) string {
	if file == "" {
		file = "<input>"
	}
	if mode == PathModeBasename {
		file = filepath.Base(file)
	}
	if line == 0 {
		return file
	}
	return fmt.Sprintf("%s:%d:%d", file, line, col)
}

func sourceLine(src []byte, line uint32) (string, bool) {
	if len(src) == 0 || line == 0 {
		return "", false
	}
	lines := bytes.Split(src, []byte{'\n'})
	if int(line) > len(lines) {
		return "", false
	}
	return strings.TrimRight(string(lines[line-1]), "\r"), true
}
