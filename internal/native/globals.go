package native

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Globals is the per-launch state visible as nova.* paths. It is built once
// and never mutated afterwards.
type Globals struct {
	Args  []string
	Input func() (string, error)
}

// NewGlobals captures args and wraps stdin in a single buffered reader so
// consecutive sys_input calls see consecutive lines.
func NewGlobals(args []string, stdin io.Reader) *Globals {
	g := &Globals{Args: append([]string(nil), args...)}
	if stdin == nil {
		g.Input = func() (string, error) { return "", io.EOF }
		return g
	}
	r := bufio.NewReader(stdin)
	g.Input = func() (string, error) {
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	return g
}

func (g *Globals) lookup(key string) (any, bool) {
	switch key {
	case "sys_args":
		out := make([]any, len(g.Args))
		for i, a := range g.Args {
			out[i] = a
		}
		return out, true
	case "sys_input":
		return Func(func(env *Env, args []any) (any, error) {
			if len(args) > 1 {
				return nil, argErr("sys_input takes at most one prompt")
			}
			if len(args) == 1 && env.Stdout != nil {
				if _, err := io.WriteString(env.Stdout, Str(args[0])); err != nil {
					return nil, err
				}
			}
			return g.Input()
		}), true
	}
	return nil, false
}
