package parser

import (
	"fmt"
	"strings"

	"github.com/NovaVoxel/NovaLang/internal/ast"
)

// render prints an expression fully parenthesised for precedence checks.
func render(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.IntLit:
		return fmt.Sprint(x.Value)
	case *ast.FloatLit:
		return fmt.Sprint(x.Value)
	case *ast.StringLit:
		return fmt.Sprintf("%q", x.Value)
	case *ast.BoolLit:
		return fmt.Sprint(x.Value)
	case *ast.Ident:
		return x.Name
	case *ast.Binary:
		return "(" + render(x.Left) + " " + x.Op.String() + " " + render(x.Right) + ")"
	case *ast.Unary:
		if x.Op == ast.OpNeg {
			return "(-" + render(x.X) + ")"
		}
		return "(not " + render(x.X) + ")"
	case *ast.Call:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = render(a)
		}
		return render(x.Fn) + "(" + strings.Join(args, ", ") + ")"
	case *ast.Attr:
		return render(x.X) + "." + x.Name
	case *ast.Index:
		return render(x.X) + "[" + render(x.Index) + "]"
	}
	return "?"
}
