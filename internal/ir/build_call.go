package ir

import (
	"github.com/NovaVoxel/NovaLang/internal/ast"
)

// NovaNamespace is the receiver of runtime globals such as nova.sys_args.
const NovaNamespace = "nova"

// NativeBuiltin is the escape hatch __native__("std/math.sqrt", args...).
const NativeBuiltin = "__native__"

type builtin struct {
	op    OpCode
	arity int // -1: variadic, collected into one argument list
}

// builtins maps call names lowered to dedicated opcodes. They take
// precedence over functions of the same name.
var builtins = map[string]builtin{
	"print":  {OpPrint, -1},
	"debug":  {OpDebug, -1},
	"len":    {OpListLen, 1},
	"append": {OpListAppend, 2},
	"keys":   {OpMapKeys, 1},
	"values": {OpMapValues, 1},
	"has":    {OpMapHasKey, 2},
	"concat": {OpStrConcat, 2},
	"strlen": {OpStrLen, 1},
	"charat": {OpStrGet, 2},
	"import": {OpImportModule, 1},
}

// IsBuiltin reports whether name is lowered to a dedicated opcode.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok || name == NativeBuiltin
}

func (fb *funcBuilder) lowerArgs(args []ast.Expr) ([]Value, error) {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		v, err := fb.lowerExpr(a)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (fb *funcBuilder) lowerCall(c *ast.Call) (Value, error) {
	switch fn := c.Fn.(type) {
	case *ast.Ident:
		if fn.Name == NativeBuiltin {
			return fb.lowerNativeBuiltin(c)
		}
		if b, ok := builtins[fn.Name]; ok {
			return fb.lowerBuiltin(c, fn.Name, b)
		}
		args, err := fb.lowerArgs(c.Args)
		if err != nil {
			return Value{}, err
		}
		return fb.emitValue(c.At, OpCall, NameVal(fn.Name), ArgsVal(args...)), nil
	case *ast.Attr:
		if path, ok := fb.staticPath(fn.X); ok {
			args, err := fb.lowerArgs(c.Args)
			if err != nil {
				return Value{}, err
			}
			return fb.emitValue(c.At, OpNativeCall, ModuleVal(JoinPath(path, fn.Name)), ArgsVal(args...)), nil
		}
	}
	// dynamic callee: a host handle produced at run time
	callee, err := fb.lowerExpr(c.Fn)
	if err != nil {
		return Value{}, err
	}
	args, err := fb.lowerArgs(c.Args)
	if err != nil {
		return Value{}, err
	}
	return fb.emitValue(c.At, OpNativeCall, callee, ArgsVal(args...)), nil
}

func (fb *funcBuilder) lowerBuiltin(c *ast.Call, name string, b builtin) (Value, error) {
	if b.arity >= 0 && len(c.Args) != b.arity {
		return Value{}, errAt(c.At, "%s expects %d argument(s), got %d", name, b.arity, len(c.Args))
	}
	if b.op == OpImportModule {
		if lit, ok := c.Args[0].(*ast.StringLit); ok {
			return fb.emitValue(c.At, OpImportModule, ModuleVal(lit.Value)), nil
		}
	}
	args, err := fb.lowerArgs(c.Args)
	if err != nil {
		return Value{}, err
	}
	if b.arity < 0 {
		return fb.emitValue(c.At, b.op, ArgsVal(args...)), nil
	}
	return fb.emitValue(c.At, b.op, args...), nil
}

// lowerNativeBuiltin requires a literal path as the first argument.
func (fb *funcBuilder) lowerNativeBuiltin(c *ast.Call) (Value, error) {
	if len(c.Args) == 0 {
		return Value{}, errAt(c.At, "%s requires a path argument", NativeBuiltin)
	}
	lit, ok := c.Args[0].(*ast.StringLit)
	if !ok || lit.Value == "" {
		return Value{}, errAt(c.At, "%s path must be a non-empty string literal", NativeBuiltin)
	}
	args, err := fb.lowerArgs(c.Args[1:])
	if err != nil {
		return Value{}, err
	}
	return fb.emitValue(c.At, OpNativeCall, ModuleVal(lit.Value), ArgsVal(args...)), nil
}

// JoinPath appends an attribute to a module path: std/math + sqrt is
// std/math.sqrt.
func JoinPath(module, attr string) string {
	return module + "." + attr
}
