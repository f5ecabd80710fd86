package ir

import (
	"strconv"
	"strings"
)

// ConstKind is the type tag of a constant.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
	ConstBool
)

// Const is a literal value.
type Const struct {
	Kind  ConstKind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (c Const) String() string {
	switch c.Kind {
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstFloat:
		s := strconv.FormatFloat(c.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnI") {
			s += ".0"
		}
		return s
	case ConstString:
		return strconv.Quote(c.Str)
	case ConstBool:
		return strconv.FormatBool(c.Bool)
	}
	return "?"
}

// Temp is a single-assignment temporary local to one function.
type Temp struct {
	ID   int
	Name string
}

func (t Temp) String() string { return "%" + t.Name }

// ValueKind tags an operand.
type ValueKind uint8

const (
	ValConst ValueKind = iota
	ValTemp
	// ValName is a variable or function name.
	ValName
	// ValLabel is a block name.
	ValLabel
	// ValModule is a module or native path such as std/math.sqrt.
	ValModule
	// ValArgs is an ordered argument list.
	ValArgs
)

// Value is an instruction operand.
type Value struct {
	Kind  ValueKind
	Const Const
	Temp  Temp
	Name  string
	Args  []Value
}

func IntConst(v int64) Value { return Value{Kind: ValConst, Const: Const{Kind: ConstInt, Int: v}} }
func FloatConst(v float64) Value {
	return Value{Kind: ValConst, Const: Const{Kind: ConstFloat, Float: v}}
}
func StrConst(v string) Value    { return Value{Kind: ValConst, Const: Const{Kind: ConstString, Str: v}} }
func BoolConst(v bool) Value     { return Value{Kind: ValConst, Const: Const{Kind: ConstBool, Bool: v}} }
func TempVal(t Temp) Value       { return Value{Kind: ValTemp, Temp: t} }
func NameVal(name string) Value  { return Value{Kind: ValName, Name: name} }
func LabelVal(name string) Value { return Value{Kind: ValLabel, Name: name} }
func ModuleVal(path string) Value {
	return Value{Kind: ValModule, Name: path}
}
func ArgsVal(args ...Value) Value { return Value{Kind: ValArgs, Args: args} }

func (v Value) String() string {
	switch v.Kind {
	case ValConst:
		return v.Const.String()
	case ValTemp:
		return v.Temp.String()
	case ValName, ValLabel:
		return v.Name
	case ValModule:
		return "@" + v.Name
	case ValArgs:
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			parts[i] = a.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "?"
}
