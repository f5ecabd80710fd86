package llvm

import (
	"github.com/llir/llvm/ir/types"

	"github.com/NovaVoxel/NovaLang/internal/nomc"
)

type builtinDecl struct {
	name   string
	ret    types.Type
	params []types.Type
}

// Boxing and operator helpers. Every Nova value crosses these as an i64
// handle owned by the runtime.
const (
	rtInt      = "nova_rt_int"
	rtFloat    = "nova_rt_float"
	rtBool     = "nova_rt_bool"
	rtStr      = "nova_rt_str"
	rtTruthy   = "nova_rt_truthy"
	rtExitCode = "nova_rt_exit_code"
	rtInit     = "nova_rt_init"
)

var binaryHelpers = []string{
	"nova_rt_add", "nova_rt_sub", "nova_rt_mul", "nova_rt_div", "nova_rt_mod", "nova_rt_pow",
	"nova_rt_eq", "nova_rt_ne", "nova_rt_lt", "nova_rt_le", "nova_rt_gt", "nova_rt_ge",
	"nova_rt_and", "nova_rt_or",
}

var unaryHelpers = []string{"nova_rt_neg", "nova_rt_not"}

func runtimeDecls() []builtinDecl {
	h := types.I64
	decls := []builtinDecl{
		{name: rtInit, ret: types.Void},
		{name: rtInt, ret: h, params: []types.Type{types.I64}},
		{name: rtFloat, ret: h, params: []types.Type{types.Double}},
		{name: rtBool, ret: h, params: []types.Type{types.I1}},
		{name: rtStr, ret: h, params: []types.Type{types.I8Ptr, types.I64}},
		{name: rtTruthy, ret: types.I1, params: []types.Type{h}},
		{name: rtExitCode, ret: types.I32, params: []types.Type{h}},
	}
	for _, name := range binaryHelpers {
		decls = append(decls, builtinDecl{name: name, ret: h, params: []types.Type{h, h}})
	}
	for _, name := range unaryHelpers {
		decls = append(decls, builtinDecl{name: name, ret: h, params: []types.Type{h}})
	}
	// variadic catalog entries receive their arguments packed in a list
	for _, rt := range nomc.Runtime {
		n := rt.Arity
		if n < 0 {
			n = 1
		}
		params := make([]types.Type, n)
		for i := range params {
			params[i] = h
		}
		decls = append(decls, builtinDecl{name: rt.Name, ret: h, params: params})
	}
	return decls
}
