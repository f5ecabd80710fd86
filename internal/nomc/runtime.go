package nomc

// RuntimeFunc is an entry of the fixed runtime catalog.
type RuntimeFunc struct {
	Name string
	// Arity is the exact argument count, or -1 for variadic.
	Arity int
}

// Runtime catalog names.
const (
	RtPrint        = "nova_print"
	RtDebug        = "nova_debug"
	RtIterMake     = "nova_iter_make"
	RtIterHasNext  = "nova_iter_has_next"
	RtIterNext     = "nova_iter_next"
	RtIterPairs    = "nova_iter_pairs"
	RtListNew      = "nova_list_new"
	RtListAppend   = "nova_list_append"
	RtListGet      = "nova_list_get"
	RtListSet      = "nova_list_set"
	RtListLen      = "nova_list_len"
	RtMapNew       = "nova_map_new"
	RtMapGet       = "nova_map_get"
	RtMapSet       = "nova_map_set"
	RtMapHas       = "nova_map_has"
	RtMapKeys      = "nova_map_keys"
	RtMapValues    = "nova_map_values"
	RtStrConcat    = "nova_str_concat"
	RtStrLen       = "nova_str_len"
	RtStrGet       = "nova_str_get"
	RtUseModule    = "nova_use_module"
	RtImportModule = "nova_import_module"
	RtImportSymbol = "nova_import_symbol"
	RtNativeCall   = "nova_native_call"
	RtNativeInvoke = "nova_native_invoke"
)

// Runtime is the catalog every conforming loader must link.
var Runtime = []RuntimeFunc{
	{RtPrint, -1},
	{RtDebug, -1},
	{RtIterMake, 1},
	{RtIterHasNext, 1},
	{RtIterNext, 1},
	{RtIterPairs, 1},
	{RtListNew, 0},
	{RtListAppend, 2},
	{RtListGet, 2},
	{RtListSet, 3},
	{RtListLen, 1},
	{RtMapNew, 0},
	{RtMapGet, 2},
	{RtMapSet, 3},
	{RtMapHas, 2},
	{RtMapKeys, 1},
	{RtMapValues, 1},
	{RtStrConcat, 2},
	{RtStrLen, 1},
	{RtStrGet, 2},
	{RtUseModule, 1},
	{RtImportModule, 1},
	{RtImportSymbol, 2},
	{RtNativeCall, -1},
	{RtNativeInvoke, -1},
}

var runtimeIndex = func() map[string]RuntimeFunc {
	m := make(map[string]RuntimeFunc, len(Runtime))
	for _, r := range Runtime {
		m[r.Name] = r
	}
	return m
}()

// LookupRuntime returns the catalog entry called name.
func LookupRuntime(name string) (RuntimeFunc, bool) {
	r, ok := runtimeIndex[name]
	return r, ok
}

// Accepts reports whether n arguments satisfy the entry's arity.
func (r RuntimeFunc) Accepts(n int) bool {
	if r.Arity < 0 {
		// variadic entries still need their leading fixed operand, if any
		return n >= r.minArgs()
	}
	return n == r.Arity
}

func (r RuntimeFunc) minArgs() int {
	switch r.Name {
	case RtNativeCall, RtNativeInvoke:
		return 1
	}
	return 0
}
