package native_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/backend/native"
	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/parser"
)

func buildIR(t *testing.T, src string) *ir.Module {
	t.Helper()
	f, err := parser.ParseFile("main.nova", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, err := ir.Build(f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func lower(t *testing.T, src string) *nomc.Unit {
	t.Helper()
	u, err := native.Lower(buildIR(t, src), native.Options{})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	return u
}

func codegenError(t *testing.T, err error) *native.CodegenError {
	t.Helper()
	var ce *native.CodegenError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CodegenError, got %v", err)
	}
	return ce
}

func TestIdenticalStringsShareRodata(t *testing.T) {
	u := lower(t, `func main() { print("hi"); print("hi") }`)
	n := 0
	for _, s := range u.Rodata {
		if s == "hi" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("rodata = %q", u.Rodata)
	}
}

func TestImportsDeduplicated(t *testing.T) {
	u := lower(t, `func main() { print(1); print(2); debug(3) }`)
	want := []string{nomc.RtPrint, nomc.RtDebug}
	if strings.Join(u.Imports, ",") != strings.Join(want, ",") {
		t.Fatalf("imports = %v", u.Imports)
	}
}

func TestSymbolsFollowModuleOrder(t *testing.T) {
	u := lower(t, "func helper() { return 1 }\nfunc main() { return helper() }")
	if len(u.Symbols) != 2 || u.Symbols[0].Name != "helper" || u.Symbols[1].Name != "main" {
		t.Fatalf("symbols = %+v", u.Symbols)
	}
	idx, ok := u.Entry()
	if !ok || idx != 1 {
		t.Fatalf("entry = %d, %v", idx, ok)
	}
}

func TestEveryOpcodeHandledOrRejected(t *testing.T) {
	for op := ir.OpCode(0); op < ir.OpCount; op++ {
		f := &ir.Func{Name: "main", Blocks: []*ir.Block{{Name: ir.EntryBlock, Instrs: []ir.Instr{
			{Op: op},
			{Op: ir.OpReturn},
		}}}}
		m := &ir.Module{Name: "m", Funcs: []*ir.Func{f}}
		// malformed operands must surface as errors, never as a panic
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("%s: panic %v", op, r)
				}
			}()
			_, err := native.Lower(m, native.Options{})
			if err != nil {
				codegenError(t, err)
			}
		}()
	}
}

func TestConditionalFallsThrough(t *testing.T) {
	u := lower(t, `func main() { x = 1; if x > 0 { print("pos") } else { print("neg") } }`)
	main := u.Funcs[0]
	var jz *nomc.Instr
	for i := range main.Code {
		if main.Code[i].Op == nomc.JZ {
			jz = &main.Code[i]
			break
		}
	}
	if jz == nil {
		t.Fatalf("no jz emitted")
	}
	if jz.Imm <= 0 || int(jz.Imm) >= len(main.Code) {
		t.Fatalf("jz target %d out of range", jz.Imm)
	}
}

func TestImmediateArithmetic(t *testing.T) {
	u := lower(t, `func main() { x = 2; y = x + 3; return y }`)
	found := false
	for _, in := range u.Funcs[0].Code {
		if in.Op == nomc.ADDI && in.Imm == 3 {
			found = true
		}
		if in.Op == nomc.ADD {
			t.Fatalf("register add emitted for constant operand")
		}
	}
	if !found {
		var sb strings.Builder
		_ = nomc.Disasm(&sb, u)
		t.Fatalf("addi not emitted:\n%s", sb.String())
	}
}

func TestUnterminatedBlockGetsRetz(t *testing.T) {
	f := &ir.Func{Name: "main", Blocks: []*ir.Block{{Name: ir.EntryBlock, Instrs: []ir.Instr{
		{Op: ir.OpNop},
	}}}}
	u, err := native.Lower(&ir.Module{Name: "m", Funcs: []*ir.Func{f}}, native.Options{})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	code := u.Funcs[0].Code
	if len(code) != 1 || code[0].Op != nomc.RETZ {
		t.Fatalf("code = %+v", code)
	}
}

func TestReturnZeroIsRetz(t *testing.T) {
	u := lower(t, `func main() { return 0 }`)
	code := u.Funcs[0].Code
	if len(code) != 1 || code[0].Op != nomc.RETZ {
		t.Fatalf("code = %+v", code)
	}
}

func TestNativeCallPassesPath(t *testing.T) {
	u := lower(t, "use std/math as m\nfunc main() { return m.sqrt(16) }")
	found := false
	for _, s := range u.Rodata {
		if s == "std/math.sqrt" {
			found = true
		}
	}
	if !found {
		t.Fatalf("rodata = %q", u.Rodata)
	}
	if _, ok := indexOf(u.Imports, nomc.RtNativeCall); !ok {
		t.Fatalf("imports = %v", u.Imports)
	}
}

func indexOf(xs []string, s string) (int, bool) {
	for i, x := range xs {
		if x == s {
			return i, true
		}
	}
	return -1, false
}

func TestSlotsCoverStoresLaidOutAfterLoads(t *testing.T) {
	u := lower(t, `func f(a) {
    first = 1
    total = 0
    for x in [1, 2, 3] {
        if first == 0 { total = total + prev }
        prev = x
        first = 0
    }
    return total + a
}
func main() { return f(0) }`)
	f := u.Funcs[0]
	// a, first, total, x, prev
	if f.Name != "f" || f.Slots != 5 || f.Params != 1 {
		t.Fatalf("func %s: params=%d slots=%d", f.Name, f.Params, f.Slots)
	}
	for _, in := range f.Code {
		if in.Op == nomc.LDL && (in.A < 0 || in.A >= f.Slots) {
			t.Fatalf("load from slot %d outside 0..%d", in.A, f.Slots-1)
		}
	}
}

func TestPairIteratorUsesPairsRuntime(t *testing.T) {
	u := lower(t, "func main() { for i, x in [4] { print(i, x) } }")
	if _, ok := indexOf(u.Imports, nomc.RtIterPairs); !ok {
		t.Fatalf("imports = %v", u.Imports)
	}
	if _, ok := indexOf(u.Imports, nomc.RtIterMake); ok {
		t.Fatalf("plain iterator imported for a pair loop: %v", u.Imports)
	}
}

func TestLowerErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts native.Options
		want string
	}{
		{"no main", "func helper() { }", native.Options{}, "no main"},
		{"main with params", "func main(a) { }", native.Options{}, "must not take parameters"},
		{"use before assign", "func main() { return x }", native.Options{}, "used before assignment"},
		{"unknown callee", "func main() { return nope(1) }", native.Options{}, "undefined function"},
		{"arity", "func f(a) { return a }\nfunc main() { return f(1, 2) }", native.Options{}, "expects 1 arguments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := native.Lower(buildIR(t, tc.src), tc.opts)
			ce := codegenError(t, err)
			if !strings.Contains(ce.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", ce.Error(), tc.want)
			}
		})
	}
}

func TestAllowNoEntry(t *testing.T) {
	u, err := native.Lower(buildIR(t, "func helper() { return 1 }"), native.Options{AllowNoEntry: true})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if _, ok := u.Entry(); ok {
		t.Fatalf("unexpected entry")
	}
}

func TestLoweredUnitRoundTrips(t *testing.T) {
	u := lower(t, `func main() { xs = [1, 2]; for x in xs { print(x) } }`)
	data, err := nomc.Encode(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := nomc.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := nomc.Verify(back); err != nil {
		t.Fatalf("verify: %v", err)
	}
}
