package vm_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	bridge "github.com/NovaVoxel/NovaLang/internal/native"
	"github.com/NovaVoxel/NovaLang/internal/nomc"
	"github.com/NovaVoxel/NovaLang/internal/testkit"
	"github.com/NovaVoxel/NovaLang/internal/vm"
)

type result struct {
	val    vm.Value
	err    error
	stdout string
	stderr string
}

func compile(t *testing.T, src string) []byte {
	t.Helper()
	return testkit.UnitBytes(t, "main", src)
}

func run(t *testing.T, src string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	g := bridge.NewGlobals(args, strings.NewReader(""))
	env := &vm.Env{
		Bridge: bridge.New(g, bridge.Options{Stdout: &out, Rand: rand.New(rand.NewPCG(7, 7))}),
		Stdout: &out,
		Stderr: &errOut,
	}
	img, err := vm.Load(compile(t, src), env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v, err := img.Call(context.Background(), nomc.EntrySymbol)
	return result{val: v, err: err, stdout: out.String(), stderr: errOut.String()}
}

func expectInt(t *testing.T, r result, want int64) {
	t.Helper()
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}
	if r.val.Kind != vm.VKInt || r.val.Int != want {
		t.Fatalf("result = %s (%s), want %d", r.val.Repr(), r.val.Kind, want)
	}
}

func TestForEachCountsElements(t *testing.T) {
	r := run(t, `
func main() {
    count = 0
    for x in [10, 20, 30] {
        count = count + 1
    }
    return count
}`)
	expectInt(t, r, 3)
}

func TestRecursionAndCalls(t *testing.T) {
	r := run(t, `
func fib(n) {
    if n < 2 { return n }
    return fib(n - 1) + fib(n - 2)
}
func main() { return fib(15) }`)
	expectInt(t, r, 610)
}

func TestWhileLoop(t *testing.T) {
	r := run(t, `
func main() {
    i = 0
    total = 0
    while i < 10 {
        total = total + i
        i = i + 1
    }
    return total
}`)
	expectInt(t, r, 45)
}

func TestPrintFormatting(t *testing.T) {
	r := run(t, `
func main() {
    m = {"a": 1}
    print("x", 1, 2.5, true, [1, "s"], m)
    debug("d")
}`)
	if r.err != nil {
		t.Fatal(r.err)
	}
	if r.stdout != "x 1 2.5 True [1, 's'] {'a': 1}\n" {
		t.Fatalf("stdout = %q", r.stdout)
	}
	if r.stderr != "[debug] 'd'\n" {
		t.Fatalf("stderr = %q", r.stderr)
	}
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"7 / 2", "3"},
		{"-7 % 3", "-1"},
		{"2 ** 10", "1024"},
		{"2 ** -1", "0.5"},
		{"1 + 2.5", "3.5"},
		{`"ab" + "cd"`, "abcd"},
		{`"ab" * 2`, "abab"},
		{"1 < 2", "True"},
		{"not 0", "True"},
		{`"a" == "a"`, "True"},
		{"[1, 2] == [1, 2]", "True"},
		{"9223372036854775807 + 1", "-9223372036854775808"},
	}
	for _, tc := range cases {
		r := run(t, "func main() { print("+tc.expr+") }")
		if r.err != nil {
			t.Fatalf("%s: %v", tc.expr, r.err)
		}
		if got := strings.TrimSuffix(r.stdout, "\n"); got != tc.want {
			t.Fatalf("%s = %s, want %s", tc.expr, got, tc.want)
		}
	}
}

func TestTraps(t *testing.T) {
	cases := []struct {
		name string
		src  string
		code vm.TrapCode
	}{
		{"div zero", "func main() { x = 0; return 1 / x }", vm.TrapDivideByZero},
		{"type", `func main() { return 1 + "a" }`, vm.TrapTypeMismatch},
		{"index", "func main() { xs = [1]; return xs[5] }", vm.TrapOutOfBounds},
		{"key", `func main() { m = {"a": 1}; return m["b"] }`, vm.TrapMissingKey},
		{"depth", "func f(n) { return f(n + 1) }\nfunc main() { return f(0) }", vm.TrapStackOverflow},
		{"unset", "func main() { if false { y = 1 } return y }", vm.TrapUnset},
		{"repeat", `func main() { return "ab" * 9000000000 }`, vm.TrapTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := run(t, tc.src)
			var trap *vm.Trap
			if !errors.As(r.err, &trap) {
				t.Fatalf("expected trap, got %v", r.err)
			}
			if trap.Code != tc.code {
				t.Fatalf("code = %s, want %s (%v)", trap.Code, tc.code, trap)
			}
			if trap.Func == "" {
				t.Fatalf("trap has no location: %v", trap)
			}
		})
	}
}

func TestMapsAndIndexing(t *testing.T) {
	r := run(t, `
func main() {
    m = {"a": 1, "b": 2}
    m["c"] = 3
    total = 0
    for k, v in m {
        total = total + v
    }
    xs = [1, 2, 3]
    xs[0] = 10
    return total + xs[0] + xs[-1] + len(keys(m))
}`)
	expectInt(t, r, 6+10+3+3)
}

func TestForPairsOverListAndString(t *testing.T) {
	r := run(t, `
func main() {
    s = 0
    for i, v in [10, 20, 30] {
        s = s + i * 100 + v
    }
    for i, c in "ab" {
        print(i, c)
    }
    return s
}`)
	expectInt(t, r, 300+60)
	if r.stdout != "0 a\n1 b\n" {
		t.Fatalf("stdout = %q", r.stdout)
	}
}

func TestVariableStoredLaterInLayout(t *testing.T) {
	r := run(t, `
func main() {
    first = 1
    total = 0
    for x in [1, 2, 3] {
        if first == 0 { total = total + prev }
        prev = x
        first = 0
    }
    return total
}`)
	expectInt(t, r, 1+2)
}

func TestNativeCalls(t *testing.T) {
	r := run(t, `
use std/math as m
func main() {
    print(m.sqrt(16))
    print(nova.sys_args())
    print(m.nope(1))
    return m.floor(2.9)
}`, "one", "two")
	expectInt(t, r, 2)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	if len(lines) != 3 || lines[0] != "4.0" || lines[1] != "['one', 'two']" {
		t.Fatalf("stdout = %q", r.stdout)
	}
	if !strings.HasPrefix(lines[2], "error: native std/math.nope") {
		t.Fatalf("error value = %q", lines[2])
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		v    vm.Value
		want int
	}{
		{vm.IntValue(3), 3},
		{vm.BoolValue(true), 1},
		{vm.NilValue(), 0},
		{vm.FloatValue(2.9), 2},
		{vm.StrValue("x"), 0},
	}
	for _, tc := range cases {
		if got := vm.ExitCode(tc.v); got != tc.want {
			t.Fatalf("ExitCode(%s) = %d, want %d", tc.v.Repr(), got, tc.want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := vm.Load([]byte("garbage"), nil); err == nil {
		t.Fatalf("expected decode error")
	} else {
		var le *vm.LoadError
		if !errors.As(err, &le) || le.Stage != "decode" {
			t.Fatalf("err = %v", err)
		}
	}

	u := nomc.NewUnit("m")
	u.Imports = []string{"nova_missing"}
	u.Funcs = []nomc.Func{{Name: "main", Code: []nomc.Instr{{Op: nomc.RETZ, Dst: nomc.NoReg, A: nomc.NoReg, B: nomc.NoReg}}}}
	u.Symbols = []nomc.Symbol{{Name: "main", Func: 0}}
	if _, err := vm.LoadUnit(u, nil); err == nil {
		t.Fatalf("expected link error for unknown import")
	}
}

func TestLoadRejectsForeignTarget(t *testing.T) {
	u, err := nomc.Decode(compile(t, "func main() { return 1 }"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	u.Target = "plan9/mips"
	_, err = vm.LoadUnit(u, nil)
	var le *vm.LoadError
	if !errors.As(err, &le) || le.Stage != "verify" || !errors.Is(err, vm.ErrWrongTarget) {
		t.Fatalf("err = %v, want verify-stage ErrWrongTarget", err)
	}

	data, err := nomc.Encode(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := vm.Load(data, nil); !errors.Is(err, vm.ErrWrongTarget) {
		t.Fatalf("Load err = %v", err)
	}
}

func TestCallUnknownSymbol(t *testing.T) {
	img, err := vm.Load(compile(t, "func main() { }"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := img.Call(context.Background(), "nope"); !errors.Is(err, vm.ErrNoEntry) {
		t.Fatalf("err = %v", err)
	}
}

func TestEveryRuntimeFunctionProvided(t *testing.T) {
	for _, rt := range nomc.Runtime {
		if !vm.Provides(rt.Name) {
			t.Errorf("runtime function %s has no implementation", rt.Name)
		}
	}
}

func TestStringsCountCharacters(t *testing.T) {
	r := run(t, "func main() { s = \"éa\"; return strlen(s) }")
	expectInt(t, r, 2)
}
