package llvm_test

import (
	"strings"
	"testing"

	"github.com/NovaVoxel/NovaLang/internal/backend/llvm"
	"github.com/NovaVoxel/NovaLang/internal/ir"
	"github.com/NovaVoxel/NovaLang/internal/parser"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	f, err := parser.ParseFile("main.nova", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, err := ir.Build(f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	out, err := llvm.Emit(m)
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	return out
}

func TestEmitEntryWrapper(t *testing.T) {
	out := emit(t, `func main() { print("hello") }`)
	for _, want := range []string{
		"define internal i64 @nova.main()",
		"define i32 @main()",
		"call void @nova_rt_init()",
		"declare i64 @nova_print(i64",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestEmitDeduplicatesStrings(t *testing.T) {
	out := emit(t, `func main() { print("dup"); print("dup"); print("other") }`)
	if n := strings.Count(out, `c"dup"`); n != 1 {
		t.Fatalf("dup global emitted %d times:\n%s", n, out)
	}
	if !strings.Contains(out, `c"other"`) {
		t.Fatalf("missing second string:\n%s", out)
	}
}

func TestEmitConditionalFallsThrough(t *testing.T) {
	out := emit(t, `func main() { x = 1; if x { print(1) } }`)
	if !strings.Contains(out, "br i1") {
		t.Fatalf("no conditional branch:\n%s", out)
	}
	if !strings.Contains(out, "%x.addr = alloca i64") {
		t.Fatalf("no variable storage:\n%s", out)
	}
}

func TestEmitNoEntryForLibrary(t *testing.T) {
	out := emit(t, `func helper(a) { return a }`)
	if strings.Contains(out, "define i32 @main()") {
		t.Fatalf("unexpected C entry:\n%s", out)
	}
	if !strings.Contains(out, "define internal i64 @nova.helper(i64 %a)") {
		t.Fatalf("missing helper:\n%s", out)
	}
}

func TestEmitRejectsUseBeforeAssignment(t *testing.T) {
	f, err := parser.ParseFile("main.nova", []byte("func main() { return y }"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := ir.Build(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := llvm.Emit(m); err == nil || !strings.Contains(err.Error(), "before assignment") {
		t.Fatalf("err = %v", err)
	}
}
