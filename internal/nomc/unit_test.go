package nomc

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func sampleUnit() *Unit {
	u := NewUnit("sample")
	u.Rodata = []string{"hello"}
	u.Imports = []string{RtPrint}
	u.Funcs = []Func{
		{Name: "main", Slots: 1, Regs: 2, Code: []Instr{
			{Op: LDS, Dst: 0, A: NoReg, B: NoReg, Imm: 0},
			{Op: RTCALL, Dst: NoReg, A: NoReg, B: NoReg, Imm: 0, Args: []int32{0}},
			{Op: MOVI, Dst: 1, A: NoReg, B: NoReg, Imm: 3},
			{Op: RET, Dst: NoReg, A: 1, B: NoReg},
		}},
	}
	u.Symbols = []Symbol{{Name: "main", Func: 0}}
	return u
}

func TestEncodeDecode(t *testing.T) {
	u := sampleUnit()
	data, err := Encode(u)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("NOMC\x01")) {
		t.Fatalf("header = %q", data[:5])
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(got); err != nil {
		t.Fatal(err)
	}
	if got.Target != HostTarget() || got.Module != "sample" || got.Rodata[0] != "hello" {
		t.Fatalf("decoded = %+v", got)
	}
	code := got.Funcs[0].Code
	if len(code) != 4 || code[1].Op != RTCALL || code[1].Args[0] != 0 || code[2].Imm != 3 || code[3].A != 1 {
		t.Fatalf("code = %+v", code)
	}
	again, err := Encode(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Fatal("re-encoding is not byte-identical")
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := Decode([]byte("ELF\x7f....")); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("bad magic: %v", err)
	}
	var fe *FormatError
	if _, err := Decode([]byte("NOMC\x09")); !errors.As(err, &fe) || fe.Got != 9 {
		t.Fatalf("bad format: %v", err)
	}
	if _, err := Decode([]byte("NOMC\x01\xc1")); err == nil {
		t.Fatal("garbage payload decoded")
	}
}

func TestVerifyFindsBadIndices(t *testing.T) {
	u := sampleUnit()
	u.Imports = append(u.Imports, "nova_teleport")
	u.Symbols = append(u.Symbols, Symbol{Name: "ghost", Func: 7})
	u.Funcs[0].Code = append(u.Funcs[0].Code,
		Instr{Op: LDS, Dst: 0, Imm: 5},
		Instr{Op: JMP, Imm: 99},
		Instr{Op: MOV, Dst: 0, A: 12},
		Instr{Op: CALL, Dst: NoReg, Imm: 0, Args: []int32{1}},
		Instr{Op: RTCALL, Dst: NoReg, Imm: 0},
	)
	err := Verify(u)
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{
		"unknown runtime function \"nova_teleport\"",
		"symbol \"ghost\"",
		"rodata 5 out of range",
		"branch target 99",
		"a register 12",
		"call main with 1 args, want 0",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %q in %v", want, err)
		}
	}
}

func TestRuntimeCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Runtime {
		if seen[r.Name] {
			t.Fatalf("duplicate runtime entry %s", r.Name)
		}
		seen[r.Name] = true
	}
	nc, ok := LookupRuntime(RtNativeCall)
	if !ok || nc.Accepts(0) || !nc.Accepts(1) || !nc.Accepts(4) {
		t.Fatalf("native call arity: %+v", nc)
	}
	set, _ := LookupRuntime(RtListSet)
	if !set.Accepts(3) || set.Accepts(2) {
		t.Fatal("list_set arity")
	}
}

func TestImmediateForms(t *testing.T) {
	for op := ADD; op <= POW; op++ {
		imm, ok := op.Immediate()
		if !ok || imm.String() != op.String()+"i" {
			t.Errorf("%s.Immediate() = %s, %v", op, imm, ok)
		}
	}
	if _, ok := CEQ.Immediate(); ok {
		t.Error("comparisons have no immediate form")
	}
}

func TestDisasm(t *testing.T) {
	var buf bytes.Buffer
	if err := Disasm(&buf, sampleUnit()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`lds r0, "hello"`, "rtcall _, nova_print(r0)", "movi r1, #3", "ret r1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
