package nomc

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Disasm writes a readable listing of u.
func Disasm(w io.Writer, u *Unit) error {
	if _, err := fmt.Fprintf(w, "; unit %s target=%s format=%d\n", u.Module, u.Target, u.Version); err != nil {
		return err
	}
	for i, s := range u.Rodata {
		fmt.Fprintf(w, "; rodata %d = %s\n", i, strconv.Quote(s))
	}
	for i, name := range u.Imports {
		fmt.Fprintf(w, "; import %d = %s\n", i, name)
	}
	for fi := range u.Funcs {
		f := &u.Funcs[fi]
		fmt.Fprintf(w, "\n%s: ; params=%d slots=%d regs=%d\n", f.Name, f.Params, f.Slots, f.Regs)
		for pc := range f.Code {
			fmt.Fprintf(w, "  %04d  %s\n", pc, formatInstr(u, &f.Code[pc]))
		}
	}
	return nil
}

func formatInstr(u *Unit, in *Instr) string {
	r := func(n int32) string { return "r" + strconv.Itoa(int(n)) }
	args := func() string {
		parts := make([]string, len(in.Args))
		for i, a := range in.Args {
			parts[i] = r(a)
		}
		return strings.Join(parts, ", ")
	}
	dst := func() string {
		if in.Dst == NoReg {
			return "_"
		}
		return r(in.Dst)
	}
	switch sh := in.Op.shape(); {
	case in.Op == LDS && in.Imm >= 0 && in.Imm < int64(len(u.Rodata)):
		return fmt.Sprintf("%s %s, %s", in.Op, r(in.Dst), strconv.Quote(u.Rodata[in.Imm]))
	case in.Op == LDL:
		return fmt.Sprintf("%s %s, s%d", in.Op, r(in.Dst), in.A)
	case in.Op == STL:
		return fmt.Sprintf("%s s%d, %s", in.Op, in.Dst, r(in.A))
	case in.Op == CALL && in.Imm >= 0 && in.Imm < int64(len(u.Funcs)):
		return fmt.Sprintf("%s %s, %s(%s)", in.Op, dst(), u.Funcs[in.Imm].Name, args())
	case in.Op == RTCALL && in.Imm >= 0 && in.Imm < int64(len(u.Imports)):
		return fmt.Sprintf("%s %s, %s(%s)", in.Op, dst(), u.Imports[in.Imm], args())
	case in.Op.IsBranch() && in.Op != JMP:
		return fmt.Sprintf("%s %s, @%d", in.Op, r(in.A), in.Imm)
	case in.Op == JMP:
		return fmt.Sprintf("%s @%d", in.Op, in.Imm)
	case sh.dst && sh.a && sh.b:
		return fmt.Sprintf("%s %s, %s, %s", in.Op, r(in.Dst), r(in.A), r(in.B))
	case sh.dst && sh.a && in.Op >= ADDI && in.Op <= POWI:
		return fmt.Sprintf("%s %s, %s, #%d", in.Op, r(in.Dst), r(in.A), in.Imm)
	case sh.dst && sh.a:
		return fmt.Sprintf("%s %s, %s", in.Op, r(in.Dst), r(in.A))
	case sh.dst:
		return fmt.Sprintf("%s %s, #%d", in.Op, r(in.Dst), in.Imm)
	case sh.a:
		return fmt.Sprintf("%s %s", in.Op, r(in.A))
	}
	return in.Op.String()
}
