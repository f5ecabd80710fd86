package nomc

import (
	"errors"
	"fmt"
)

// Verify checks that every index in u is in range and that calls match
// their callee arity. It returns all violations joined.
func Verify(u *Unit) error {
	if u == nil {
		return errors.New("nomc: nil unit")
	}
	var errs []error
	if u.Version != FormatVersion {
		errs = append(errs, fmt.Errorf("format version %d", u.Version))
	}
	for i, name := range u.Imports {
		if _, ok := LookupRuntime(name); !ok {
			errs = append(errs, fmt.Errorf("import %d: unknown runtime function %q", i, name))
		}
	}
	names := make(map[string]struct{}, len(u.Symbols))
	for _, s := range u.Symbols {
		if _, dup := names[s.Name]; dup {
			errs = append(errs, fmt.Errorf("symbol %q exported twice", s.Name))
		}
		names[s.Name] = struct{}{}
		if s.Func < 0 || int(s.Func) >= len(u.Funcs) {
			errs = append(errs, fmt.Errorf("symbol %q: function index %d out of range", s.Name, s.Func))
		}
	}
	for i := range u.Funcs {
		if err := verifyFunc(u, &u.Funcs[i]); err != nil {
			errs = append(errs, fmt.Errorf("func %s: %w", u.Funcs[i].Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("nomc: invalid unit %s: %w", u.Module, errors.Join(errs...))
	}
	return nil
}

func verifyFunc(u *Unit, f *Func) error {
	var errs []error
	if f.Params < 0 || f.Slots < f.Params || f.Regs < 0 {
		errs = append(errs, fmt.Errorf("bad frame params=%d slots=%d regs=%d", f.Params, f.Slots, f.Regs))
	}
	reg := func(pc int, what string, r int32) {
		if r < 0 || r >= f.Regs {
			errs = append(errs, fmt.Errorf("pc %d: %s register %d out of range", pc, what, r))
		}
	}
	for pc, in := range f.Code {
		if in.Op >= OpCount {
			errs = append(errs, fmt.Errorf("pc %d: invalid op %d", pc, in.Op))
			continue
		}
		sh := in.Op.shape()
		if sh.dst {
			reg(pc, "dst", in.Dst)
		}
		if sh.a {
			reg(pc, "a", in.A)
		}
		if sh.b {
			reg(pc, "b", in.B)
		}
		switch in.Op {
		case LDL:
			if in.A < 0 || in.A >= f.Slots {
				errs = append(errs, fmt.Errorf("pc %d: slot %d out of range", pc, in.A))
			}
		case STL:
			if in.Dst < 0 || in.Dst >= f.Slots {
				errs = append(errs, fmt.Errorf("pc %d: slot %d out of range", pc, in.Dst))
			}
		case LDS:
			if in.Imm < 0 || in.Imm >= int64(len(u.Rodata)) {
				errs = append(errs, fmt.Errorf("pc %d: rodata %d out of range", pc, in.Imm))
			}
		case JMP, JZ, JNZ:
			if in.Imm < 0 || in.Imm > int64(len(f.Code)) {
				errs = append(errs, fmt.Errorf("pc %d: branch target %d out of range", pc, in.Imm))
			}
		case CALL:
			if in.Imm < 0 || in.Imm >= int64(len(u.Funcs)) {
				errs = append(errs, fmt.Errorf("pc %d: function %d out of range", pc, in.Imm))
				break
			}
			if callee := &u.Funcs[in.Imm]; len(in.Args) != int(callee.Params) {
				errs = append(errs, fmt.Errorf("pc %d: call %s with %d args, want %d", pc, callee.Name, len(in.Args), callee.Params))
			}
		case RTCALL:
			if in.Imm < 0 || in.Imm >= int64(len(u.Imports)) {
				errs = append(errs, fmt.Errorf("pc %d: import %d out of range", pc, in.Imm))
				break
			}
			if rt, ok := LookupRuntime(u.Imports[in.Imm]); ok && !rt.Accepts(len(in.Args)) {
				errs = append(errs, fmt.Errorf("pc %d: %s with %d args", pc, rt.Name, len(in.Args)))
			}
		}
		if in.Op == CALL || in.Op == RTCALL {
			if in.Dst != NoReg {
				reg(pc, "dst", in.Dst)
			}
			for _, a := range in.Args {
				reg(pc, "arg", a)
			}
		}
	}
	return errors.Join(errs...)
}
