package ir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants and returns every violation joined.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	seen := make(map[string]struct{}, len(m.Funcs))
	for _, f := range m.Funcs {
		if f == nil {
			errs = append(errs, errors.New("nil function"))
			continue
		}
		if _, dup := seen[f.Name]; dup {
			errs = append(errs, fmt.Errorf("function %s: declared twice", f.Name))
		}
		seen[f.Name] = struct{}{}
		if err := validateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(f *Func) error {
	if len(f.Blocks) == 0 {
		return errors.New("no blocks")
	}
	var errs []error
	if f.Blocks[0].Name != EntryBlock {
		errs = append(errs, fmt.Errorf("first block is %q, want %q", f.Blocks[0].Name, EntryBlock))
	}
	if err := validateBlockNames(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateTerminators(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateTemps(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateOperands(f); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateBlockNames(f *Func) error {
	var errs []error
	names := make(map[string]struct{}, len(f.Blocks))
	for _, b := range f.Blocks {
		if b.Name == "" {
			errs = append(errs, errors.New("unnamed block"))
			continue
		}
		if _, dup := names[b.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate block name %s", b.Name))
		}
		names[b.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

// validateTerminators checks one terminator per block, in last position,
// existing targets and a fallthrough successor for conditional jumps.
func validateTerminators(f *Func) error {
	var errs []error
	for i, b := range f.Blocks {
		if !b.Terminated() {
			errs = append(errs, fmt.Errorf("%s: unterminated block", b.Name))
		}
		for j := range b.Instrs {
			in := &b.Instrs[j]
			if in.Op.IsTerminator() && j != len(b.Instrs)-1 {
				errs = append(errs, fmt.Errorf("%s: terminator %s at %d is not last", b.Name, in.Op, j))
			}
			if target := in.Target(); in.Op == OpJump || in.Op.IsConditional() {
				if f.Block(target) == nil {
					errs = append(errs, fmt.Errorf("%s: %s target %q does not exist", b.Name, in.Op, target))
				}
			}
			if in.Op.IsConditional() && i == len(f.Blocks)-1 {
				errs = append(errs, fmt.Errorf("%s: %s in last block has no fallthrough", b.Name, in.Op))
			}
		}
	}
	return errors.Join(errs...)
}

// validateTemps checks single assignment and that uses refer to defined temps.
func validateTemps(f *Func) error {
	var errs []error
	defined := make(map[int]string, f.temps)
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if in.Result == nil {
				continue
			}
			if prev, dup := defined[in.Result.ID]; dup {
				errs = append(errs, fmt.Errorf("%s: %s defined again (first in %s)", b.Name, in.Result, prev))
			}
			defined[in.Result.ID] = b.Name
		}
	}
	var checkUse func(block string, v Value)
	checkUse = func(block string, v Value) {
		switch v.Kind {
		case ValTemp:
			if _, ok := defined[v.Temp.ID]; !ok {
				errs = append(errs, fmt.Errorf("%s: use of undefined %s", block, v.Temp))
			}
		case ValArgs:
			for _, a := range v.Args {
				checkUse(block, a)
			}
		}
	}
	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			for _, v := range in.Operands {
				checkUse(b.Name, v)
			}
		}
	}
	return errors.Join(errs...)
}

func validateOperands(f *Func) error {
	var errs []error
	for _, b := range f.Blocks {
		for j, in := range b.Instrs {
			if in.Op >= OpCount {
				errs = append(errs, fmt.Errorf("%s[%d]: invalid opcode %d", b.Name, j, in.Op))
				continue
			}
			lo, hi := in.Op.Arity()
			if n := len(in.Operands); n < lo || (hi >= 0 && n > hi) {
				errs = append(errs, fmt.Errorf("%s[%d]: %s has %d operands", b.Name, j, in.Op, n))
			}
			if has := in.Result != nil; has != in.Op.HasResult() {
				errs = append(errs, fmt.Errorf("%s[%d]: %s result mismatch", b.Name, j, in.Op))
			}
		}
	}
	return errors.Join(errs...)
}
