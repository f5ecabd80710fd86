package testkit

import (
	"fmt"

	"github.com/NovaVoxel/NovaLang/internal/ir"
)

// CheckInvariants runs ir.Validate and also rejects functions or blocks
// without instructions.
func CheckInvariants(m *ir.Module) error {
	if err := ir.Validate(m); err != nil {
		return err
	}
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			return fmt.Errorf("func %s: no blocks", f.Name)
		}
		for _, b := range f.Blocks {
			if len(b.Instrs) == 0 {
				return fmt.Errorf("func %s: block %s is empty", f.Name, b.Name)
			}
		}
	}
	return nil
}
