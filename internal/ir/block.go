package ir

// Block is a named straight-line instruction sequence.
type Block struct {
	Name   string
	Instrs []Instr
}

// Terminated reports whether the last instruction is a terminator.
func (b *Block) Terminated() bool {
	if b == nil || len(b.Instrs) == 0 {
		return false
	}
	return b.Instrs[len(b.Instrs)-1].Op.IsTerminator()
}

// Term returns the terminator instruction, or nil.
func (b *Block) Term() *Instr {
	if !b.Terminated() {
		return nil
	}
	return &b.Instrs[len(b.Instrs)-1]
}
