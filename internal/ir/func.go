package ir

import "fmt"

// EntryBlock is the name of every function's first block.
const EntryBlock = "entry"

type Func struct {
	Name   string
	Params []string
	Blocks []*Block

	temps  int
	labels int
}

// NumTemps is the number of temporaries allocated in f.
func (f *Func) NumTemps() int { return f.temps }

// Block returns the block called name, or nil.
func (f *Func) Block(name string) *Block {
	for _, b := range f.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// BlockIndex returns the layout index of name, or -1.
func (f *Func) BlockIndex(name string) int {
	for i, b := range f.Blocks {
		if b.Name == name {
			return i
		}
	}
	return -1
}

func (f *Func) newTemp() Temp {
	t := Temp{ID: f.temps, Name: fmt.Sprintf("t%d", f.temps)}
	f.temps++
	return t
}

// nextLabel draws a fresh suffix for one construct's block names.
func (f *Func) nextLabel() int {
	n := f.labels
	f.labels++
	return n
}
