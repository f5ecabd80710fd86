package nomc

import (
	"runtime"
)

const (
	// Magic opens every encoded unit.
	Magic = "NOMC"
	// FormatVersion is bumped on incompatible payload changes.
	FormatVersion uint8 = 1
	// EntrySymbol is the symbol a launcher calls.
	EntrySymbol = "main"
	// Ext is the file extension of encoded units.
	Ext = ".nomc"
)

// HostTarget is the GOOS/GOARCH pair of the running toolchain.
func HostTarget() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Unit is one compiled module.
type Unit struct {
	Magic   string   `msgpack:"magic"`
	Version uint8    `msgpack:"version"`
	Target  string   `msgpack:"target"`
	Module  string   `msgpack:"module"`
	Rodata  []string `msgpack:"rodata"`
	Imports []string `msgpack:"imports"`
	Symbols []Symbol `msgpack:"symbols"`
	Funcs   []Func   `msgpack:"funcs"`
}

// Symbol exports a function by name.
type Symbol struct {
	Name string `msgpack:"name"`
	Func int32  `msgpack:"func"`
}

// Func is a function body. Slots 0..Params-1 hold the arguments.
type Func struct {
	Name   string  `msgpack:"name"`
	Params int32   `msgpack:"params"`
	Slots  int32   `msgpack:"slots"`
	Regs   int32   `msgpack:"regs"`
	Code   []Instr `msgpack:"code"`
}

// NoReg marks an unused register operand; as Dst it discards the result.
const NoReg int32 = -1

// Instr is one machine instruction.
type Instr struct {
	_msgpack struct{} `msgpack:",as_array"`

	Op   Op      `msgpack:"op"`
	Dst  int32   `msgpack:"dst"`
	A    int32   `msgpack:"a"`
	B    int32   `msgpack:"b"`
	Imm  int64   `msgpack:"imm"`
	Args []int32 `msgpack:"args"`
}

// NewUnit returns an empty unit for module stamped with the host target.
func NewUnit(module string) *Unit {
	return &Unit{
		Magic:   Magic,
		Version: FormatVersion,
		Target:  HostTarget(),
		Module:  module,
	}
}

// Lookup returns the function index exported as name.
func (u *Unit) Lookup(name string) (int32, bool) {
	for _, s := range u.Symbols {
		if s.Name == name {
			return s.Func, true
		}
	}
	return 0, false
}

// Entry returns the entry function index.
func (u *Unit) Entry() (int32, bool) {
	return u.Lookup(EntrySymbol)
}
