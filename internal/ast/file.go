package ast

import "github.com/NovaVoxel/NovaLang/internal/token"

// File is a parsed source file. Items holds *FuncDecl and *UseStmt in
// source order.
type File struct {
	Name  string
	Items []Item
}

// Item is a top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Node is implemented by every syntax node.
type Node interface {
	Pos() token.Pos
}

// FuncDecl is `func name(params) { body }`.
type FuncDecl struct {
	At     token.Pos
	Name   string
	Params []string
	Body   *Block
}

func (d *FuncDecl) Pos() token.Pos { return d.At }
func (*FuncDecl) itemNode()        {}

// Funcs returns the function declarations of f in order.
func (f *File) Funcs() []*FuncDecl {
	out := make([]*FuncDecl, 0, len(f.Items))
	for _, it := range f.Items {
		if fn, ok := it.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Uses returns the module paths of top-level use declarations.
func (f *File) Uses() []string {
	var out []string
	for _, it := range f.Items {
		if u, ok := it.(*UseStmt); ok {
			out = append(out, u.Path)
		}
	}
	return out
}
