package ir

// Module is the IR of one source file.
type Module struct {
	Name  string
	Uses  []string
	Funcs []*Func
}

// Func returns the function called name, or nil.
func (m *Module) Func(name string) *Func {
	if m == nil {
		return nil
	}
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
