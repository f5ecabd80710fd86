package diag

import "github.com/NovaVoxel/NovaLang/internal/token"

// Reporter is the minimal contract phases use to emit diagnostics.
type Reporter interface {
	Report(code Code, sev Severity, file string, pos token.Pos, msg string, notes []Note)
}

// BagReporter writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, file string, pos token.Pos, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		File: file, Pos: pos, Notes: notes,
	})
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, string, token.Pos, string, []Note) {}

// ReportError is a shortcut for SevError diagnostics without notes.
func ReportError(r Reporter, code Code, file string, pos token.Pos, msg string) {
	if r != nil {
		r.Report(code, SevError, file, pos, msg, nil)
	}
}

// ReportWarning is a shortcut for SevWarning diagnostics without notes.
func ReportWarning(r Reporter, code Code, file string, pos token.Pos, msg string) {
	if r != nil {
		r.Report(code, SevWarning, file, pos, msg, nil)
	}
}
