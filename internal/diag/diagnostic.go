package diag

import "github.com/NovaVoxel/NovaLang/internal/token"

type Note struct {
	Pos token.Pos
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     string
	Pos      token.Pos
	Notes    []Note
}

func New(sev Severity, code Code, file string, pos token.Pos, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		File:     file,
		Pos:      pos,
	}
}

func NewError(code Code, file string, pos token.Pos, msg string) Diagnostic {
	return New(SevError, code, file, pos, msg)
}

func (d Diagnostic) WithNote(pos token.Pos, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}
