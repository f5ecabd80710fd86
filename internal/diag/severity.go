package diag

import "strconv"

// Severity orders diagnostics; only SevError fails a build.
type Severity uint8

const (
	SevNote Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevNote:    "note",
	SevWarning: "warning",
	SevError:   "error",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "severity(" + strconv.Itoa(int(s)) + ")"
}
