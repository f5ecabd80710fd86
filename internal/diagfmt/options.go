package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAsIs prints the path recorded in the diagnostic.
	PathModeAsIs PathMode = iota
	// PathModeBasename prints only the file name.
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// Sources maps file names to their content for line previews; optional.
	Sources map[string][]byte
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int
	IncludeNotes bool
}
