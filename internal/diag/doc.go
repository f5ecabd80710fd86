// Package diag defines the diagnostic model shared by the Nova frontend and
// the packager.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form, a short Message and the primary File/Pos. Notes add
// secondary positions and should only carry new context.
//
// Producers emit through a Reporter; BagReporter collects into a Bag, which
// supports sorting, deduplication and error/warning counting. Rendering lives
// in internal/diagfmt.
package diag
