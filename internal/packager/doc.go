// Package packager turns .nova sources into compiled units and .novar
// archives. Files are compiled one at a time in lexicographic order; the
// first failure aborts the pack and no archive is written.
package packager
