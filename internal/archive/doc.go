// Package archive reads and writes .novar archives: an uncompressed tar
// stream whose entries live under bin/, with bin/Manifest.json listing the
// compiled units in execution order.
package archive
