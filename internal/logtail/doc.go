// Package logtail reads the tail of kart's log file for the in-app log view.
//
// # Overview
//
// kart writes JSON records (one per line) through logrus. This package reads
// the last N lines without loading the whole file and decodes each record
// into an Entry the UI can render.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines:
//
//  1. Allocate ring buffer of size maxLines
//  2. For each line in file:
//     - Store line at current index
//     - Increment index (wrapping at maxLines)
//     - Track total lines seen
//  3. If total < maxLines:
//     - Return first 'count' entries from buffer
//  4. If total >= maxLines:
//     - Return buffer starting from current index (oldest line)
//
// A non-positive maxLines returns the whole file.
//
// # Parsing
//
// Parse reads the time, level, msg and component keys with gjson and keeps
// every other key as a key=value pair in file order. Lines that are not JSON
// objects (a panic trace, a truncated write) are returned with only Raw set
// so nothing is hidden.
//
//	{"component":"catalog","level":"warning","msg":"request failed","status":503,"time":"..."}
//	→ Entry{Level: "WARNING", Component: "catalog", Message: "request failed", Fields: ["status=503"]}
//
// # Error Handling
//
// Read returns nil, nil for non-existent files (logging may be disabled).
// Other errors (permission denied, I/O errors) are returned wrapped.
package logtail
