// Package filesystem performs the file actions produced by the intent
// translator: creating folders, deleting files or trees, and moving entries.
//
// Names are resolved against the session directory passed to Execute; the
// session cursor itself is never changed. A missing delete target is
// reported in Outcome.Error rather than as a Go error. Moves across
// devices fall back to a walk-and-copy followed by removal of the source.
package filesystem
