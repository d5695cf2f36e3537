// Package session holds the terminal's working-directory cursor.
//
// A single State is created at startup and handed to every handler. Reads
// take a snapshot under a read lock; cd is the only writer and holds the
// write lock while it changes the process directory and re-reads it.
//
// Example Usage:
//
//	state, err := session.New("")
//	dir, err := state.ChangeDir("../logs")
//	target := state.Resolve("notes.txt")
package session
