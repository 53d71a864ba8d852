// Package compose turns a stream of keyboard actions into text edits,
// converting each typed word when it is committed.
//
// Typed characters appear as they are typed and are remembered in a pending
// buffer. Space (or an explicit commit) replaces the pending word with its
// transliteration; any other action abandons the buffer. A Document applies
// the resulting edits to an in-memory text field, standing in for the host
// application's text input.
package compose
