// Package translit dispatches text to a transliteration engine by mode.
//
// The public surface never fails: every call returns a Result whose Text is
// either the converted text or, for stub and unknown modes, the input
// unchanged together with a Diagnostic.
package translit
