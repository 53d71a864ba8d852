// Package engine implements the forward and reverse phonetic scanners.
//
// Both scanners walk their input left to right, one rune position at a time,
// and emit the output of the first rule whose literal matches at the cursor.
//
// ARCHITECTURE:
//
// Forward (Latin to Bengali):
// Rules are tried in table order. When a rule's literal matches, its
// conditional overrides are evaluated top to bottom against the characters
// just before and just after the match; the first override whose conditions
// all hold supplies the output, otherwise the rule's default output is used.
// A position no rule matches is copied through unchanged.
//
// Reverse (Bengali to Latin):
// The reverse table is derived from the forward table by swapping find and
// replace and ordering by descending literal length. Conditions are ignored.
// A fixed cleanup pass removes script marks that have no Latin spelling.
// The reverse transform is lossy; it does not promise a round trip.
//
// INVARIANTS:
//   - Tables are never mutated after compilation, so one Forward or Reverse
//     value is safe for concurrent use without locks.
//   - All positions are rune indices. Input that is not valid UTF-8 has its
//     bad bytes replaced with U+FFFD.
//   - Scanners perform no I/O and never panic on any input.
package engine
