// Package rules defines the phonetic rewrite table used by the
// transliteration engines.
//
// A table is an ordered list of rules. Each rule maps a Latin literal to its
// Bengali output and may carry conditional overrides keyed on the character
// immediately before or after the match. Table order is priority: a longer
// literal must appear before every shorter literal that is a prefix of it.
//
// Tables are immutable once built. The default Avro table is embedded in the
// binary and decoded once per process; alternative tables can be loaded from
// YAML or CUE documents and hot-reloaded with a Watcher.
//
// This package imports nothing internal.
package rules
