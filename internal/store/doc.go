// Package store provides a SQLite-backed journal of conversions.
//
// Every committed conversion is appended with the session it belongs to, a
// per-session logical sequence number, the rule table digest and the engine
// version. The journal lets a later build replay old input and report where
// its output drifted.
//
// # Ordering
//
//   - Ordering uses the seq column (a logical clock), never timestamps
//   - All reads use ORDER BY seq ASC, id ASC COLLATE BINARY
//   - Session and conversion IDs are UUIDv7, so they also sort by creation
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
