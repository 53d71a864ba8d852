package engine

// Version identifies the scanner behaviour. Journaled conversions record it
// so replays can tell engine drift from table drift.
const Version = "1.0.0"
