package store

// Session groups the conversions of one run of the CLI or one typing
// session.
type Session struct {
	ID            string `json:"id"`
	Mode          string `json:"mode"`
	TableDigest   string `json:"table_digest"`
	EngineVersion string `json:"engine_version"`
}

// Conversion is one journaled conversion.
type Conversion struct {
	ID            string `json:"id"`
	SessionID     string `json:"session_id"`
	Seq           int64  `json:"seq"`
	Mode          string `json:"mode"`
	Input         string `json:"input"`
	Output        string `json:"output"`
	TableDigest   string `json:"table_digest"`
	EngineVersion string `json:"engine_version"`
}

// SessionSummary describes a session for listings.
type SessionSummary struct {
	Session
	Conversions int   `json:"conversions"`
	LastSeq     int64 `json:"last_seq"`
}
