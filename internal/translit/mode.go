package translit

import (
	"fmt"
	"strings"
)

// Mode selects the conversion applied to text.
type Mode int

const (
	ModeUnknown  Mode = iota
	ModeForward       // romanized Avro keystrokes to Bengali
	ModeReverse       // Bengali to an approximate romanization
	ModeBanglish      // reserved, not implemented
	ModeLishbang      // reserved, not implemented
)

// modeIDs maps accepted identifiers, including aliases, to modes.
var modeIDs = map[string]Mode{
	"forward":  ModeForward,
	"avro":     ModeForward,
	"reverse":  ModeReverse,
	"orva":     ModeReverse,
	"banglish": ModeBanglish,
	"lishbang": ModeLishbang,
}

// ParseMode resolves a mode identifier. Matching ignores case and
// surrounding space.
func ParseMode(id string) (Mode, bool) {
	m, ok := modeIDs[strings.ToLower(strings.TrimSpace(id))]
	return m, ok
}

// Modes returns every supported mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeForward, ModeReverse, ModeBanglish, ModeLishbang}
}

// String returns the canonical identifier.
func (m Mode) String() string {
	switch m {
	case ModeForward:
		return "forward"
	case ModeReverse:
		return "reverse"
	case ModeBanglish:
		return "banglish"
	case ModeLishbang:
		return "lishbang"
	default:
		return "unknown"
	}
}

// Implemented reports whether the mode has a real engine behind it.
func (m Mode) Implemented() bool {
	return m == ModeForward || m == ModeReverse
}

// MarshalText encodes the canonical identifier.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts any identifier ParseMode accepts.
func (m *Mode) UnmarshalText(b []byte) error {
	mode, ok := ParseMode(string(b))
	if !ok {
		return fmt.Errorf("unsupported mode %q", string(b))
	}
	*m = mode
	return nil
}
