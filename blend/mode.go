package blend

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned for values outside the Mode enum.
var ErrInvalidMode = errors.New("blend: invalid mode")

// Mode names a preset of material render state.
type Mode int

const (
	ModeOpaque Mode = iota
	ModeCutout
	ModeFade
	ModeTransparent
)

var modeNames = [...]string{
	ModeOpaque:      "opaque",
	ModeCutout:      "cutout",
	ModeFade:        "fade",
	ModeTransparent: "transparent",
}

// Modes lists every valid mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeOpaque, ModeCutout, ModeFade, ModeTransparent}
}

func (m Mode) Valid() bool {
	return m >= ModeOpaque && m <= ModeTransparent
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
