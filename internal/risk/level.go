package risk

import (
	"fmt"
	"strings"
)

// Level is an ordered review priority: Low < Medium < High < Severe.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
	LevelSevere
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelLow, LevelMedium, LevelHigh, LevelSevere}

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "Low"
	case LevelMedium:
		return "Medium"
	case LevelHigh:
		return "High"
	case LevelSevere:
		return "Severe"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), l.String()) {
			return l, nil
		}
	}
	return LevelLow, fmt.Errorf("unknown risk level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Color is the ANSI 16-colour code used when printing the level on a
// terminal.
func (l Level) Color() string {
	switch l {
	case LevelSevere:
		return "9"
	case LevelHigh:
		return "1"
	case LevelMedium:
		return "3"
	default:
		return "2"
	}
}

// Max returns the highest of levels, or LevelLow for none. Levels are never
// averaged.
func Max(levels ...Level) Level {
	out := LevelLow
	for _, l := range levels {
		if l > out {
			out = l
		}
	}
	return out
}
