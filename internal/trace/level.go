package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelError              // only failures
	LevelPhase              // driver and phase boundaries
	LevelFile               // one span per file
	LevelDebug              // every step inside a file
)

var levelNames = [...]string{"off", "error", "phase", "file", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Scope is the granularity of an event; lower is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1
	ScopePhase
	ScopeFile
	ScopeStep
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeFile:
		return "file"
	case ScopeStep:
		return "step"
	default:
		return "unknown"
	}
}

// ShouldEmit reports whether an event of scope passes the level.
// Failures are emitted at every level except off.
func (l Level) ShouldEmit(kind Kind, scope Scope) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindError:
		return true
	case l == LevelError:
		return false
	case l == LevelPhase:
		return scope <= ScopePhase
	case l == LevelFile:
		return scope <= ScopeFile
	default:
		return true
	}
}
