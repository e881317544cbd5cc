package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects one of the three analysis workflows.
type Mode string

const (
	ModeAudit   Mode = "audit"
	ModeIdea    Mode = "idea"
	ModeCompare Mode = "compare"
)

var ErrUnknownMode = errors.New("unknown analysis mode")

// Modes lists every supported mode in display order.
func Modes() []Mode {
	return []Mode{ModeAudit, ModeIdea, ModeCompare}
}

func (m Mode) Valid() bool {
	switch m {
	case ModeAudit, ModeIdea, ModeCompare:
		return true
	}
	return false
}

// ParseMode is case-insensitive and ignores surrounding whitespace.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (allowed: audit, idea, compare)", ErrUnknownMode, s)
	}
	return m, nil
}
