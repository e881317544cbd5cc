package analysis

import (
	"errors"
	"strings"
)

// Variant identifies one side of the input. Only compare mode uses B.
type Variant string

const (
	VariantA Variant = "a"
	VariantB Variant = "b"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case VariantA, "":
		return VariantA, nil
	case VariantB:
		return VariantB, nil
	}
	return "", errors.New("invalid variant: " + s + " (allowed: a, b)")
}

var (
	ErrEmptyPrimary   = errors.New("primary text is required")
	ErrEmptySecondary = errors.New("secondary text is required in compare mode")
)

// Input is what the user has entered for the current mode.
type Input struct {
	PrimaryText   string      `json:"a"`
	SecondaryText string      `json:"b"`
	MediaA        []MediaItem `json:"mediaA"`
	MediaB        []MediaItem `json:"mediaB"`
}

// Validate is the only check performed before dispatching a request.
func (in Input) Validate(mode Mode) error {
	if !mode.Valid() {
		return ErrUnknownMode
	}
	if strings.TrimSpace(in.PrimaryText) == "" {
		return ErrEmptyPrimary
	}
	if mode == ModeCompare && strings.TrimSpace(in.SecondaryText) == "" {
		return ErrEmptySecondary
	}
	return nil
}

// Clone returns a copy whose media slices do not alias the receiver's.
func (in Input) Clone() Input {
	out := in
	out.MediaA = append([]MediaItem(nil), in.MediaA...)
	out.MediaB = append([]MediaItem(nil), in.MediaB...)
	return out
}

func (in Input) Text(v Variant) string {
	if v == VariantB {
		return in.SecondaryText
	}
	return in.PrimaryText
}

func (in Input) Media(v Variant) []MediaItem {
	if v == VariantB {
		return in.MediaB
	}
	return in.MediaA
}
