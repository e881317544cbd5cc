package ai

import "context"

// Part is one segment of a multimodal request. Exactly one of Text or Data is set.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(s string) Part { return Part{Text: s} }

func BlobPart(mimeType string, data []byte) Part { return Part{MIMEType: mimeType, Data: data} }

// IsText reports whether the part carries text rather than inline bytes.
func (p Part) IsText() bool { return p.Data == nil }

// StructuredRequest asks for JSON output conforming to Schema.
type StructuredRequest struct {
	System string
	Parts  []Part
	Schema *Schema
	// Search allows the model to consult live web search. Advisory only.
	Search bool
}

// Generator is the external generative-language service.
type Generator interface {
	Name() string
	// GenerateJSON returns the raw text the model produced; callers parse it.
	GenerateJSON(ctx context.Context, req StructuredRequest) (string, error)
	// Synthesize turns text into speech. It returns ErrNoAudio when the
	// service answers without an audio payload.
	Synthesize(ctx context.Context, text string) (audio []byte, mimeType string, err error)
	// Transcribe returns the text spoken in audio, or "" when the service
	// produced none.
	Transcribe(ctx context.Context, audio []byte, mimeType, instruction string) (string, error)
}
