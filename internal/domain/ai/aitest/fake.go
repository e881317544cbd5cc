// Package aitest provides an in-memory ai.Generator for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/rooklite/rook/internal/domain/ai"
)

// Generator answers from canned values and records every request.
// OnGenerate, when set, replaces the canned JSON and Err.
type Generator struct {
	JSON      string
	Err       error
	Audio     []byte
	AudioMIME string
	Text      string

	OnGenerate func(ctx context.Context, req ai.StructuredRequest) (string, error)

	mu          sync.Mutex
	Requests    []ai.StructuredRequest
	Transcribed [][]byte
	Spoken      []string
}

var _ ai.Generator = (*Generator)(nil)

func (g *Generator) Name() string { return "fake" }

func (g *Generator) GenerateJSON(ctx context.Context, req ai.StructuredRequest) (string, error) {
	g.mu.Lock()
	g.Requests = append(g.Requests, req)
	hook := g.OnGenerate
	g.mu.Unlock()
	if hook != nil {
		return hook(ctx, req)
	}
	return g.JSON, g.Err
}

func (g *Generator) Synthesize(_ context.Context, text string) ([]byte, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Spoken = append(g.Spoken, text)
	if g.Err != nil {
		return nil, "", g.Err
	}
	mime := g.AudioMIME
	if mime == "" {
		mime = "audio/wav"
	}
	return g.Audio, mime, nil
}

func (g *Generator) Transcribe(_ context.Context, audio []byte, _ string, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Transcribed = append(g.Transcribed, audio)
	return g.Text, g.Err
}

// Calls returns how many structured requests were made.
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Requests)
}
