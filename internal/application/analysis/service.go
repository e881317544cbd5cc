package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rooklite/rook/internal/domain/ai"
	domain "github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/infra/ai/prompt"
)

// maxLoggedResponse caps how much of an offending response goes to the log.
const maxLoggedResponse = 4 << 10

// Service is the analysis client. It holds no per-call state and is safe for
// concurrent use. Nothing is retried: every failure goes back to the caller.
type Service struct {
	Generator ai.Generator
	// Search enables the live-search capability for requests that want it.
	Search bool
	Logger *slog.Logger
}

func NewService(gen ai.Generator, search bool, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Generator: gen, Search: search, Logger: logger}
}

// Analyze validates input, sends the mode's request and decodes the answer.
// Malformed output, missing required fields and a mode tag that differs from
// the requested one all fail with ai.ErrInvalidResponse.
func (s *Service) Analyze(ctx context.Context, mode domain.Mode, in domain.Input) (domain.Result, error) {
	if err := in.Validate(mode); err != nil {
		return nil, err
	}
	req, err := prompt.Build(mode, in, s.Search)
	if err != nil {
		return nil, err
	}
	raw, err := s.Generator.GenerateJSON(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := decode(raw, mode, req.Schema)
	if err != nil {
		s.logger().Warn("analysis response rejected",
			slog.String("provider", s.Generator.Name()),
			slog.String("mode", string(mode)),
			slog.String("reason", err.Error()),
			slog.String("raw", truncate(raw, maxLoggedResponse)),
		)
		return nil, ai.ErrInvalidResponse
	}
	s.logger().Debug("analysis complete",
		slog.String("provider", s.Generator.Name()),
		slog.String("mode", string(mode)),
		slog.Bool("search", req.Search),
	)
	return res, nil
}

func decode(raw string, mode domain.Mode, schema *ai.Schema) (domain.Result, error) {
	text := stripFence(raw)
	if text == "" {
		return nil, errors.New("empty response")
	}
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if obj, ok := doc.(map[string]any); ok {
		if tag, _ := obj["mode"].(string); tag != "" && tag != string(mode) {
			return nil, fmt.Errorf("mode tag %q, requested %q", tag, mode)
		}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	res, err := domain.DecodeResult([]byte(text))
	if err != nil {
		return nil, err
	}
	if res.AnalysisMode() != mode {
		return nil, fmt.Errorf("mode tag %q, requested %q", res.AnalysisMode(), mode)
	}
	return res, nil
}

// stripFence removes a markdown code fence some models wrap JSON in even
// when asked for a JSON mime type.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// Transcribe converts recorded audio (a data URI or bare base64) to text.
// It returns "" when the service produced no text.
func (s *Service) Transcribe(ctx context.Context, encodedAudio string) (string, error) {
	mimeType, data, err := domain.DecodeDataURI(encodedAudio)
	if err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	text, err := s.Generator.Transcribe(ctx, data, mimeType, prompt.TranscribeInstruction())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// SynthesizeBrief reads text aloud and returns the audio as a data URI.
func (s *Service) SynthesizeBrief(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyPrimary
	}
	audio, mimeType, err := s.Generator.Synthesize(ctx, prompt.BriefPrompt(text))
	if err != nil {
		return "", err
	}
	if len(audio) == 0 {
		return "", ai.ErrNoAudio
	}
	return domain.EncodeDataURI(mimeType, audio), nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
