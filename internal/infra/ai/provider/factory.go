package provider

import (
	"fmt"
	"strings"

	"github.com/rooklite/rook/internal/config"
	"github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/infra/ai/gemini"
	"github.com/rooklite/rook/internal/infra/ai/openai"
)

// New creates the generator named by cfg.Provider.
func New(cfg config.AIConfig) (ai.Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "":
		return gemini.NewClient(gemini.Config{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			Model:           cfg.Model,
			SpeechModel:     cfg.SpeechModel,
			TranscribeModel: cfg.TranscribeModel,
			Voice:           cfg.Voice,
		}), nil

	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			Model:           cfg.Model,
			SpeechModel:     cfg.SpeechModel,
			TranscribeModel: cfg.TranscribeModel,
			Voice:           cfg.Voice,
		}), nil

	default:
		return nil, fmt.Errorf("unknown ai provider: %s (supported: gemini, openai)", cfg.Provider)
	}
}
