package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		name     string
	}{
		{"", "gemini:gemini-3-pro-preview"},
		{"gemini", "gemini:gemini-3-pro-preview"},
		{"OpenAI", "openai:gpt-4o"},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			gen, err := New(config.AIConfig{Provider: tt.provider})
			require.NoError(t, err)
			assert.Equal(t, tt.name, gen.Name())
		})
	}
}

func TestNewModelOverride(t *testing.T) {
	gen, err := New(config.AIConfig{Provider: "openai", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Equal(t, "openai:gpt-4o-mini", gen.Name())
}

func TestNewUnknown(t *testing.T) {
	_, err := New(config.AIConfig{Provider: "claude"})
	assert.ErrorContains(t, err, "unknown ai provider")
}
