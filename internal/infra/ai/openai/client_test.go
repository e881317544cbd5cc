package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/infra/ai/prompt"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestGenerateJSONSendsSchemaAndMedia(t *testing.T) {
	var got openai.ChatCompletionRequest
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &raw))
		require.NoError(t, json.Unmarshal(body, &got))
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: `{"mode":"audit"}`}}},
		})
	})

	in := analysis.Input{
		PrimaryText: "Welcome to DevStream",
		MediaA: []analysis.MediaItem{
			{ID: "1", Kind: analysis.MediaImage, Data: analysis.EncodeDataURI("image/png", []byte("png"))},
			{ID: "2", Kind: analysis.MediaVideo, Data: analysis.EncodeDataURI("video/mp4", []byte("mp4"))},
		},
	}
	req, err := prompt.Build(analysis.ModeAudit, in, true)
	require.NoError(t, err)
	out, err := c.GenerateJSON(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"mode":"audit"}`, out)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	parts := got.Messages[1].MultiContent
	require.Len(t, parts, 3)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, parts[0].Type)
	assert.Equal(t, "data:image/png;base64,cG5n", parts[0].ImageURL.URL)
	assert.Contains(t, parts[1].Text, "video/mp4")
	assert.Contains(t, parts[2].Text, "conversion audit")

	format := raw["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]any)["schema"].(map[string]any)
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["required"], "messaging_gaps")
}

func TestGenerateJSONRateLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	})
	_, err := c.GenerateJSON(context.Background(), ai.StructuredRequest{Parts: []ai.Part{ai.TextPart("x")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "Rate limit exceeded")
}

func TestGenerateJSONServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	})
	_, err := c.GenerateJSON(context.Background(), ai.StructuredRequest{Parts: []ai.Part{ai.TextPart("x")}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestMissingKey(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.GenerateJSON(context.Background(), ai.StructuredRequest{})
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
	_, _, err = c.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
	_, err = c.Transcribe(context.Background(), nil, "", "")
	assert.ErrorIs(t, err, ai.ErrMissingCredential)
}

func TestSynthesize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		var req openai.CreateSpeechRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, openai.SpeechVoice(DefaultVoice), req.Voice)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3mp3"))
	})
	audio, mimeType, err := c.Synthesize(context.Background(), "brief")
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", mimeType)
	assert.Equal(t, []byte("ID3mp3"), audio)
}

func TestSynthesizeEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	})
	_, _, err := c.Synthesize(context.Background(), "brief")
	assert.ErrorIs(t, err, ai.ErrNoAudio)
}

func TestTranscribe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, DefaultTranscribeModel, r.FormValue("model"))
		_, fh, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "recording.webm", fh.Filename)
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello"})
	})
	text, err := c.Transcribe(context.Background(), []byte("opus"), "audio/webm;codecs=opus", "transcribe")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}
