package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/domain/analysis"
)

const (
	maxTokens = 8192

	DefaultModel           = "gpt-4o"
	DefaultSpeechModel     = string(openai.TTSModelGPT4oMini)
	DefaultTranscribeModel = openai.Whisper1
	DefaultVoice           = string(openai.VoiceAlloy)
)

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	SpeechModel     string
	TranscribeModel string
	Voice           string
}

// Client implements ai.Generator over the OpenAI API. Chat completions have
// no live-search tool, so StructuredRequest.Search is not forwarded, and
// only image attachments can be shown to the model.
type Client struct {
	*openai.Client
	Model           string
	SpeechModel     string
	TranscribeModel string
	Voice           string
	hasKey          bool
}

var _ ai.Generator = (*Client)(nil)

func NewClient(cfg Config) *Client {
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	c := &Client{
		Client:          openai.NewClientWithConfig(conf),
		Model:           cfg.Model,
		SpeechModel:     cfg.SpeechModel,
		TranscribeModel: cfg.TranscribeModel,
		Voice:           cfg.Voice,
		hasKey:          cfg.APIKey != "",
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.SpeechModel == "" {
		c.SpeechModel = DefaultSpeechModel
	}
	if c.TranscribeModel == "" {
		c.TranscribeModel = DefaultTranscribeModel
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	return c
}

func (c *Client) Name() string { return "openai:" + c.Model }

// schemaJSON satisfies json.Marshaler for the response_format payload.
type schemaJSON struct{ *ai.Schema }

func (s schemaJSON) MarshalJSON() ([]byte, error) { return json.Marshal(s.Schema) }

func (c *Client) GenerateJSON(ctx context.Context, req ai.StructuredRequest) (string, error) {
	if !c.hasKey {
		return "", ai.ErrMissingCredential
	}
	format := &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	if req.Schema != nil {
		format = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "analysis",
				Schema: schemaJSON{req.Schema},
			},
		}
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: toParts(req.Parts)})

	chat := openai.ChatCompletionRequest{
		Model:          c.Model,
		ResponseFormat: format,
		Messages:       messages,
	}
	// Reasoning models (o1/o3/o4/gpt-5*) take MaxCompletionTokens instead of MaxTokens.
	if isReasoningModel(c.Model) {
		chat.MaxCompletionTokens = maxTokens
	} else {
		chat.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", mapErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func toParts(parts []ai.Part) []openai.ChatMessagePart {
	out := make([]openai.ChatMessagePart, 0, len(parts))
	for _, p := range parts {
		switch {
		case p.IsText():
			out = append(out, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: p.Text})
		case strings.HasPrefix(p.MIMEType, "image/"):
			out = append(out, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: analysis.EncodeDataURI(p.MIMEType, p.Data), Detail: openai.ImageURLDetailAuto},
			})
		default:
			out = append(out, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: fmt.Sprintf("[A %s attachment of %d bytes was provided but cannot be viewed. Base the analysis on the text.]", p.MIMEType, len(p.Data)),
			})
		}
	}
	return out
}

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if !c.hasKey {
		return nil, "", ai.ErrMissingCredential
	}
	resp, err := c.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.SpeechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, "", mapErr(err)
	}
	defer resp.Close()
	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, "", fmt.Errorf("openai: read speech: %w", err)
	}
	if len(audio) == 0 {
		return nil, "", ai.ErrNoAudio
	}
	return audio, "audio/mpeg", nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType, instruction string) (string, error) {
	if !c.hasKey {
		return "", ai.ErrMissingCredential
	}
	resp, err := c.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.TranscribeModel,
		FilePath: "recording" + extensionFor(mimeType),
		Reader:   bytes.NewReader(audio),
		Prompt:   instruction,
	})
	if err != nil {
		return "", mapErr(err)
	}
	return resp.Text, nil
}

func extensionFor(mimeType string) string {
	base, _, _ := mime.ParseMediaType(mimeType)
	switch base {
	case "audio/webm", "video/webm":
		return ".webm"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	}
	if exts, _ := mime.ExtensionsByType(base); len(exts) > 0 {
		return exts[0]
	}
	return ".mp3"
}

func mapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ai.QuotaError{Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &ai.QuotaError{Err: err}
	}
	return fmt.Errorf("openai: %w", err)
}
