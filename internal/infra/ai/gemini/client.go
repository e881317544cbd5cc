package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"google.golang.org/genai"

	"github.com/rooklite/rook/internal/domain/ai"
)

const (
	DefaultModel           = "gemini-3-pro-preview"
	DefaultSpeechModel     = "gemini-2.5-flash-preview-tts"
	DefaultTranscribeModel = "gemini-2.5-flash"
	DefaultVoice           = "Kore"
)

// Config holds what the client needs to reach the Gemini API.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	SpeechModel     string
	TranscribeModel string
	Voice           string
	HTTPClient      *http.Client
}

// Client implements ai.Generator over the official genai SDK. The SDK client
// is built on first use so a missing key only fails the call that needs it.
type Client struct {
	cfg Config

	once sync.Once
	cli  *genai.Client
	err  error
}

var _ ai.Generator = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = DefaultTranscribeModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	return &Client{cfg: cfg}
}

func (c *Client) Name() string { return "gemini:" + c.cfg.Model }

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		if c.cfg.APIKey == "" {
			c.err = ai.ErrMissingCredential
			return
		}
		c.cli, c.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      c.cfg.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  c.cfg.HTTPClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: c.cfg.BaseURL},
		})
	})
	return c.cli, c.err
}

func (c *Client) GenerateJSON(ctx context.Context, req ai.StructuredRequest) (string, error) {
	cli, err := c.client(ctx)
	if err != nil {
		return "", err
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(req.Schema),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	resp, err := cli.Models.GenerateContent(ctx, c.cfg.Model, []*genai.Content{toContent(req.Parts)}, cfg)
	if err != nil {
		return "", mapErr(err)
	}
	return resp.Text(), nil
}

func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	cli, err := c.client(ctx)
	if err != nil {
		return nil, "", err
	}
	resp, err := cli.Models.GenerateContent(ctx, c.cfg.SpeechModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.cfg.Voice},
			},
		},
	})
	if err != nil {
		return nil, "", mapErr(err)
	}
	blob := firstBlob(resp)
	if blob == nil || len(blob.Data) == 0 {
		return nil, "", ai.ErrNoAudio
	}
	if rate, ok := pcmRate(blob.MIMEType); ok {
		return wrapWAV(blob.Data, rate), "audio/wav", nil
	}
	return blob.Data, blob.MIMEType, nil
}

func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType, instruction string) (string, error) {
	cli, err := c.client(ctx)
	if err != nil {
		return "", err
	}
	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(audio, mimeType),
		genai.NewPartFromText(instruction),
	}, genai.RoleUser)
	resp, err := cli.Models.GenerateContent(ctx, c.cfg.TranscribeModel, []*genai.Content{content}, nil)
	if err != nil {
		return "", mapErr(err)
	}
	return resp.Text(), nil
}

func toContent(parts []ai.Part) *genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsText() {
			out = append(out, genai.NewPartFromText(p.Text))
		} else {
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
		}
	}
	return genai.NewContentFromParts(out, genai.RoleUser)
}

var typeNames = map[ai.Type]genai.Type{
	ai.TypeObject:  genai.TypeObject,
	ai.TypeArray:   genai.TypeArray,
	ai.TypeString:  genai.TypeString,
	ai.TypeNumber:  genai.TypeNumber,
	ai.TypeInteger: genai.TypeInteger,
	ai.TypeBoolean: genai.TypeBoolean,
}

// toSchema converts the contract to the API's OpenAPI subset. Required
// fields are emitted first, in declaration order, so the model writes
// "mode" and "reasoning_log" before the body.
func toSchema(s *ai.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        typeNames[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		rest := make([]string, 0, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toSchema(p)
			if !slices.Contains(s.Required, name) {
				rest = append(rest, name)
			}
		}
		slices.Sort(rest)
		out.PropertyOrdering = append(slices.Clone(s.Required), rest...)
	}
	return out
}

func firstBlob(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil {
		return nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil {
				return part.InlineData
			}
		}
	}
	return nil
}

func mapErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED") {
		return &ai.QuotaError{Err: err}
	}
	return fmt.Errorf("gemini: %w", err)
}
