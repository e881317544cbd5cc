package analysis_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/application/analysis"
	"github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/domain/ai/aitest"
	domain "github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/domain/analysis/analysistest"
)

func newService(g *aitest.Generator) *analysis.Service {
	return analysis.NewService(g, true, nil)
}

func TestAnalyzeReturnsRequestedMode(t *testing.T) {
	inputs := map[domain.Mode]domain.Input{
		domain.ModeAudit:   {PrimaryText: analysistest.DevStreamInput},
		domain.ModeIdea:    {PrimaryText: "PlantPal"},
		domain.ModeCompare: {PrimaryText: "TaskFlow...", SecondaryText: "Asana..."},
	}
	for mode, in := range inputs {
		t.Run(string(mode), func(t *testing.T) {
			g := &aitest.Generator{JSON: analysistest.JSONFor(mode)}
			res, err := newService(g).Analyze(context.Background(), mode, in)
			require.NoError(t, err)
			assert.Equal(t, mode, res.AnalysisMode())
			require.Len(t, g.Requests, 1)
			assert.NotNil(t, g.Requests[0].Schema)
		})
	}
}

func TestAnalyzeAuditScenario(t *testing.T) {
	g := &aitest.Generator{JSON: analysistest.AuditJSON}
	res, err := newService(g).Analyze(context.Background(), domain.ModeAudit, domain.Input{PrimaryText: analysistest.DevStreamInput})
	require.NoError(t, err)

	audit, ok := res.(*domain.AuditResult)
	require.True(t, ok)
	require.NotEmpty(t, audit.MessagingGaps)
	for _, gap := range audit.MessagingGaps {
		assert.Contains(t, domain.Severities(), string(gap.Severity))
	}
	for _, p := range audit.CompetitorRadar {
		assert.GreaterOrEqual(t, p.Score, 0.0)
		assert.LessOrEqual(t, p.Score, 10.0)
	}
}

func TestAnalyzeCompareScenario(t *testing.T) {
	g := &aitest.Generator{JSON: analysistest.CompareJSON}
	res, err := newService(g).Analyze(context.Background(), domain.ModeCompare, domain.Input{PrimaryText: "TaskFlow...", SecondaryText: "Asana..."})
	require.NoError(t, err)

	cmp := res.(*domain.CompareResult)
	assert.NotEmpty(t, cmp.Verdict)
	for _, row := range cmp.Scoreboard {
		assert.Contains(t, domain.Winners(), string(row.Winner))
		assert.True(t, row.ScoreA >= 0 && row.ScoreA <= 10)
		assert.True(t, row.ScoreB >= 0 && row.ScoreB <= 10)
	}
}

func TestAnalyzeRejectsEmptyInputWithoutCalling(t *testing.T) {
	g := &aitest.Generator{JSON: analysistest.AuditJSON}
	svc := newService(g)

	_, err := svc.Analyze(context.Background(), domain.ModeAudit, domain.Input{PrimaryText: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyPrimary)
	_, err = svc.Analyze(context.Background(), domain.ModeCompare, domain.Input{PrimaryText: "A", SecondaryText: "\t"})
	assert.ErrorIs(t, err, domain.ErrEmptySecondary)
	assert.Equal(t, 0, g.Calls())
}

func TestAnalyzeContractViolations(t *testing.T) {
	missingField := strings.Replace(analysistest.AuditJSON, `"email_draft"`, `"email_draft_x"`, 1)
	badEnum := strings.Replace(analysistest.AuditJSON, `"severity": "Critical"`, `"severity": "Catastrophic"`, 1)
	tests := map[string]string{
		"not json":      "I think your page is great!",
		"empty":         "",
		"missing field": missingField,
		"bad enum":      badEnum,
		"wrong mode":    analysistest.CompareJSON,
		"array":         `[]`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			g := &aitest.Generator{JSON: raw}
			_, err := newService(g).Analyze(context.Background(), domain.ModeAudit, domain.Input{PrimaryText: "copy"})
			require.ErrorIs(t, err, ai.ErrInvalidResponse)
			assert.Equal(t, "Analysis failed: Invalid response format.", err.Error())
			assert.Equal(t, 1, g.Calls(), "no retry")
		})
	}
}

func TestAnalyzeAcceptsFencedJSON(t *testing.T) {
	g := &aitest.Generator{JSON: "```json\n" + analysistest.IdeaJSON + "\n```"}
	res, err := newService(g).Analyze(context.Background(), domain.ModeIdea, domain.Input{PrimaryText: "PlantPal"})
	require.NoError(t, err)
	assert.Equal(t, domain.ModeIdea, res.AnalysisMode())
}

func TestAnalyzePropagatesServiceErrorsVerbatim(t *testing.T) {
	boom := errors.New("upstream: 503 service unavailable")
	g := &aitest.Generator{Err: boom}
	_, err := newService(g).Analyze(context.Background(), domain.ModeIdea, domain.Input{PrimaryText: "x"})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, g.Calls())
}

func TestAnalyzeSearchFlag(t *testing.T) {
	g := &aitest.Generator{JSON: analysistest.IdeaJSON}
	_, err := analysis.NewService(g, false, nil).Analyze(context.Background(), domain.ModeIdea, domain.Input{PrimaryText: "x"})
	require.NoError(t, err)
	assert.False(t, g.Requests[0].Search)
}

func TestTranscribe(t *testing.T) {
	g := &aitest.Generator{Text: "  hello world \n"}
	svc := newService(g)

	text, err := svc.Transcribe(context.Background(), domain.EncodeDataURI("audio/webm", []byte("pcm")))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, []byte("pcm"), g.Transcribed[0])

	g.Text = ""
	text, err = svc.Transcribe(context.Background(), "cGNt")
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = svc.Transcribe(context.Background(), "data:audio/webm;base64,***")
	assert.ErrorIs(t, err, domain.ErrInvalidDataURI)
}

func TestSynthesizeBrief(t *testing.T) {
	g := &aitest.Generator{Audio: []byte("wav"), AudioMIME: "audio/wav"}
	uri, err := newService(g).SynthesizeBrief(context.Background(), "Ship faster")
	require.NoError(t, err)
	assert.Equal(t, domain.EncodeDataURI("audio/wav", []byte("wav")), uri)
	assert.Contains(t, g.Spoken[0], "Ship faster")

	_, err = newService(&aitest.Generator{}).SynthesizeBrief(context.Background(), "Ship faster")
	assert.ErrorIs(t, err, ai.ErrNoAudio)
}
