package analysis_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/domain/analysis"
	"github.com/rooklite/rook/internal/domain/analysis/analysistest"
)

func TestParseMode(t *testing.T) {
	for _, in := range []string{"audit", " IDEA ", "Compare"} {
		m, err := analysis.ParseMode(in)
		require.NoError(t, err, in)
		assert.True(t, m.Valid())
	}
	_, err := analysis.ParseMode("review")
	assert.ErrorIs(t, err, analysis.ErrUnknownMode)
}

func TestInputValidate(t *testing.T) {
	tests := []struct {
		name string
		mode analysis.Mode
		in   analysis.Input
		want error
	}{
		{"empty primary", analysis.ModeAudit, analysis.Input{}, analysis.ErrEmptyPrimary},
		{"whitespace primary", analysis.ModeIdea, analysis.Input{PrimaryText: " \n\t"}, analysis.ErrEmptyPrimary},
		{"audit ignores b", analysis.ModeAudit, analysis.Input{PrimaryText: "copy"}, nil},
		{"compare needs b", analysis.ModeCompare, analysis.Input{PrimaryText: "A"}, analysis.ErrEmptySecondary},
		{"compare whitespace b", analysis.ModeCompare, analysis.Input{PrimaryText: "A", SecondaryText: "  "}, analysis.ErrEmptySecondary},
		{"compare ok", analysis.ModeCompare, analysis.Input{PrimaryText: "A", SecondaryText: "B"}, nil},
		{"bad mode", analysis.Mode("x"), analysis.Input{PrimaryText: "A"}, analysis.ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate(tt.mode)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInputCloneDoesNotAlias(t *testing.T) {
	in := analysis.Input{MediaA: []analysis.MediaItem{{ID: "1"}}}
	out := in.Clone()
	out.MediaA[0].ID = "2"
	assert.Equal(t, "1", in.MediaA[0].ID)
}

func TestKindForMIME(t *testing.T) {
	assert.Equal(t, analysis.MediaVideo, analysis.KindForMIME("video/mp4"))
	assert.Equal(t, analysis.MediaVideo, analysis.KindForMIME("VIDEO/webm"))
	assert.Equal(t, analysis.MediaImage, analysis.KindForMIME("image/png"))
	assert.Equal(t, analysis.MediaImage, analysis.KindForMIME("application/pdf"))
	assert.Equal(t, analysis.MediaImage, analysis.KindForMIME(""))
}

func TestDataURI(t *testing.T) {
	uri := analysis.EncodeDataURI("image/png", []byte("png-bytes"))
	assert.Equal(t, "data:image/png;base64,cG5nLWJ5dGVz", uri)

	mime, data, err := analysis.DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, []byte("png-bytes"), data)

	mime, data, err = analysis.DecodeDataURI("cG5nLWJ5dGVz")
	require.NoError(t, err)
	assert.Empty(t, mime)
	assert.Equal(t, []byte("png-bytes"), data)

	_, _, err = analysis.DecodeDataURI("data:image/png;base64")
	assert.ErrorIs(t, err, analysis.ErrInvalidDataURI)
	_, _, err = analysis.DecodeDataURI("data:image/png;base64,!!!")
	assert.ErrorIs(t, err, analysis.ErrInvalidDataURI)
}

func TestDecodeResultDispatchesOnMode(t *testing.T) {
	for _, mode := range analysis.Modes() {
		r, err := analysis.DecodeResult([]byte(analysistest.JSONFor(mode)))
		require.NoError(t, err)
		assert.Equal(t, mode, r.AnalysisMode())
	}

	_, err := analysis.DecodeResult([]byte(`{"mode":"poem"}`))
	assert.ErrorIs(t, err, analysis.ErrUnknownMode)
	_, err = analysis.DecodeResult([]byte(`not json`))
	assert.Error(t, err)
}

func TestTitleAndSummaryProjections(t *testing.T) {
	audit := analysistest.Audit()
	assert.Equal(t, "Ship on time without leaving GitHub", audit.Title())
	assert.Equal(t, "Convert engineering leads into DevStream trial users", audit.Summary())

	audit.ImprovedCopy.Headline = ""
	assert.Equal(t, "Page Audit", audit.Title())

	idea := analysistest.Idea()
	assert.Equal(t, "Idea Strategy", idea.Title())
	assert.Equal(t, "Urban renters kill houseplants", idea.Summary())

	cmp := analysistest.Compare()
	assert.Equal(t, "Comparison Analysis", cmp.Title())
	assert.Equal(t, cmp.Verdict, cmp.Summary())
}

func TestResultRoundTripKeepsOptionalFields(t *testing.T) {
	cmp := analysistest.Compare()
	data, err := json.Marshal(cmp)
	require.NoError(t, err)
	back, err := analysis.DecodeResult(data)
	require.NoError(t, err)
	assert.Equal(t, cmp, back)
}
