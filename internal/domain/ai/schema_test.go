package ai_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooklite/rook/internal/domain/ai"
)

func gapSchema() *ai.Schema {
	return ai.Object(map[string]*ai.Schema{
		"mode": ai.Enum([]string{"audit"}, ""),
		"gaps": ai.ArrayOf(ai.Object(map[string]*ai.Schema{
			"title":    ai.String(""),
			"severity": ai.Enum([]string{"Critical", "Major", "Minor"}, ""),
			"score":    ai.Number("0-10"),
			"note":     ai.String("optional"),
		}, "title", "severity", "score")),
	}, "mode", "gaps")
}

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestSchemaValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"valid", `{"mode":"audit","gaps":[{"title":"x","severity":"Major","score":4}]}`, ""},
		{"empty sequence is valid", `{"mode":"audit","gaps":[]}`, ""},
		{"optional present", `{"mode":"audit","gaps":[{"title":"x","severity":"Minor","score":1,"note":"n"}]}`, ""},
		{"missing top-level", `{"mode":"audit"}`, "$.gaps: required field missing"},
		{"null required", `{"mode":"audit","gaps":null}`, "$.gaps: required field missing"},
		{"missing nested", `{"mode":"audit","gaps":[{"title":"x","score":1}]}`, "$.gaps[0].severity: required field missing"},
		{"bad enum", `{"mode":"audit","gaps":[{"title":"x","severity":"Huge","score":1}]}`, `$.gaps[0].severity: "Huge" not in [Critical, Major, Minor]`},
		{"wrong type", `{"mode":"audit","gaps":[{"title":"x","severity":"Minor","score":"7"}]}`, "$.gaps[0].score: expected number, got string"},
		{"not an object", `[]`, "$: expected object, got array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gapSchema().Validate(decode(t, tt.doc))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ai.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestSchemaScoresAreTrusted(t *testing.T) {
	err := gapSchema().Validate(decode(t, `{"mode":"audit","gaps":[{"title":"x","severity":"Minor","score":42}]}`))
	assert.NoError(t, err)
}

func TestSchemaMarshalsAsJSONSchema(t *testing.T) {
	data, err := json.Marshal(ai.Object(map[string]*ai.Schema{"a": ai.String("")}, "a"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"a":{"type":"string"}},"required":["a"]}`, string(data))
}
