package prompt

import (
	"fmt"

	"github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/domain/analysis"
)

type props = map[string]*ai.Schema

func stringList() *ai.Schema { return ai.ArrayOf(ai.String("")) }

func score(desc string) *ai.Schema { return ai.Number(desc + " (0-10 scale)") }

func modeTag(m analysis.Mode) *ai.Schema {
	return ai.Enum([]string{string(m)}, "must be \""+string(m)+"\"")
}

func reasoningLog() *ai.Schema {
	s := stringList()
	s.Description = "short steps of the reasoning behind the report"
	return s
}

func adSchema() *ai.Schema {
	return ai.Object(props{
		"platform":     ai.Enum(analysis.AdPlatforms(), ""),
		"headline":     ai.String(""),
		"primary_text": ai.String(""),
	}, "platform", "headline", "primary_text")
}

func socialSchema() *ai.Schema {
	return ai.Object(props{
		"platform": ai.Enum(analysis.SocialPlatforms(), ""),
		"content":  ai.String(""),
		"hashtags": stringList(),
	}, "platform", "content", "hashtags")
}

func emailSchema() *ai.Schema {
	return ai.Object(props{
		"subject_line": ai.String(""),
		"preview_text": ai.String(""),
		"body":         ai.String(""),
	}, "subject_line", "preview_text", "body")
}

func seoSuggestion() *ai.Schema {
	return ai.Object(props{
		"current":   ai.String("what the page has today, empty if nothing"),
		"suggested": ai.String(""),
		"reasoning": ai.String(""),
	}, "current", "suggested", "reasoning")
}

func auditSchema() *ai.Schema {
	return ai.Object(props{
		"mode":          modeTag(analysis.ModeAudit),
		"reasoning_log": reasoningLog(),
		"overview": ai.Object(props{
			"page_intent":        ai.String(""),
			"target_audience":    ai.String(""),
			"strategic_analysis": ai.String(""),
			"recommendations":    stringList(),
		}, "page_intent", "target_audience", "strategic_analysis", "recommendations"),
		"messaging_gaps": ai.ArrayOf(ai.Object(props{
			"title":       ai.String(""),
			"explanation": ai.String(""),
			"severity":    ai.Enum(analysis.Severities(), ""),
		}, "title", "explanation", "severity")),
		"improved_copy": ai.Object(props{
			"headline":        ai.String(""),
			"subheadline":     ai.String(""),
			"supporting_copy": ai.String("optional"),
			"cta_optimizations": ai.ArrayOf(ai.Object(props{
				"original":  ai.String(""),
				"improved":  ai.String(""),
				"reasoning": ai.String(""),
			}, "original", "improved", "reasoning")),
		}, "headline", "subheadline", "cta_optimizations"),
		"seo": ai.Object(props{
			"title_tag":        seoSuggestion(),
			"meta_description": seoSuggestion(),
			"focus_keywords": ai.Object(props{
				"current":   stringList(),
				"suggested": stringList(),
				"reasoning": ai.String(""),
			}, "current", "suggested", "reasoning"),
		}, "title_tag", "meta_description", "focus_keywords"),
		"ad_concepts":  ai.ArrayOf(adSchema()),
		"social_posts": ai.ArrayOf(socialSchema()),
		"email_draft":  emailSchema(),
		"competitor_radar": ai.ArrayOf(ai.Object(props{
			"dimension": ai.String(""),
			"score":     score("how well the page performs on this dimension"),
			"fix":       ai.String(""),
		}, "dimension", "score", "fix")),
	}, "mode", "reasoning_log", "overview", "messaging_gaps", "improved_copy", "seo",
		"ad_concepts", "social_posts", "email_draft", "competitor_radar")
}

func ideaSchema() *ai.Schema {
	return ai.Object(props{
		"mode":          modeTag(analysis.ModeIdea),
		"reasoning_log": reasoningLog(),
		"opportunity_scan": ai.Object(props{
			"problem_summary":  ai.String(""),
			"who_is_suffering": ai.String(""),
			"why_now":          ai.String(""),
		}, "problem_summary", "who_is_suffering", "why_now"),
		"icp": ai.Object(props{
			"summary": ai.String(""),
			"persona": ai.Object(props{
				"role":               ai.String(""),
				"situation":          ai.String(""),
				"pains":              stringList(),
				"success_definition": ai.String(""),
			}, "role", "situation", "pains", "success_definition"),
		}, "summary", "persona"),
		"positioning": ai.Object(props{
			"statement": ai.String(""),
			"narrative": ai.String(""),
		}, "statement", "narrative"),
		"landing_page_structure": ai.Object(props{
			"sections": ai.ArrayOf(ai.Object(props{
				"title":       ai.String(""),
				"description": ai.String(""),
			}, "title", "description")),
			"hero_example": ai.Object(props{
				"headline":    ai.String(""),
				"subheadline": ai.String(""),
				"cta":         ai.String(""),
			}, "headline", "subheadline", "cta"),
		}, "sections", "hero_example"),
		"channel_strategy": ai.Object(props{
			"channels":   stringList(),
			"test_first": ai.String(""),
			"reasoning":  ai.String(""),
		}, "channels", "test_first", "reasoning"),
		"launch_plan": ai.ArrayOf(ai.Object(props{
			"day":     ai.Number("day offset from launch"),
			"content": ai.String(""),
		}, "day", "content")),
		"sample_assets": ai.Object(props{
			"ads":    ai.ArrayOf(adSchema()),
			"social": ai.ArrayOf(socialSchema()),
			"email":  emailSchema(),
		}, "ads", "social", "email"),
	}, "mode", "reasoning_log", "opportunity_scan", "icp", "positioning",
		"landing_page_structure", "channel_strategy", "launch_plan", "sample_assets")
}

func compareSchema() *ai.Schema {
	return ai.Object(props{
		"mode":          modeTag(analysis.ModeCompare),
		"reasoning_log": reasoningLog(),
		"verdict":       ai.String(""),
		"scoreboard": ai.ArrayOf(ai.Object(props{
			"category": ai.String(""),
			"score_a":  score("variant A"),
			"score_b":  score("variant B"),
			"winner":   ai.Enum(analysis.Winners(), ""),
		}, "category", "score_a", "score_b", "winner")),
		"social_intel": ai.Object(props{
			"summary":            ai.String(""),
			"key_channels":       stringList(),
			"sentiment_analysis": ai.String(""),
		}, "summary", "key_channels", "sentiment_analysis"),
		"differences": ai.Object(props{
			"b_better_points": stringList(),
			"a_edge_points":   stringList(),
		}, "b_better_points", "a_edge_points"),
		"action_plan": ai.Object(props{
			"borrow_from_b":      stringList(),
			"lean_into_a":        stringList(),
			"revised_headline_a": ai.String("optional"),
		}, "borrow_from_b", "lean_into_a"),
	}, "mode", "reasoning_log", "verdict", "scoreboard", "social_intel", "differences", "action_plan")
}

// SchemaFor returns a fresh copy of the response contract for mode.
func SchemaFor(mode analysis.Mode) (*ai.Schema, error) {
	switch mode {
	case analysis.ModeAudit:
		return auditSchema(), nil
	case analysis.ModeIdea:
		return ideaSchema(), nil
	case analysis.ModeCompare:
		return compareSchema(), nil
	}
	return nil, fmt.Errorf("%w: %q", analysis.ErrUnknownMode, mode)
}
