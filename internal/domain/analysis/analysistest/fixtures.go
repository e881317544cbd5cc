// Package analysistest holds canned model responses shared by tests.
package analysistest

import (
	"github.com/rooklite/rook/internal/domain/analysis"
)

const AuditJSON = `{
  "mode": "audit",
  "reasoning_log": ["Read the hero copy", "Compared claims to developer expectations"],
  "overview": {
    "page_intent": "Convert engineering leads into DevStream trial users",
    "target_audience": "Small software teams",
    "strategic_analysis": "The copy lists features without outcomes.",
    "recommendations": ["Lead with the deadline pain", "Show the GitHub integration"]
  },
  "messaging_gaps": [
    {"title": "No differentiation", "explanation": "Every PM tool claims to be simple.", "severity": "Critical"},
    {"title": "Vague integrations", "explanation": "'GitHub and stuff' undermines trust.", "severity": "Minor"}
  ],
  "improved_copy": {
    "headline": "Ship on time without leaving GitHub",
    "subheadline": "DevStream turns pull requests into a live delivery plan.",
    "cta_optimizations": [
      {"original": "Sign up today", "improved": "Start a free 14-day sprint", "reasoning": "Specific and low risk"}
    ]
  },
  "seo": {
    "title_tag": {"current": "DevStream", "suggested": "DevStream | Project tracking for dev teams", "reasoning": "Adds the category keyword"},
    "meta_description": {"current": "", "suggested": "Track bugs and sprints where your code lives.", "reasoning": "Missing today"},
    "focus_keywords": {"current": ["dev tool"], "suggested": ["developer project management", "bug tracking"], "reasoning": "Higher intent"}
  },
  "ad_concepts": [
    {"platform": "LinkedIn", "headline": "Stop missing deadlines", "primary_text": "Plan sprints from your pull requests."}
  ],
  "social_posts": [
    {"platform": "Twitter", "content": "Your backlog lives in GitHub. So should your plan.", "hashtags": ["devtools", "agile"]}
  ],
  "email_draft": {"subject_line": "Your sprint, on autopilot", "preview_text": "See how DevStream plans for you", "body": "Hi there..."},
  "competitor_radar": [
    {"dimension": "Clarity", "score": 3, "fix": "State the outcome in the headline"},
    {"dimension": "Trust", "score": 5.5, "fix": "Add customer logos"}
  ]
}`

const IdeaJSON = `{
  "mode": "idea",
  "reasoning_log": ["Identified the plant-care pain"],
  "opportunity_scan": {"problem_summary": "Urban renters kill houseplants", "who_is_suffering": "Millennials in apartments", "why_now": "Phone cameras and cheap vision models"},
  "icp": {
    "summary": "Busy renters who want a green home",
    "persona": {"role": "Product designer", "situation": "Travels often", "pains": ["Forgets watering", "Cannot diagnose disease"], "success_definition": "Plants survive a full year"}
  },
  "positioning": {"statement": "The plant doctor in your pocket", "narrative": "Snap, diagnose, relax."},
  "landing_page_structure": {
    "sections": [{"title": "Hero", "description": "Photo-to-diagnosis demo"}],
    "hero_example": {"headline": "Never kill a plant again", "subheadline": "AI diagnosis in seconds", "cta": "Scan your first plant"}
  },
  "channel_strategy": {"channels": ["Instagram", "TikTok"], "test_first": "Instagram", "reasoning": "Visual before/after content"},
  "launch_plan": [{"day": 1, "content": "Teaser reel"}, {"day": 7, "content": "Launch giveaway"}],
  "sample_assets": {
    "ads": [{"platform": "Instagram", "headline": "Sad plant?", "primary_text": "Snap a photo and find out why."}],
    "social": [{"platform": "Instagram", "content": "Before and after", "hashtags": ["plantsofinstagram"]}],
    "email": {"subject_line": "Your plants called", "preview_text": "They need help", "body": "Meet PlantPal."}
  }
}`

const CompareJSON = `{
  "mode": "compare",
  "reasoning_log": ["Compared positioning", "Searched social presence"],
  "verdict": "Asana wins on authority; TaskFlow can win on simplicity for small teams.",
  "scoreboard": [
    {"category": "Clarity", "score_a": 7, "score_b": 6, "winner": "A"},
    {"category": "Authority", "score_a": 2, "score_b": 9, "winner": "B"},
    {"category": "Pricing", "score_a": 6, "score_b": 6, "winner": "Tie"}
  ],
  "social_intel": {"summary": "Asana posts daily on LinkedIn.", "key_channels": ["LinkedIn", "YouTube"], "sentiment_analysis": "Mostly positive, some complexity complaints"},
  "differences": {"b_better_points": ["Social proof"], "a_edge_points": ["Lower learning curve"]},
  "action_plan": {"borrow_from_b": ["Add customer logos"], "lean_into_a": ["Own 'set up in 5 minutes'"], "revised_headline_a": "Task management your team learns in 5 minutes"}
}`

const DevStreamInput = `Product: "DevStream"
Type: SaaS Project Management Tool for Developers

Landing Page Copy:
Welcome to DevStream. The best tool for coding teams.`

// Audit decodes AuditJSON.
func Audit() *analysis.AuditResult { return mustDecode(AuditJSON).(*analysis.AuditResult) }

// Idea decodes IdeaJSON.
func Idea() *analysis.IdeaResult { return mustDecode(IdeaJSON).(*analysis.IdeaResult) }

// Compare decodes CompareJSON.
func Compare() *analysis.CompareResult { return mustDecode(CompareJSON).(*analysis.CompareResult) }

// JSONFor returns the canned response for a mode.
func JSONFor(mode analysis.Mode) string {
	switch mode {
	case analysis.ModeIdea:
		return IdeaJSON
	case analysis.ModeCompare:
		return CompareJSON
	default:
		return AuditJSON
	}
}

func mustDecode(s string) analysis.Result {
	r, err := analysis.DecodeResult([]byte(s))
	if err != nil {
		panic(err)
	}
	return r
}
