package analysis

import (
	"encoding/json"
	"fmt"
)

// Result is the sum type over the three report shapes. Branch on the concrete
// type (*AuditResult, *IdeaResult, *CompareResult) with a type switch.
type Result interface {
	AnalysisMode() Mode
	// Title and Summary are the projections shown in the history panel.
	Title() string
	Summary() string
	isResult()
}

// DecodeResult picks the concrete shape from the "mode" tag.
func DecodeResult(data []byte) (Result, error) {
	var tag struct {
		Mode Mode `json:"mode"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	var r Result
	switch tag.Mode {
	case ModeAudit:
		r = &AuditResult{}
	case ModeIdea:
		r = &IdeaResult{}
	case ModeCompare:
		r = &CompareResult{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, tag.Mode)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ---- shared records ----

type AdPlatform string

const (
	AdGoogle    AdPlatform = "Google"
	AdFacebook  AdPlatform = "Facebook"
	AdLinkedIn  AdPlatform = "LinkedIn"
	AdInstagram AdPlatform = "Instagram"
)

func AdPlatforms() []string {
	return []string{string(AdGoogle), string(AdFacebook), string(AdLinkedIn), string(AdInstagram)}
}

type SocialPlatform string

const (
	SocialTwitter   SocialPlatform = "Twitter"
	SocialLinkedIn  SocialPlatform = "LinkedIn"
	SocialInstagram SocialPlatform = "Instagram"
)

func SocialPlatforms() []string {
	return []string{string(SocialTwitter), string(SocialLinkedIn), string(SocialInstagram)}
}

type AdCopy struct {
	Platform    AdPlatform `json:"platform"`
	Headline    string     `json:"headline"`
	PrimaryText string     `json:"primary_text"`
}

type SocialPost struct {
	Platform SocialPlatform `json:"platform"`
	Content  string         `json:"content"`
	Hashtags []string       `json:"hashtags"`
}

type EmailDraft struct {
	SubjectLine string `json:"subject_line"`
	PreviewText string `json:"preview_text"`
	Body        string `json:"body"`
}

// ---- audit ----

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityMajor    Severity = "Major"
	SeverityMinor    Severity = "Minor"
)

func Severities() []string {
	return []string{string(SeverityCritical), string(SeverityMajor), string(SeverityMinor)}
}

type Overview struct {
	PageIntent        string   `json:"page_intent"`
	TargetAudience    string   `json:"target_audience"`
	StrategicAnalysis string   `json:"strategic_analysis"`
	Recommendations   []string `json:"recommendations"`
}

type Gap struct {
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	Severity    Severity `json:"severity"`
}

type CTARewrite struct {
	Original  string `json:"original"`
	Improved  string `json:"improved"`
	Reasoning string `json:"reasoning"`
}

type ImprovedCopy struct {
	Headline         string       `json:"headline"`
	Subheadline      string       `json:"subheadline"`
	SupportingCopy   string       `json:"supporting_copy,omitempty"`
	CTAOptimizations []CTARewrite `json:"cta_optimizations"`
}

type SEOSuggestion struct {
	Current   string `json:"current"`
	Suggested string `json:"suggested"`
	Reasoning string `json:"reasoning"`
}

type KeywordSuggestion struct {
	Current   []string `json:"current"`
	Suggested []string `json:"suggested"`
	Reasoning string   `json:"reasoning"`
}

type SEO struct {
	TitleTag        SEOSuggestion     `json:"title_tag"`
	MetaDescription SEOSuggestion     `json:"meta_description"`
	FocusKeywords   KeywordSuggestion `json:"focus_keywords"`
}

// RadarPoint scores one competitive dimension on a 0-10 scale.
type RadarPoint struct {
	Dimension string  `json:"dimension"`
	Score     float64 `json:"score"`
	Fix       string  `json:"fix"`
}

type AuditResult struct {
	Mode            Mode         `json:"mode"`
	ReasoningLog    []string     `json:"reasoning_log"`
	Overview        Overview     `json:"overview"`
	MessagingGaps   []Gap        `json:"messaging_gaps"`
	ImprovedCopy    ImprovedCopy `json:"improved_copy"`
	SEO             SEO          `json:"seo"`
	AdConcepts      []AdCopy     `json:"ad_concepts"`
	SocialPosts     []SocialPost `json:"social_posts"`
	EmailDraft      EmailDraft   `json:"email_draft"`
	CompetitorRadar []RadarPoint `json:"competitor_radar"`
}

func (r *AuditResult) AnalysisMode() Mode { return r.Mode }

func (r *AuditResult) Title() string {
	if r.ImprovedCopy.Headline != "" {
		return r.ImprovedCopy.Headline
	}
	return "Page Audit"
}

func (r *AuditResult) Summary() string { return r.Overview.PageIntent }
func (*AuditResult) isResult()         {}

// ---- idea ----

type OpportunityScan struct {
	ProblemSummary string `json:"problem_summary"`
	WhoIsSuffering string `json:"who_is_suffering"`
	WhyNow         string `json:"why_now"`
}

type Persona struct {
	Role              string   `json:"role"`
	Situation         string   `json:"situation"`
	Pains             []string `json:"pains"`
	SuccessDefinition string   `json:"success_definition"`
}

type ICP struct {
	Summary string  `json:"summary"`
	Persona Persona `json:"persona"`
}

type Positioning struct {
	Statement string `json:"statement"`
	Narrative string `json:"narrative"`
}

type PageSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type HeroExample struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTA         string `json:"cta"`
}

type LandingPageStructure struct {
	Sections    []PageSection `json:"sections"`
	HeroExample HeroExample   `json:"hero_example"`
}

type ChannelStrategy struct {
	Channels  []string `json:"channels"`
	TestFirst string   `json:"test_first"`
	Reasoning string   `json:"reasoning"`
}

type LaunchStep struct {
	Day     float64 `json:"day"`
	Content string  `json:"content"`
}

type SampleAssets struct {
	Ads    []AdCopy     `json:"ads"`
	Social []SocialPost `json:"social"`
	Email  EmailDraft   `json:"email"`
}

type IdeaResult struct {
	Mode                 Mode                 `json:"mode"`
	ReasoningLog         []string             `json:"reasoning_log"`
	OpportunityScan      OpportunityScan      `json:"opportunity_scan"`
	ICP                  ICP                  `json:"icp"`
	Positioning          Positioning          `json:"positioning"`
	LandingPageStructure LandingPageStructure `json:"landing_page_structure"`
	ChannelStrategy      ChannelStrategy      `json:"channel_strategy"`
	LaunchPlan           []LaunchStep         `json:"launch_plan"`
	SampleAssets         SampleAssets         `json:"sample_assets"`
}

func (r *IdeaResult) AnalysisMode() Mode { return r.Mode }
func (r *IdeaResult) Title() string      { return "Idea Strategy" }
func (r *IdeaResult) Summary() string    { return r.OpportunityScan.ProblemSummary }
func (*IdeaResult) isResult()            {}

// ---- compare ----

type Winner string

const (
	WinnerA   Winner = "A"
	WinnerB   Winner = "B"
	WinnerTie Winner = "Tie"
)

func Winners() []string {
	return []string{string(WinnerA), string(WinnerB), string(WinnerTie)}
}

type ScoreboardItem struct {
	Category string  `json:"category"`
	ScoreA   float64 `json:"score_a"`
	ScoreB   float64 `json:"score_b"`
	Winner   Winner  `json:"winner"`
}

type SocialIntel struct {
	Summary           string   `json:"summary"`
	KeyChannels       []string `json:"key_channels"`
	SentimentAnalysis string   `json:"sentiment_analysis"`
}

type Differences struct {
	BBetterPoints []string `json:"b_better_points"`
	AEdgePoints   []string `json:"a_edge_points"`
}

type ActionPlan struct {
	BorrowFromB      []string `json:"borrow_from_b"`
	LeanIntoA        []string `json:"lean_into_a"`
	RevisedHeadlineA string   `json:"revised_headline_a,omitempty"`
}

type CompareResult struct {
	Mode         Mode             `json:"mode"`
	ReasoningLog []string         `json:"reasoning_log"`
	Verdict      string           `json:"verdict"`
	Scoreboard   []ScoreboardItem `json:"scoreboard"`
	SocialIntel  SocialIntel      `json:"social_intel"`
	Differences  Differences      `json:"differences"`
	ActionPlan   ActionPlan       `json:"action_plan"`
}

func (r *CompareResult) AnalysisMode() Mode { return r.Mode }
func (r *CompareResult) Title() string      { return "Comparison Analysis" }
func (r *CompareResult) Summary() string    { return r.Verdict }
func (*CompareResult) isResult()            {}
