package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rooklite/rook/internal/domain/analysis"
)

// renderResult prints a readable report for the terminal.
func renderResult(w io.Writer, res analysis.Result) error {
	p := &printer{w: w}
	p.heading(res.Title())
	if s := res.Summary(); s != "" {
		p.line(s)
	}

	switch r := res.(type) {
	case *analysis.AuditResult:
		renderAudit(p, r)
	case *analysis.IdeaResult:
		renderIdea(p, r)
	case *analysis.CompareResult:
		renderCompare(p, r)
	}
	return p.err
}

func renderAudit(p *printer, r *analysis.AuditResult) {
	p.section("Overview")
	p.field("Audience", r.Overview.TargetAudience)
	p.field("Analysis", r.Overview.StrategicAnalysis)
	p.bullets(r.Overview.Recommendations)

	p.section("Messaging gaps")
	for _, g := range r.MessagingGaps {
		p.line(fmt.Sprintf("[%s] %s: %s", g.Severity, g.Title, g.Explanation))
	}

	p.section("Improved copy")
	p.field("Headline", r.ImprovedCopy.Headline)
	p.field("Subheadline", r.ImprovedCopy.Subheadline)
	if r.ImprovedCopy.SupportingCopy != "" {
		p.field("Supporting", r.ImprovedCopy.SupportingCopy)
	}
	for _, c := range r.ImprovedCopy.CTAOptimizations {
		p.line(fmt.Sprintf("CTA %q -> %q (%s)", c.Original, c.Improved, c.Reasoning))
	}

	p.section("SEO")
	p.field("Title tag", r.SEO.TitleTag.Suggested)
	p.field("Meta description", r.SEO.MetaDescription.Suggested)
	p.field("Keywords", strings.Join(r.SEO.FocusKeywords.Suggested, ", "))

	p.section("Ads")
	for _, ad := range r.AdConcepts {
		p.line(fmt.Sprintf("%s: %s / %s", ad.Platform, ad.Headline, ad.PrimaryText))
	}
	renderSocial(p, r.SocialPosts)
	renderEmail(p, r.EmailDraft)

	p.section("Competitor radar")
	for _, pt := range r.CompetitorRadar {
		p.line(fmt.Sprintf("%-24s %4.1f  %s", pt.Dimension, pt.Score, pt.Fix))
	}
}

func renderIdea(p *printer, r *analysis.IdeaResult) {
	p.section("Opportunity")
	p.field("Who", r.OpportunityScan.WhoIsSuffering)
	p.field("Why now", r.OpportunityScan.WhyNow)

	p.section("Ideal customer")
	p.line(r.ICP.Summary)
	p.field("Role", r.ICP.Persona.Role)
	p.field("Situation", r.ICP.Persona.Situation)
	p.bullets(r.ICP.Persona.Pains)
	p.field("Success", r.ICP.Persona.SuccessDefinition)

	p.section("Positioning")
	p.line(r.Positioning.Statement)
	p.line(r.Positioning.Narrative)

	p.section("Landing page")
	hero := r.LandingPageStructure.HeroExample
	p.field("Hero", fmt.Sprintf("%s / %s [%s]", hero.Headline, hero.Subheadline, hero.CTA))
	for _, s := range r.LandingPageStructure.Sections {
		p.line(fmt.Sprintf("%s: %s", s.Title, s.Description))
	}

	p.section("Channels")
	p.field("Channels", strings.Join(r.ChannelStrategy.Channels, ", "))
	p.field("Test first", r.ChannelStrategy.TestFirst)
	p.field("Why", r.ChannelStrategy.Reasoning)

	p.section("Launch plan")
	for _, step := range r.LaunchPlan {
		p.line(fmt.Sprintf("Day %g: %s", step.Day, step.Content))
	}

	p.section("Ads")
	for _, ad := range r.SampleAssets.Ads {
		p.line(fmt.Sprintf("%s: %s / %s", ad.Platform, ad.Headline, ad.PrimaryText))
	}
	renderSocial(p, r.SampleAssets.Social)
	renderEmail(p, r.SampleAssets.Email)
}

func renderCompare(p *printer, r *analysis.CompareResult) {
	p.section("Scoreboard")
	for _, s := range r.Scoreboard {
		p.line(fmt.Sprintf("%-24s A %4.1f  B %4.1f  winner %s", s.Category, s.ScoreA, s.ScoreB, s.Winner))
	}

	p.section("Social intel")
	p.line(r.SocialIntel.Summary)
	p.field("Channels", strings.Join(r.SocialIntel.KeyChannels, ", "))
	p.field("Sentiment", r.SocialIntel.SentimentAnalysis)

	p.section("Where B is better")
	p.bullets(r.Differences.BBetterPoints)
	p.section("Where A has the edge")
	p.bullets(r.Differences.AEdgePoints)

	p.section("Action plan")
	p.line("Borrow from B:")
	p.bullets(r.ActionPlan.BorrowFromB)
	p.line("Lean into A:")
	p.bullets(r.ActionPlan.LeanIntoA)
	if r.ActionPlan.RevisedHeadlineA != "" {
		p.field("Revised headline", r.ActionPlan.RevisedHeadlineA)
	}
}

func renderSocial(p *printer, posts []analysis.SocialPost) {
	p.section("Social")
	for _, s := range posts {
		tags := ""
		if len(s.Hashtags) > 0 {
			tags = " " + strings.Join(s.Hashtags, " ")
		}
		p.line(fmt.Sprintf("%s: %s%s", s.Platform, s.Content, tags))
	}
}

func renderEmail(p *printer, e analysis.EmailDraft) {
	p.section("Email")
	p.field("Subject", e.SubjectLine)
	p.field("Preview", e.PreviewText)
	p.line(e.Body)
}

// printer remembers the first write error so render funcs stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, a ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

func (p *printer) heading(s string) {
	p.printf("%s\n%s\n", s, strings.Repeat("=", len(s)))
}

func (p *printer) section(s string) { p.printf("\n## %s\n", s) }

func (p *printer) line(s string) {
	if s != "" {
		p.printf("%s\n", s)
	}
}

func (p *printer) field(name, value string) { p.printf("%s: %s\n", name, value) }

func (p *printer) bullets(items []string) {
	for _, it := range items {
		p.printf("  - %s\n", it)
	}
}
