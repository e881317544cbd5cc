package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rooklite/rook/internal/domain/ai"
	"github.com/rooklite/rook/internal/domain/analysis"
)

// Build assembles the ordered request segments and contract for mode.
//
// Compare mode groups context per variant: A text, A media, B text, B media,
// then the task list. Audit and idea put media first, followed by a single
// text segment carrying input and instructions.
func Build(mode analysis.Mode, in analysis.Input, allowSearch bool) (ai.StructuredRequest, error) {
	schema, err := SchemaFor(mode)
	if err != nil {
		return ai.StructuredRequest{}, err
	}
	req := ai.StructuredRequest{
		System: SystemInstruction(),
		Schema: schema,
		Search: allowSearch && WantsSearch(mode, in),
	}

	switch mode {
	case analysis.ModeCompare:
		mediaA, err := mediaParts(in.MediaA)
		if err != nil {
			return ai.StructuredRequest{}, fmt.Errorf("variant A media: %w", err)
		}
		mediaB, err := mediaParts(in.MediaB)
		if err != nil {
			return ai.StructuredRequest{}, fmt.Errorf("variant B media: %w", err)
		}
		req.Parts = append(req.Parts, ai.TextPart(fmt.Sprintf("VARIANT A (My Product): %q%s", in.PrimaryText, mediaNote(in.MediaA, "Variant A"))))
		req.Parts = append(req.Parts, mediaA...)
		req.Parts = append(req.Parts, ai.TextPart(fmt.Sprintf("VARIANT B (Competitor(s)): %q%s", in.SecondaryText, mediaNote(in.MediaB, "Variant B"))))
		req.Parts = append(req.Parts, mediaB...)
		req.Parts = append(req.Parts, ai.TextPart(compareTasks))
	default:
		media, err := mediaParts(in.MediaA)
		if err != nil {
			return ai.StructuredRequest{}, err
		}
		req.Parts = append(req.Parts, media...)
		req.Parts = append(req.Parts, ai.TextPart(singleTemplate(mode, in)))
	}
	return req, nil
}

const compareTasks = `Compare these two marketing assets.
NOTE: Variant B may contain multiple competitors. Analyze them as a group or the strongest among them.

TASKS:
1. Provide a verdict and 0-10 scoreboard.
2. USE GOOGLE SEARCH to research the social media presence (LinkedIn, Twitter, etc.) of the brands mentioned in the inputs.
3. Summarize the social intelligence found (channels, sentiment).
4. Analyze differences and create an action plan.
Set "mode" to "compare".`

func singleTemplate(mode analysis.Mode, in analysis.Input) string {
	note := mediaNote(in.MediaA, "The input")
	if mode == analysis.ModeIdea {
		return fmt.Sprintf(`Act as a GTM strategist. I have a product idea but no website.
IDEA INPUT: %q%s
Create an opportunity scan, ICP, positioning, landing page structure, channel strategy, and launch plan.
Use Google Search to validate market trends if specific industries are mentioned.
Set "mode" to "idea".`, in.PrimaryText, note)
	}
	return fmt.Sprintf(`Perform a deep conversion audit on the following landing page content.
INPUT: %q%s
Provide strategic reasoning, find gaps (with severity), rewrite copy, suggest SEO changes, and suggest ads.
If the input contains URLs, use Google Search to gather context about the brand if needed.
Set "mode" to "audit".`, in.PrimaryText, note)
}

// mediaNote tells the model how to read the attachments that precede or
// follow a text segment.
func mediaNote(items []analysis.MediaItem, owner string) string {
	var images, videos int
	for _, m := range items {
		if m.Kind == analysis.MediaVideo {
			videos++
		} else {
			images++
		}
	}
	var b strings.Builder
	if images > 0 {
		fmt.Fprintf(&b, "\nNOTE: %s includes %d attached image(s). Treat them as screenshots or creatives: evaluate visual hierarchy, legibility and how well they support the copy.", owner, images)
	}
	if videos > 0 {
		fmt.Fprintf(&b, "\nNOTE: %s includes %d attached video(s). Evaluate the hook in the first seconds, pacing, on-screen text and the call to action.", owner, videos)
	}
	return b.String()
}

func mediaParts(items []analysis.MediaItem) ([]ai.Part, error) {
	parts := make([]ai.Part, 0, len(items))
	for _, m := range items {
		mimeType, data, err := analysis.DecodeDataURI(m.Data)
		if err != nil {
			return nil, fmt.Errorf("media %s: %w", m.ID, err)
		}
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		parts = append(parts, ai.BlobPart(mimeType, data))
	}
	return parts, nil
}

var (
	urlPattern    = regexp.MustCompile(`(?i)\bhttps?://\S+`)
	domainPattern = regexp.MustCompile(`(?i)\b[a-z0-9][a-z0-9-]*\.(com|io|ai|co|net|org|app|dev|so|xyz|me)\b`)
	quotedPattern = regexp.MustCompile(`"[^"\n]{2,60}"`)
)

// WantsSearch decides whether the model may consult live search. Idea and
// compare always reference the outside market. An audit only does when the
// copy names something findable: a URL, a domain, or a quoted brand.
func WantsSearch(mode analysis.Mode, in analysis.Input) bool {
	if mode != analysis.ModeAudit {
		return true
	}
	text := in.PrimaryText
	return urlPattern.MatchString(text) || domainPattern.MatchString(text) || quotedPattern.MatchString(text)
}
