package prompt

import (
	"fmt"

	"github.com/rooklite/rook/internal/domain/analysis"
)

// Demo returns sample input for mode so a user can try the tool without
// writing copy first.
func Demo(mode analysis.Mode) (analysis.Input, error) {
	switch mode {
	case analysis.ModeAudit:
		return analysis.Input{PrimaryText: demoAudit}, nil
	case analysis.ModeIdea:
		return analysis.Input{PrimaryText: demoIdea}, nil
	case analysis.ModeCompare:
		return analysis.Input{PrimaryText: demoCompareA, SecondaryText: demoCompareB}, nil
	}
	return analysis.Input{}, fmt.Errorf("%w: %q", analysis.ErrUnknownMode, mode)
}

const demoAudit = `Product: "DevStream"
Type: SaaS Project Management Tool for Developers

Landing Page Copy:
Welcome to DevStream. The best tool for coding teams.
We have features like boards and charts.
It is easy to track your bugs here.
Our pricing is very affordable at $10/user.
Sign up today to get started.
We integrate with GitHub and stuff.
Teams love us because we are simple.
Stop missing deadlines.`

const demoIdea = `Idea: "PlantPal"
Concept: An AI-powered mobile app that identifies houseplant diseases from photos and sets up automatic watering reminders based on local humidity and plant type.
Target: Urban millennials who kill their plants but want a green apartment.
Monetization: $5/month subscription for unlimited diagnoses.`

const demoCompareA = `Product: "TaskFlow" (My Product)
Copy: Manage your tasks simply. Drag and drop interface. Good for small teams. $10/month. We have a mobile app.`

const demoCompareB = `Product: "Asana" (Competitor)
Copy: The #1 AI-driven work management platform. Streamline workflows, automate repetitive tasks, and see project progress in real-time. Trusted by 80% of Fortune 100. Enterprise-grade security.`
