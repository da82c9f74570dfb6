package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/calvinalkan/pm/internal/item"
)

const day = 24 * time.Hour

func scores(reach, impact, confidence, effort int) *item.ScoreInputs {
	return &item.ScoreInputs{Reach: reach, Impact: impact, Confidence: confidence, Effort: effort}
}

// Default returns the built-in demo dataset. Creation times are relative to
// now, so the same now always yields the same items.
func Default(now time.Time) []item.Item {
	now = now.UTC().Truncate(time.Second)
	ago := func(days int) time.Time { return now.Add(-time.Duration(days) * day) }

	return []item.Item{
		{
			ID: "ID-01", Kind: item.KindIdea, Title: "Dark mode",
			Description: "Offer a dark color scheme across the web and mobile apps.",
			Status:      item.StatusApproved, Priority: item.PriorityHigh, Votes: 42, CreatedAt: ago(40),
			Tags: []string{"ux", "accessibility"}, Category: "ux", Owner: "maria",
			Scores: scores(8, 6, 8, 3), ValueScore: 78,
		},
		{
			ID: "ID-02", Kind: item.KindIdea, Title: "Slack notifications",
			Description: "Post status changes of followed items to a Slack channel.",
			Status:      item.StatusReviewing, Priority: item.PriorityMedium, Votes: 27, CreatedAt: ago(32),
			Tags: []string{"integrations"}, Category: "integrations", Owner: "dev",
			Scores: scores(6, 5, 7, 4), ValueScore: 61,
		},
		{
			ID: "ID-03", Kind: item.KindIdea, Title: "Bulk edit",
			Description: "Select several items and change status or owner at once.",
			Status:      item.StatusNew, Priority: item.PriorityLow, Votes: 9, CreatedAt: ago(12),
			Tags: []string{"productivity"}, Category: "core", Owner: "sam",
			Scores: scores(4, 4, 6, 5), ValueScore: 35,
		},
		{
			ID: "ID-04", Kind: item.KindIdea, Title: "AI summary of feedback",
			Description: "Cluster incoming feedback and summarize recurring themes.",
			Status:      item.StatusInDevelopment, Priority: item.PriorityCritical, Votes: 58, CreatedAt: ago(75),
			Tags: []string{"ai", "insights"}, Category: "insights", Owner: "maria",
			Scores: scores(9, 8, 5, 8), ValueScore: 70,
		},
		{
			ID: "ID-05", Kind: item.KindIdea, Title: "Gamified onboarding",
			Description: "Reward new users for completing setup steps.",
			Status:      item.StatusRejected, Priority: item.PriorityLow, Votes: 4, CreatedAt: ago(90),
			Tags: []string{"growth"}, Category: "growth", Owner: "lee",
			Scores: scores(5, 2, 3, 6), ValueScore: 12,
		},
		{
			ID: "FT-01", Kind: item.KindFeature, Title: "Single sign-on",
			Description: "SAML and OIDC login for enterprise workspaces.",
			Status:      item.StatusInProgress, Priority: item.PriorityCritical, Votes: 64, CreatedAt: ago(120),
			Tags: []string{"security", "enterprise"}, Category: "security", Owner: "alex",
			Scores: scores(7, 9, 9, 7), ValueScore: 88,
		},
		{
			ID: "FT-02", Kind: item.KindFeature, Title: "CSV export",
			Description: "Export any filtered list to CSV.",
			Status:      item.StatusReleased, Priority: item.PriorityMedium, Votes: 31, CreatedAt: ago(150),
			Tags: []string{"reporting"}, Category: "reporting", Owner: "sam",
			Scores: scores(6, 4, 10, 2), ValueScore: 92,
		},
		{
			ID: "FT-03", Kind: item.KindFeature, Title: "Roadmap timeline view",
			Description: "Gantt style timeline of planned features per quarter.",
			Status:      item.StatusPlanned, Priority: item.PriorityHigh, Votes: 38, CreatedAt: ago(45),
			Tags: []string{"planning", "ux"}, Category: "planning", Owner: "alex",
			Scores: scores(8, 7, 6, 6), ValueScore: 66,
		},
		{
			ID: "FT-04", Kind: item.KindFeature, Title: "Public API",
			Description: "REST API with personal access tokens.",
			Status:      item.StatusTesting, Priority: item.PriorityHigh, Votes: 45, CreatedAt: ago(100),
			Tags: []string{"integrations", "api"}, Category: "integrations", Owner: "dev",
			Scores: scores(7, 8, 8, 9), ValueScore: 59,
		},
		{
			ID: "FT-05", Kind: item.KindFeature, Title: "Custom fields",
			Description: "Let workspaces define their own item attributes.",
			Status:      item.StatusIdea, Priority: item.PriorityMedium, Votes: 22, CreatedAt: ago(8),
			Tags: []string{"core"}, Category: "core", Owner: "lee",
			Scores: scores(5, 6, 4, 8), ValueScore: 30,
		},
		{
			ID: "FB-01", Kind: item.KindFeedback, Title: "Export times out on large boards",
			Description: "CSV export of boards with more than 5k items never finishes.",
			Status:      item.StatusUnderReview, Priority: item.PriorityHigh, Votes: 17, CreatedAt: ago(5),
			Tags: []string{"performance", "reporting"}, Category: "bug", Owner: "acme-corp",
		},
		{
			ID: "FB-02", Kind: item.KindFeedback, Title: "Love the new dashboard",
			Description: "The redesigned dashboard makes weekly reviews much faster.",
			Status:      item.StatusClosed, Priority: item.PriorityLow, Votes: 6, CreatedAt: ago(20),
			Tags: []string{"ux"}, Category: "praise", Owner: "globex",
		},
		{
			ID: "FB-03", Kind: item.KindFeedback, Title: "Need dark mode for night shifts",
			Description: "Our support team works nights and the bright UI is tiring.",
			Status:      item.StatusPlanned, Priority: item.PriorityMedium, Votes: 29, CreatedAt: ago(50),
			Tags: []string{"ux", "accessibility"}, Category: "feature-request", Owner: "initech",
		},
		{
			ID: "FB-04", Kind: item.KindFeedback, Title: "Notifications arrive twice",
			Description: "Every status change email is delivered two times.",
			Status:      item.StatusResolved, Priority: item.PriorityCritical, Votes: 11, CreatedAt: ago(15),
			Tags: []string{"notifications"}, Category: "bug", Owner: "acme-corp",
		},
		{
			ID: "FB-05", Kind: item.KindFeedback, Title: "Allow SSO with Okta",
			Description: "We cannot roll out without Okta login.",
			Status:      item.StatusNew, Priority: item.PriorityHigh, Votes: 29, CreatedAt: ago(3),
			Tags: []string{"security", "enterprise"}, Category: "feature-request", Owner: "globex",
		},
	}
}

var (
	genTitles = []string{
		"Dark mode", "Slack sync", "CSV export", "Audit log", "Bulk edit", "Public API",
		"Custom fields", "Mobile app", "Webhooks", "Two-factor login", "Saved filters", "Email digest",
	}
	genTags       = []string{"ux", "api", "security", "performance", "reporting", "mobile", "growth"}
	genCategories = []string{"core", "ux", "integrations", "security", "reporting"}
	genOwners     = []string{"alex", "maria", "sam", "lee", "dev"}
)

// Generate returns n synthetic items drawn from rnd, created within the 180
// days before now. IDs carry the kind prefix and the 1-based position, e.g.
// "FT-000007".
func Generate(n int, rnd *rand.Rand, now time.Time) []item.Item {
	now = now.UTC().Truncate(time.Second)
	kinds := item.Kinds()
	priorities := item.Priorities()

	out := make([]item.Item, 0, n)

	for i := range n {
		kind := kinds[rnd.IntN(len(kinds))]
		statuses := item.Statuses(kind)
		title := genTitles[rnd.IntN(len(genTitles))]

		it := item.Item{
			ID:          fmt.Sprintf("%s-%06d", item.IDPrefix(kind), i+1),
			Kind:        kind,
			Title:       fmt.Sprintf("%s #%d", title, i+1),
			Description: fmt.Sprintf("Generated %s about %s.", kind, title),
			Status:      statuses[rnd.IntN(len(statuses))],
			Priority:    priorities[rnd.IntN(len(priorities))],
			Votes:       rnd.IntN(100),
			CreatedAt:   now.Add(-time.Duration(rnd.IntN(180*24*60)) * time.Minute),
			Tags:        []string{genTags[rnd.IntN(len(genTags))]},
			Category:    genCategories[rnd.IntN(len(genCategories))],
			Owner:       genOwners[rnd.IntN(len(genOwners))],
		}

		if kind != item.KindFeedback {
			it.Scores = scores(
				item.MinScore+rnd.IntN(item.MaxScore),
				item.MinScore+rnd.IntN(item.MaxScore),
				item.MinScore+rnd.IntN(item.MaxScore),
				item.MinScore+rnd.IntN(item.MaxScore),
			)
			it.ValueScore = float64(rnd.IntN(101))
		}

		out = append(out, it)
	}

	return out
}
