package decision

import (
	"sort"

	"github.com/churnguard/retention-engine/internal/domain"
)

// Engine bundles the stateless pipeline stages with the compiled content
// templates. One Engine serves all requests concurrently; it holds no
// per-request state.
type Engine struct {
	renderer *ContentRenderer
}

// NewEngine creates a decision engine with all content templates compiled.
func NewEngine() *Engine {
	return &Engine{renderer: NewContentRenderer()}
}

// Outcome is the full result of one pipeline evaluation.
type Outcome struct {
	Segment  domain.Segment
	Ranked   []domain.RankedOffer
	Analysis domain.UserAnalysis
}

// Evaluate runs the whole pipeline: classify, score every offer, render copy
// for the applicable ones, rank, and attach the independent analysis. The
// returned ranked list is complete (untruncated); the orchestrator applies
// the top-N cut for the primary response.
func (e *Engine) Evaluate(offers []domain.OfferDefinition, profile domain.CustomerProfile, ctx domain.CancellationContext) Outcome {
	segment := Classify(profile, ctx)
	return Outcome{
		Segment:  segment,
		Ranked:   e.Rank(offers, profile, ctx, segment),
		Analysis: Analyze(profile, ctx),
	}
}

// Rank scores every active offer under the segment, drops inapplicable ones,
// renders copy for the survivors, and sorts them. Zero applicable offers is a
// valid outcome and yields an empty (non-nil) slice.
//
// Sort order: priority score descending, then the offer's static priority
// ascending (lower ordinal shown first), then ID ascending so the order is
// fully deterministic.
func (e *Engine) Rank(offers []domain.OfferDefinition, profile domain.CustomerProfile, ctx domain.CancellationContext, segment domain.Segment) []domain.RankedOffer {
	ranked := make([]domain.RankedOffer, 0, len(offers))

	for _, offer := range offers {
		if !offer.IsActive {
			continue
		}
		score := Score(offer, profile, ctx, segment)
		if !score.IsApplicable {
			continue
		}

		title, body := e.renderer.Render(offer, profile, segment)

		ranked = append(ranked, domain.RankedOffer{
			ID:                    offer.ID,
			Type:                  offer.OfferType,
			Title:                 title,
			Copy:                  body,
			ExpectedSaveOdds:      score.SaveOdds,
			ProjectedRevenueSaved: score.ProjectedRevenue,
			Guardrails:            score.Guardrails,
			PriorityScore:         score.PriorityScore,
			Config:                offer.Config,
			StaticPriority:        offer.Priority,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.StaticPriority != b.StaticPriority {
			return a.StaticPriority < b.StaticPriority
		}
		return a.ID < b.ID
	})

	return ranked
}
