package decision

import (
	"github.com/churnguard/retention-engine/internal/domain"
)

// ScoreResult is the scorer's verdict for one offer under one segment.
type ScoreResult struct {
	IsApplicable     bool
	SaveOdds         int
	ProjectedRevenue float64
	PriorityScore    int
	Guardrails       domain.Guardrails
}

// scoreRule is one row of the scoring policy: the save-odds estimate, the
// projected-revenue multiplier applied to MRR, and the priority score for a
// (segment, offer type) pair. guardrails, when set, overrides the default
// guardrails for the pair; it receives the profile because one override
// (low_usage/pause) depends on the customer's own usage.
type scoreRule struct {
	saveOdds   int
	mrrFactor  float64
	priority   int
	guardrails func(domain.CustomerProfile) domain.Guardrails
}

// scoreTable is the complete scoring policy, kept as a flat data table so the
// whole policy can be read, diffed, and property-tested in one place. Pairs
// absent from the table are not applicable and never appear in a response.
//
// mrrFactor values written as products preserve the business formula: a
// downgrade keeps a fraction of MRR over a fixed month horizon.
var scoreTable = map[domain.Segment]map[domain.OfferType]scoreRule{
	domain.SegmentVIP: {
		domain.OfferConcierge: {saveOdds: 85, mrrFactor: 12, priority: 100, guardrails: vipConciergeGuardrails},
		domain.OfferDiscount:  {saveOdds: 70, mrrFactor: 6, priority: 90},
		domain.OfferPause:     {saveOdds: 60, mrrFactor: 3, priority: 80},
	},
	domain.SegmentPriceSensitive: {
		domain.OfferDiscount:  {saveOdds: 80, mrrFactor: 4, priority: 100},
		domain.OfferDowngrade: {saveOdds: 75, mrrFactor: 0.5 * 12, priority: 95},
		domain.OfferPause:     {saveOdds: 65, mrrFactor: 2, priority: 85},
	},
	domain.SegmentLowUsage: {
		domain.OfferPause:     {saveOdds: 90, mrrFactor: 6, priority: 100, guardrails: lowUsagePauseGuardrails},
		domain.OfferConcierge: {saveOdds: 70, mrrFactor: 8, priority: 90},
		domain.OfferDiscount:  {saveOdds: 60, mrrFactor: 3, priority: 75},
	},
	domain.SegmentShortTenure: {
		domain.OfferConcierge: {saveOdds: 85, mrrFactor: 10, priority: 100},
		domain.OfferFeedback:  {saveOdds: 45, mrrFactor: 2, priority: 95},
		domain.OfferDiscount:  {saveOdds: 70, mrrFactor: 4, priority: 85},
	},
	domain.SegmentDowngradeAvailable: {
		domain.OfferDowngrade: {saveOdds: 85, mrrFactor: 0.6 * 12, priority: 100, guardrails: downgradeGuardrails},
		domain.OfferDiscount:  {saveOdds: 75, mrrFactor: 5, priority: 90},
		domain.OfferPause:     {saveOdds: 65, mrrFactor: 3, priority: 80},
	},
	domain.SegmentStandard: {
		domain.OfferDiscount:  {saveOdds: 65, mrrFactor: 4, priority: 85},
		domain.OfferPause:     {saveOdds: 60, mrrFactor: 3, priority: 80},
		domain.OfferConcierge: {saveOdds: 70, mrrFactor: 6, priority: 75},
		domain.OfferDowngrade: {saveOdds: 55, mrrFactor: 0.7 * 8, priority: 70},
	},
}

func vipConciergeGuardrails(domain.CustomerProfile) domain.Guardrails {
	g := domain.DefaultGuardrails()
	g.MinTenureDays = 7
	return g
}

func lowUsagePauseGuardrails(p domain.CustomerProfile) domain.Guardrails {
	g := domain.DefaultGuardrails()
	g.MaxUsage = p.LastLoginDaysAgo
	return g
}

func downgradeGuardrails(domain.CustomerProfile) domain.Guardrails {
	g := domain.DefaultGuardrails()
	g.ApplicablePlans = []string{"premium", "pro", "enterprise"}
	return g
}

// Score evaluates one offer definition for a customer under an
// already-classified segment. Pairs without a table row are not applicable.
// Guardrails are computed and returned but never enforced here; the caller
// owns cooldown and usage-cap enforcement.
func Score(offer domain.OfferDefinition, profile domain.CustomerProfile, _ domain.CancellationContext, segment domain.Segment) ScoreResult {
	rules, ok := scoreTable[segment]
	if !ok {
		return ScoreResult{}
	}
	rule, ok := rules[offer.OfferType]
	if !ok {
		return ScoreResult{}
	}

	guardrails := domain.DefaultGuardrails()
	if rule.guardrails != nil {
		guardrails = rule.guardrails(profile)
	}

	return ScoreResult{
		IsApplicable:     true,
		SaveOdds:         rule.saveOdds,
		ProjectedRevenue: profile.MRR * rule.mrrFactor,
		PriorityScore:    rule.priority,
		Guardrails:       guardrails,
	}
}

// RuleFor exposes a single table row for diagnostics and tests. The second
// return is false when the pair is not applicable.
func RuleFor(segment domain.Segment, offerType domain.OfferType) (saveOdds int, mrrFactor float64, priority int, ok bool) {
	rule, found := scoreTable[segment][offerType]
	if !found {
		return 0, 0, 0, false
	}
	return rule.saveOdds, rule.mrrFactor, rule.priority, true
}
