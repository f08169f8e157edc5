package decision

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churnguard/retention-engine/internal/domain"
)

func offerOfType(ot domain.OfferType) domain.OfferDefinition {
	return domain.OfferDefinition{
		ID:        "offer-" + string(ot),
		OfferType: ot,
		Title:     "Static title",
		IsActive:  true,
	}
}

// TestScoreTable verifies every normative row of the scoring policy:
// save odds, the revenue multiplier applied to MRR, and the priority score.
func TestScoreTable(t *testing.T) {
	const mrr = 100.0
	profile := domain.CustomerProfile{MRR: mrr, LastLoginDaysAgo: 21}

	tests := []struct {
		segment  domain.Segment
		offer    domain.OfferType
		saveOdds int
		revenue  float64
		priority int
	}{
		{domain.SegmentVIP, domain.OfferConcierge, 85, mrr * 12, 100},
		{domain.SegmentVIP, domain.OfferDiscount, 70, mrr * 6, 90},
		{domain.SegmentVIP, domain.OfferPause, 60, mrr * 3, 80},
		{domain.SegmentPriceSensitive, domain.OfferDiscount, 80, mrr * 4, 100},
		{domain.SegmentPriceSensitive, domain.OfferDowngrade, 75, mrr * 0.5 * 12, 95},
		{domain.SegmentPriceSensitive, domain.OfferPause, 65, mrr * 2, 85},
		{domain.SegmentLowUsage, domain.OfferPause, 90, mrr * 6, 100},
		{domain.SegmentLowUsage, domain.OfferConcierge, 70, mrr * 8, 90},
		{domain.SegmentLowUsage, domain.OfferDiscount, 60, mrr * 3, 75},
		{domain.SegmentShortTenure, domain.OfferConcierge, 85, mrr * 10, 100},
		{domain.SegmentShortTenure, domain.OfferFeedback, 45, mrr * 2, 95},
		{domain.SegmentShortTenure, domain.OfferDiscount, 70, mrr * 4, 85},
		{domain.SegmentDowngradeAvailable, domain.OfferDowngrade, 85, mrr * 0.6 * 12, 100},
		{domain.SegmentDowngradeAvailable, domain.OfferDiscount, 75, mrr * 5, 90},
		{domain.SegmentDowngradeAvailable, domain.OfferPause, 65, mrr * 3, 80},
		{domain.SegmentStandard, domain.OfferDiscount, 65, mrr * 4, 85},
		{domain.SegmentStandard, domain.OfferPause, 60, mrr * 3, 80},
		{domain.SegmentStandard, domain.OfferConcierge, 70, mrr * 6, 75},
		{domain.SegmentStandard, domain.OfferDowngrade, 55, mrr * 0.7 * 8, 70},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.segment, tt.offer), func(t *testing.T) {
			result := Score(offerOfType(tt.offer), profile, domain.CancellationContext{}, tt.segment)
			require.True(t, result.IsApplicable)
			assert.Equal(t, tt.saveOdds, result.SaveOdds)
			assert.InDelta(t, tt.revenue, result.ProjectedRevenue, 1e-9)
			assert.Equal(t, tt.priority, result.PriorityScore)
		})
	}
}

func TestScoreInapplicablePairs(t *testing.T) {
	profile := domain.CustomerProfile{MRR: 100}

	tests := []struct {
		segment domain.Segment
		offer   domain.OfferType
	}{
		{domain.SegmentVIP, domain.OfferDowngrade},
		{domain.SegmentVIP, domain.OfferFeedback},
		{domain.SegmentPriceSensitive, domain.OfferConcierge},
		{domain.SegmentPriceSensitive, domain.OfferFeedback},
		{domain.SegmentLowUsage, domain.OfferDowngrade},
		{domain.SegmentLowUsage, domain.OfferFeedback},
		{domain.SegmentShortTenure, domain.OfferPause},
		{domain.SegmentShortTenure, domain.OfferDowngrade},
		{domain.SegmentDowngradeAvailable, domain.OfferConcierge},
		{domain.SegmentDowngradeAvailable, domain.OfferFeedback},
		{domain.SegmentStandard, domain.OfferFeedback},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.segment, tt.offer), func(t *testing.T) {
			result := Score(offerOfType(tt.offer), profile, domain.CancellationContext{}, tt.segment)
			assert.False(t, result.IsApplicable)
		})
	}
}

func TestScoreGuardrailOverrides(t *testing.T) {
	profile := domain.CustomerProfile{MRR: 100, LastLoginDaysAgo: 42}

	t.Run("low_usage pause caps max usage at last login", func(t *testing.T) {
		r := Score(offerOfType(domain.OfferPause), profile, domain.CancellationContext{}, domain.SegmentLowUsage)
		require.True(t, r.IsApplicable)
		assert.Equal(t, 42, r.Guardrails.MaxUsage)
		assert.Equal(t, 0, r.Guardrails.MinTenureDays)
		assert.Equal(t, []string{"all"}, r.Guardrails.ApplicablePlans)
	})

	t.Run("vip concierge requires a week of tenure", func(t *testing.T) {
		r := Score(offerOfType(domain.OfferConcierge), profile, domain.CancellationContext{}, domain.SegmentVIP)
		require.True(t, r.IsApplicable)
		assert.Equal(t, 7, r.Guardrails.MinTenureDays)
		assert.Equal(t, []string{"all"}, r.Guardrails.ApplicablePlans)
	})

	t.Run("downgrade restricted to higher plans", func(t *testing.T) {
		r := Score(offerOfType(domain.OfferDowngrade), profile, domain.CancellationContext{}, domain.SegmentDowngradeAvailable)
		require.True(t, r.IsApplicable)
		assert.Equal(t, []string{"premium", "pro", "enterprise"}, r.Guardrails.ApplicablePlans)
	})

	t.Run("unlisted pairs get defaults", func(t *testing.T) {
		r := Score(offerOfType(domain.OfferDiscount), profile, domain.CancellationContext{}, domain.SegmentStandard)
		require.True(t, r.IsApplicable)
		assert.Equal(t, domain.DefaultGuardrails(), r.Guardrails)
	})
}

// TestScoreNonNegativity checks the bounds properties across the whole table
// for a range of MRR values.
func TestScoreNonNegativity(t *testing.T) {
	offerTypes := []domain.OfferType{
		domain.OfferPause, domain.OfferDiscount, domain.OfferDowngrade,
		domain.OfferConcierge, domain.OfferFeedback,
	}

	for _, mrr := range []float64{0, 0.01, 49.99, 500, 123456.78} {
		profile := domain.CustomerProfile{MRR: mrr}
		for _, seg := range domain.AllSegments {
			for _, ot := range offerTypes {
				r := Score(offerOfType(ot), profile, domain.CancellationContext{}, seg)
				if !r.IsApplicable {
					continue
				}
				assert.GreaterOrEqual(t, r.ProjectedRevenue, 0.0, "%s/%s mrr=%v", seg, ot, mrr)
				assert.GreaterOrEqual(t, r.SaveOdds, 0, "%s/%s", seg, ot)
				assert.LessOrEqual(t, r.SaveOdds, 100, "%s/%s", seg, ot)
			}
		}
	}
}
