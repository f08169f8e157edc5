package decision

import (
	"strings"

	"github.com/churnguard/retention-engine/internal/domain"
)

// recommendedApproach is the playbook sentence per segment.
var recommendedApproach = map[domain.Segment]string{
	domain.SegmentVIP:                "White-glove outreach: route to a senior account manager for a personal retention call before showing self-serve offers.",
	domain.SegmentPriceSensitive:     "Lead with pricing relief: present the discount and downgrade paths before anything else.",
	domain.SegmentLowUsage:           "Re-engagement first: offer a pause and schedule a product walkthrough to rebuild the usage habit.",
	domain.SegmentShortTenure:        "Hands-on onboarding: pair concierge setup help with an explicit ask for early feedback.",
	domain.SegmentDowngradeAvailable: "Right-size the plan: offer a cheaper tier before the customer walks away entirely.",
	domain.SegmentStandard:           "Balanced retention: present the standard offer ladder and listen for the real objection.",
}

// Analyze derives the diagnostic report for a customer. It is independent of
// offer configuration, so it is populated even when no offers apply.
func Analyze(profile domain.CustomerProfile, ctx domain.CancellationContext) domain.UserAnalysis {
	segment := Classify(profile, ctx)
	intent := strings.ToLower(ctx.Intent)
	reason := strings.ToLower(ctx.CancellationReason)

	// Risk factors accumulate in a fixed order so reports are comparable
	// across customers.
	riskFactors := []string{}
	if profile.LastLoginDaysAgo > 30 {
		riskFactors = append(riskFactors, "Extended absence from platform")
	}
	if profile.TenureDays < 14 {
		riskFactors = append(riskFactors, "Very new customer - onboarding issues possible")
	}
	if profile.MRR < 50 {
		riskFactors = append(riskFactors, "Low revenue customer - price sensitive")
	}
	if strings.Contains(reason, "competitor") {
		riskFactors = append(riskFactors, "Competitive pressure")
	}
	if strings.Contains(intent, "immediate") {
		riskFactors = append(riskFactors, "Urgent cancellation intent")
	}

	likelihood := 50
	if profile.TenureDays > 90 {
		likelihood += 20
	}
	if profile.MRR > 200 {
		likelihood += 15
	}
	if profile.LastLoginDaysAgo < 7 {
		likelihood += 10
	}
	if profile.LastLoginDaysAgo > 30 {
		likelihood -= 25
	}
	if profile.TenureDays < 14 {
		likelihood -= 15
	}
	if strings.Contains(intent, "final") {
		likelihood -= 20
	}
	likelihood = clamp(likelihood, 10, 90)

	insights := []string{}
	if segment == domain.SegmentVIP {
		insights = append(insights,
			"High-value account - prioritize personal outreach",
			"Consider executive escalation if the first offer is declined",
		)
	}
	if profile.LastLoginDaysAgo > 14 {
		insights = append(insights, "Customer may need re-engagement and product education")
	}
	if profile.TenureDays < 30 {
		insights = append(insights, "Still in the onboarding window - early experience may be driving the cancellation")
	}
	if ctx.CancellationReason != "" {
		insights = append(insights, "Specific concern: "+ctx.CancellationReason)
	}

	return domain.UserAnalysis{
		Segment:             segment,
		RiskFactors:         riskFactors,
		RetentionLikelihood: likelihood,
		RecommendedApproach: recommendedApproach[segment],
		KeyInsights:         insights,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
