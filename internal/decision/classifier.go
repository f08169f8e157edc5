package decision

import (
	"strings"

	"github.com/churnguard/retention-engine/internal/domain"
)

// costKeywords trigger the price_sensitive segment when found in the
// cancellation intent or reason (case-insensitive substring match).
var costKeywords = []string{"price", "cost", "expensive"}

// downgradePlans are the plans with a cheaper tier to fall back to.
var downgradePlans = map[string]bool{
	"premium":    true,
	"pro":        true,
	"enterprise": true,
}

// Classify maps a customer profile and cancellation context to exactly one
// behavioral segment. Rules are evaluated in a fixed order and the first
// match wins: segments are mutually exclusive, so a $1000-MRR customer
// complaining about price is still vip, never price_sensitive.
func Classify(profile domain.CustomerProfile, ctx domain.CancellationContext) domain.Segment {
	switch {
	case profile.MRR >= 500:
		return domain.SegmentVIP
	case containsCostKeyword(ctx.Intent) || containsCostKeyword(ctx.CancellationReason):
		return domain.SegmentPriceSensitive
	case profile.LastLoginDaysAgo >= 14:
		return domain.SegmentLowUsage
	case profile.TenureDays < 30:
		return domain.SegmentShortTenure
	case downgradePlans[profile.PlanNormalized()]:
		return domain.SegmentDowngradeAvailable
	default:
		return domain.SegmentStandard
	}
}

func containsCostKeyword(s string) bool {
	if s == "" {
		return false
	}
	s = strings.ToLower(s)
	for _, kw := range costKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
