package decision

import (
	"fmt"
	"math"
	"strings"

	"github.com/osteele/liquid"

	"github.com/churnguard/retention-engine/internal/domain"
)

// ContentRenderer renders segment-specific offer copy using Liquid templates.
// Interpolation is restricted to a fixed, typed set of profile fields — no
// free-form evaluation. Rendering never fails: a missing template or a render
// error falls back to the offer's static title and description.
type ContentRenderer struct {
	engine    *liquid.Engine
	templates map[templateKey]compiledTemplate
}

type templateKey struct {
	segment domain.Segment
	offer   domain.OfferType
}

type templateSource struct {
	title string
	body  string
}

type compiledTemplate struct {
	title *liquid.Template
	body  *liquid.Template
}

// NewContentRenderer compiles all offer templates. Templates that fail to
// compile are dropped and their pairs fall back to static content.
func NewContentRenderer() *ContentRenderer {
	engine := liquid.NewEngine()

	// Currency filter: {{ mrr | money }} -> "$499" or "$499.50"
	engine.RegisterFilter("money", func(value interface{}) string {
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		if f == math.Trunc(f) {
			return fmt.Sprintf("$%.0f", f)
		}
		return fmt.Sprintf("$%.2f", f)
	})

	r := &ContentRenderer{
		engine:    engine,
		templates: make(map[templateKey]compiledTemplate, len(offerTemplates)),
	}

	for key, src := range offerTemplates {
		title, err := engine.ParseString(src.title)
		if err != nil {
			continue
		}
		body, err := engine.ParseString(src.body)
		if err != nil {
			continue
		}
		r.templates[key] = compiledTemplate{title: title, body: body}
	}

	return r
}

// Render produces the title and copy for an offer shown to a customer in the
// given segment. Deterministic; never returns an error.
func (r *ContentRenderer) Render(offer domain.OfferDefinition, profile domain.CustomerProfile, segment domain.Segment) (title, body string) {
	tpl, ok := r.templates[templateKey{segment: segment, offer: offer.OfferType}]
	if !ok {
		return offer.Title, offer.Description
	}

	bindings := profileBindings(profile)

	renderedTitle, err := tpl.title.RenderString(bindings)
	if err != nil {
		return offer.Title, offer.Description
	}
	renderedBody, err := tpl.body.RenderString(bindings)
	if err != nil {
		return offer.Title, offer.Description
	}

	renderedTitle = strings.TrimSpace(renderedTitle)
	renderedBody = strings.TrimSpace(renderedBody)
	if renderedTitle == "" {
		renderedTitle = offer.Title
	}
	if renderedBody == "" {
		renderedBody = offer.Description
	}
	return renderedTitle, renderedBody
}

// profileBindings is the complete, closed set of values templates may
// reference.
func profileBindings(p domain.CustomerProfile) map[string]interface{} {
	return map[string]interface{}{
		"mrr":                 p.MRR,
		"half_mrr":            math.Round(p.MRR * 0.5),
		"tenure_days":         p.TenureDays,
		"last_login_days_ago": p.LastLoginDaysAgo,
		"plan":                p.PlanNormalized(),
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// offerTemplates holds the copy for every (segment, offer type) pair the
// scoring table knows. Pairs without an entry render the offer's static
// fields unchanged.
var offerTemplates = map[templateKey]templateSource{
	// --- vip ---
	{domain.SegmentVIP, domain.OfferConcierge}: {
		title: "Your dedicated success manager",
		body: "After {{ tenure_days }} days with us you've built real momentum. " +
			"Before anything changes, let a senior success manager review your account " +
			"one-on-one and fix whatever isn't working — at no cost to you.",
	},
	{domain.SegmentVIP, domain.OfferDiscount}: {
		title: "A loyalty rate for our top customers",
		body: "We'd rather invest in you than lose you. Keep your plan at a reduced " +
			"rate for the next six months and put part of that {{ mrr | money }}/month " +
			"back into your budget.",
	},
	{domain.SegmentVIP, domain.OfferPause}: {
		title: "Take a break, keep everything",
		body: "Pause billing without losing any data or configuration. Your account " +
			"picks up exactly where you left it whenever you're ready.",
	},

	// --- price_sensitive ---
	{domain.SegmentPriceSensitive, domain.OfferDiscount}: {
		title: "50% off for the next 3 months",
		body: "We hear you on price. Stay with us at {{ half_mrr | money }}/month " +
			"instead of {{ mrr | money }} for the next three months while you decide " +
			"if the value is there.",
	},
	{domain.SegmentPriceSensitive, domain.OfferDowngrade}: {
		title: "Switch to a plan that fits your budget",
		body: "Keep the features you actually use at roughly half of what you pay " +
			"today. You can move back up any time — no setup lost.",
	},
	{domain.SegmentPriceSensitive, domain.OfferPause}: {
		title: "Pause your subscription, not your progress",
		body: "Stop paying {{ mrr | money }}/month for now. We'll hold your account " +
			"and all your data until you're ready to come back.",
	},

	// --- low_usage ---
	{domain.SegmentLowUsage, domain.OfferPause}: {
		title: "Haven't logged in lately? Pause instead",
		body: "It's been {{ last_login_days_ago }} days since your last visit. Pause " +
			"your subscription free of charge and restart the moment you need us again.",
	},
	{domain.SegmentLowUsage, domain.OfferConcierge}: {
		title: "Let us show you what you're missing",
		body: "A 30-minute session with our team can rebuild your workflow around " +
			"the features that matter to you. No charge, no obligation.",
	},
	{domain.SegmentLowUsage, domain.OfferDiscount}: {
		title: "Come back at a lower rate",
		body: "Ease back in with a reduced rate on your {{ mrr | money }}/month plan " +
			"while you find your rhythm again.",
	},

	// --- short_tenure ---
	{domain.SegmentShortTenure, domain.OfferConcierge}: {
		title: "Free onboarding session with our team",
		body: "You've only had {{ tenure_days }} days with us — most customers hit " +
			"their stride after a guided setup. Let us walk you through it personally.",
	},
	{domain.SegmentShortTenure, domain.OfferFeedback}: {
		title: "Tell us what went wrong",
		body: "Something clearly didn't click in your first weeks. Share what " +
			"happened and we'll credit a month back while we make it right.",
	},
	{domain.SegmentShortTenure, domain.OfferDiscount}: {
		title: "Give us another month, on us",
		body: "Stay past your first month at a reduced rate while you finish " +
			"setting things up. Cancel any time if it still isn't a fit.",
	},

	// --- downgrade_available ---
	{domain.SegmentDowngradeAvailable, domain.OfferDowngrade}: {
		title: "Move to a lighter plan",
		body: "Your {{ plan }} plan may be more than you need right now. Step down " +
			"a tier, keep your data and history, and upgrade again whenever it makes sense.",
	},
	{domain.SegmentDowngradeAvailable, domain.OfferDiscount}: {
		title: "Keep your current plan for less",
		body: "Stay on {{ plan }} with a discount on your {{ mrr | money }}/month " +
			"rate for the next few months.",
	},
	{domain.SegmentDowngradeAvailable, domain.OfferPause}: {
		title: "Press pause instead of cancelling",
		body: "Suspend billing and keep everything in place. Reactivate in one " +
			"click when you're ready.",
	},

	// --- standard ---
	{domain.SegmentStandard, domain.OfferDiscount}: {
		title: "A discount to stay with us",
		body: "Before you go: keep your plan at a reduced rate for the next three " +
			"months. That's {{ half_mrr | money }}/month in savings.",
	},
	{domain.SegmentStandard, domain.OfferPause}: {
		title: "Pause your account for free",
		body: "Take a break without losing anything. Your data, settings, and " +
			"history stay safe until you return.",
	},
	{domain.SegmentStandard, domain.OfferConcierge}: {
		title: "Talk to a real person first",
		body: "Fifteen minutes with our team might solve what's pushing you out " +
			"the door. Grab a slot — it's free.",
	},
	{domain.SegmentStandard, domain.OfferDowngrade}: {
		title: "Try a smaller plan",
		body: "Drop to a lighter tier instead of leaving. Most of what you use " +
			"today is still included.",
	},
}
