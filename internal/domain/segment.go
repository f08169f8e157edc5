package domain

// Segment is a mutually exclusive behavioral classification of a customer.
// Exactly one segment is assigned per decision request; SegmentStandard is
// the total-function fallback.
type Segment string

const (
	SegmentVIP                Segment = "vip"
	SegmentPriceSensitive     Segment = "price_sensitive"
	SegmentLowUsage           Segment = "low_usage"
	SegmentShortTenure        Segment = "short_tenure"
	SegmentDowngradeAvailable Segment = "downgrade_available"
	SegmentStandard           Segment = "standard"
)

// AllSegments lists every segment in classifier precedence order.
var AllSegments = []Segment{
	SegmentVIP,
	SegmentPriceSensitive,
	SegmentLowUsage,
	SegmentShortTenure,
	SegmentDowngradeAvailable,
	SegmentStandard,
}
