package domain

// UserAnalysis is the diagnostic report attached to every decision response,
// independent of whether any offers applied.
type UserAnalysis struct {
	Segment             Segment  `json:"segment"`
	RiskFactors         []string `json:"risk_factors"`
	RetentionLikelihood int      `json:"retention_likelihood"`
	RecommendedApproach string   `json:"recommended_approach"`
	KeyInsights         []string `json:"key_insights"`
}
