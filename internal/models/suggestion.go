package models

// Suggestion reasons emitted when no quantity can be recommended.
const (
	ReasonNoHistory     = "sem_historico"
	ReasonLowConfidence = "baixa_confianca"
)

// Suggestion sources describing where the recommended base quantity came from.
const (
	SourceMedianDirect = "median_quantity_direct"
	SourceAvgFallback  = "avg_quantity_fallback"
	SourceMinFix       = "min_quantity_fix"
)

// Suggestion annotates an OrderItem with a recommended quantity derived from
// the customer's order history. It is a side channel for the caller; it is
// never written back to the historical record.
type Suggestion struct {
	HasSuggestion                 bool    `json:"has_suggestion"`
	Reason                        string  `json:"reason,omitempty"`
	Confidence                    float64 `json:"confidence"`
	BasedOnSamples                int     `json:"based_on_samples"`
	RecentSamples                 int     `json:"recent_samples"`
	SuggestedBaseQuantity         float64 `json:"suggested_base_quantity"`
	SuggestedAdjustmentPercentage float64 `json:"suggested_adjustment_percentage"`
	MealsExpected                 int     `json:"meals_expected"`
	Source                        string  `json:"source,omitempty"`
	AdjustmentApplied             float64 `json:"adjustment_applied,omitempty"`
	// ScalingRatio records target/historical meal counts when they differ.
	// Informational under the fill-empty policy; applied under override-all.
	ScalingRatio float64 `json:"scaling_ratio,omitempty"`
}
