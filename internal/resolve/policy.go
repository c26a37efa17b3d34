package resolve

// Default decision thresholds.
const (
	DefaultAutoMergeThreshold = 0.80
	DefaultReviewThreshold    = 0.50
)

// Decision is the routing outcome for a scored candidate.
type Decision string

const (
	DecisionMerge        Decision = "merge"
	DecisionReview       Decision = "review"
	DecisionSingleSource Decision = "single_source"
)

// Policy maps a composite score to a Decision. Each band is inclusive on
// its lower bound.
type Policy struct {
	AutoMergeThreshold float64
	ReviewThreshold    float64
}

// DefaultPolicy returns the 0.80 / 0.50 policy.
func DefaultPolicy() Policy {
	return Policy{
		AutoMergeThreshold: DefaultAutoMergeThreshold,
		ReviewThreshold:    DefaultReviewThreshold,
	}
}

// Decide routes score to merge, review or single-source creation.
func (p Policy) Decide(score float64) Decision {
	switch {
	case score >= p.AutoMergeThreshold:
		return DecisionMerge
	case score >= p.ReviewThreshold:
		return DecisionReview
	default:
		return DecisionSingleSource
	}
}
