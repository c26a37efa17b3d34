package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Decide(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		score float64
		want  Decision
	}{
		{1.0, DecisionMerge},
		{0.80, DecisionMerge},
		{0.79999, DecisionReview},
		{0.50, DecisionReview},
		{0.49999, DecisionSingleSource},
		{0.0, DecisionSingleSource},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Decide(tt.score), "score %v", tt.score)
	}
}

func TestPolicy_DecideBoundarySums(t *testing.T) {
	p := DefaultPolicy()
	// Domain + name lands exactly on the merge threshold.
	assert.Equal(t, DecisionMerge, p.Decide(Composite(signals(1, 1, 0, 0))))
	// Domain alone lands exactly on the review threshold.
	assert.Equal(t, DecisionReview, p.Decide(Composite(signals(1, 0, 0, 0))))
	// Everything except domain cannot reach review.
	assert.Equal(t, DecisionSingleSource, p.Decide(Composite(signals(0, 1, 1, 0.9))))
}

func TestPolicy_Custom(t *testing.T) {
	p := Policy{AutoMergeThreshold: 0.9, ReviewThreshold: 0.3}
	assert.Equal(t, DecisionReview, p.Decide(0.85))
	assert.Equal(t, DecisionReview, p.Decide(0.3))
	assert.Equal(t, DecisionSingleSource, p.Decide(0.29))
}
