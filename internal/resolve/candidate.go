package resolve

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/model"
)

// DefaultCandidateLimit caps how many source-A rows each lookup may return.
const DefaultCandidateLimit = 20

// CandidateStore is the read side of source A used for candidate search.
type CandidateStore interface {
	FindSourceAByDomain(ctx context.Context, domain string, limit int) ([]model.SourceRecordA, error)
	SearchSourceAByName(ctx context.Context, prefix string, limit int) ([]model.SourceRecordA, error)
}

// Match is the best candidate found for a source-B record. Candidate is nil
// when nothing was found.
type Match struct {
	Candidate *model.SourceRecordA
	Score     Score
}

// Finder locates the best source-A counterpart for a source-B record using
// a two-pass cascade:
//  1. Exact normalized-domain lookup (indexed, strongest signal)
//  2. Normalized-name prefix search, bounded by the candidate limit
type Finder struct {
	store  CandidateStore
	scorer *Scorer
	policy Policy
	limit  int
}

// NewFinder creates a candidate finder.
func NewFinder(store CandidateStore, scorer *Scorer, policy Policy, limit int) *Finder {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &Finder{store: store, scorer: scorer, policy: policy, limit: limit}
}

// FindBestMatch returns the highest-scoring source-A candidate for b. When
// the domain pass already clears the auto-merge threshold the name pass is
// skipped.
func (f *Finder) FindBestMatch(ctx context.Context, b *model.SourceRecordB) (Match, error) {
	var best Match

	consider := func(candidates []model.SourceRecordA) {
		for i := range candidates {
			s := f.scorer.Score(&candidates[i], b)
			if s.Composite > best.Score.Composite {
				best = Match{Candidate: &candidates[i], Score: s}
			}
		}
	}

	// Pass 1: exact domain.
	if b.NormalizedDomain != "" {
		candidates, err := f.store.FindSourceAByDomain(ctx, b.NormalizedDomain, f.limit)
		if err != nil {
			return Match{}, eris.Wrapf(err, "resolve: find by domain %s", b.NormalizedDomain)
		}
		consider(candidates)
		if best.Candidate != nil && best.Score.Composite >= f.policy.AutoMergeThreshold {
			zap.L().Debug("resolve: matched by domain",
				zap.String("domain", b.NormalizedDomain),
				zap.Int64("source_a_id", best.Candidate.ID),
				zap.Float64("score", best.Score.Composite),
			)
			return best, nil
		}
	}

	// Pass 2: name prefix.
	prefix := NamePrefix(b.Name)
	if prefix == "" {
		return best, nil
	}
	candidates, err := f.store.SearchSourceAByName(ctx, prefix, f.limit)
	if err != nil {
		return Match{}, eris.Wrapf(err, "resolve: search by name %q", prefix)
	}
	consider(candidates)

	return best, nil
}
