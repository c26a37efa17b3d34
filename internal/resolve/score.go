package resolve

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/sells-group/company-resolver/internal/model"
)

// Signal weights. They sum to 1.0, so the composite stays in [0,1].
const (
	WeightDomain   = 0.50
	WeightName     = 0.30
	WeightFounded  = 0.10
	WeightFounders = 0.10
)

// Score is a composite confidence plus the signals that produced it.
type Score struct {
	Composite float64       `json:"composite"`
	Signals   model.Signals `json:"signals"`
}

// NameSimilarityFunc compares two raw company names and returns a value in [0,1].
type NameSimilarityFunc func(a, b string) float64

// Scorer computes similarity between a source-A and a source-B record.
type Scorer struct {
	nameSimilarity NameSimilarityFunc
}

// NewScorer creates a scorer. With fuzzy disabled, name similarity falls
// back to exact equality after normalization.
func NewScorer(fuzzy bool) *Scorer {
	if fuzzy {
		return &Scorer{nameSimilarity: TokenSortSimilarity}
	}
	return &Scorer{nameSimilarity: ExactNameSimilarity}
}

// Score computes every signal and their weighted sum.
func (s *Scorer) Score(a *model.SourceRecordA, b *model.SourceRecordB) Score {
	sig := model.Signals{
		Domain:   DomainSignal(a.NormalizedDomain, b.NormalizedDomain),
		Name:     s.nameSimilarity(a.Name, b.Name),
		Founded:  FoundedSignal(a.Founded, b.Founded),
		Founders: FounderOverlap(a.Founders, b.Founders),
	}
	return Score{Composite: Composite(sig), Signals: sig}
}

// Composite returns the weighted sum of sig, clamped to [0,1] and rounded
// to 9 decimals so that boundary sums such as 0.5+0.3 compare exactly.
func Composite(sig model.Signals) float64 {
	c := sig.Domain*WeightDomain +
		sig.Name*WeightName +
		sig.Founded*WeightFounded +
		sig.Founders*WeightFounders
	c = math.Round(c*1e9) / 1e9
	return math.Max(0, math.Min(1, c))
}

// DomainSignal is 1.0 iff both domains are known and equal. Near-miss
// domains (acme.com vs acme.io) earn nothing.
func DomainSignal(a, b string) float64 {
	if a != "" && b != "" && a == b {
		return 1.0
	}
	return 0.0
}

// TokenSortSimilarity compares normalized names independent of token order:
// tokens are sorted, rejoined and compared by normalized edit distance.
func TokenSortSimilarity(a, b string) float64 {
	na, nb := sortedTokens(NormalizeName(a)), sortedTokens(NormalizeName(b))
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}
	return levenshtein.Similarity(na, nb, nil)
}

// ExactNameSimilarity is the fallback when fuzzy matching is disabled:
// 1.0 if the normalized names are equal and non-empty, else 0.0.
func ExactNameSimilarity(a, b string) float64 {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na != "" && na == nb {
		return 1.0
	}
	return 0.0
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// FoundedSignal is 1.0 when both texts carry the same founding year.
// A missing or malformed year contributes 0.0.
func FoundedSignal(a, b string) float64 {
	ya, yb := ExtractYear(a), ExtractYear(b)
	if ya != "" && ya == yb {
		return 1.0
	}
	return 0.0
}

// FounderOverlap is the Jaccard similarity of the two founder sets after
// name normalization. Empty on either side yields 0.0.
func FounderOverlap(a, b []string) float64 {
	setA, setB := founderSet(a), founderSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	inter := 0
	for f := range setA {
		if setB[f] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func founderSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if norm := NormalizeName(n); norm != "" {
			set[norm] = true
		}
	}
	return set
}
