package company

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-resolver/internal/model"
)

// Strategy selects which source supplies a field when both may.
type Strategy string

const (
	// PreferA takes source A's value, falling back to B when A's is empty.
	PreferA Strategy = "prefer_a"
	// PreferB takes source B's value, falling back to A when B's is empty.
	PreferB Strategy = "prefer_b"
	// Longest takes the larger value (longer text or list). Ties go to A.
	Longest Strategy = "longest"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case PreferA, PreferB, Longest:
		return true
	}
	return false
}

// MergeRules maps every mergeable field to its strategy.
type MergeRules map[model.Field]Strategy

// DefaultMergeRules returns the standard rule table: A is authoritative for
// descriptive fields, B for funding and logos, founders take the fuller list.
func DefaultMergeRules() MergeRules {
	return MergeRules{
		model.FieldName:             PreferA,
		model.FieldWebsite:          PreferA,
		model.FieldDescription:      PreferA,
		model.FieldLongDescription:  PreferA,
		model.FieldIndustries:       PreferA,
		model.FieldSimilarCompanies: PreferA,
		model.FieldAcquired:         PreferA,
		model.FieldStockSymbol:      PreferA,
		model.FieldFounded:          PreferA,
		model.FieldFundingTotalUSD:  PreferB,
		model.FieldFundingRounds:    PreferB,
		model.FieldLogo:             PreferB,
		model.FieldFounders:         Longest,
	}
}

// ParseRules applies field -> strategy overrides (as read from config) on
// top of the defaults.
func ParseRules(overrides map[string]string) (MergeRules, error) {
	rules := DefaultMergeRules()
	known := make(map[model.Field]bool, len(model.AllFields))
	for _, f := range model.AllFields {
		known[f] = true
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		field := model.Field(strings.ToLower(strings.TrimSpace(k)))
		strategy := Strategy(strings.ToLower(strings.TrimSpace(overrides[k])))
		if !known[field] {
			return nil, eris.Errorf("company: unknown merge field %q", k)
		}
		if !strategy.Valid() {
			return nil, eris.Errorf("company: unknown merge strategy %q for field %s", overrides[k], k)
		}
		rules[field] = strategy
	}
	return rules, nil
}

func (r MergeRules) strategy(f model.Field) Strategy {
	if s, ok := r[f]; ok {
		return s
	}
	return PreferA
}
