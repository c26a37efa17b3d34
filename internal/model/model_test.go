package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		domain, a, b string
		want         string
	}{
		{"domain wins", "stripe.com", "https://a.example/s", "https://b.example/s", "stripe.com"},
		{"a url fallback", "", "https://a.example/s", "https://b.example/s", "a:https://a.example/s"},
		{"b url fallback", "", "", "https://b.example/s", "b:https://b.example/s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CompanyKey(tt.domain, tt.a, tt.b))
		})
	}
}

func TestHasSource(t *testing.T) {
	t.Parallel()

	c := &CanonicalCompany{Sources: []Source{SourceA, SourceB}}
	assert.True(t, c.HasSource(SourceA))
	assert.True(t, c.HasSource(SourceB))

	single := &CanonicalCompany{Sources: []Source{SourceB}}
	assert.False(t, single.HasSource(SourceA))
}

func TestShardKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme.com", (&SourceRecordB{URL: "https://b.example/acme", NormalizedDomain: "acme.com"}).ShardKey())
	assert.Equal(t, "b:https://b.example/acme", (&SourceRecordB{URL: "https://b.example/acme"}).ShardKey())
}

func TestReviewStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []ReviewStatus{ReviewPending, ReviewApproved, ReviewRejected} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ReviewStatus("").Valid())
	assert.False(t, ReviewStatus("maybe").Valid())
}

func TestAllFieldsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[Field]bool, len(AllFields))
	for _, f := range AllFields {
		assert.False(t, seen[f], "duplicate field %s", f)
		seen[f] = true
	}
	assert.Len(t, AllFields, 13)
}
