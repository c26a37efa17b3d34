package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-resolver/internal/model"
)

func signals(domain, name, founded, founders float64) model.Signals {
	return model.Signals{Domain: domain, Name: name, Founded: founded, Founders: founders}
}

type fakeCandidates struct {
	byDomain  map[string][]model.SourceRecordA
	byName    []model.SourceRecordA
	domainErr error
	nameErr   error

	domainCalls int
	nameCalls   int
	lastPrefix  string
	lastLimit   int
}

func (f *fakeCandidates) FindSourceAByDomain(_ context.Context, domain string, limit int) ([]model.SourceRecordA, error) {
	f.domainCalls++
	f.lastLimit = limit
	if f.domainErr != nil {
		return nil, f.domainErr
	}
	return f.byDomain[domain], nil
}

func (f *fakeCandidates) SearchSourceAByName(_ context.Context, prefix string, limit int) ([]model.SourceRecordA, error) {
	f.nameCalls++
	f.lastPrefix = prefix
	f.lastLimit = limit
	if f.nameErr != nil {
		return nil, f.nameErr
	}
	return f.byName, nil
}

func newTestFinder(store CandidateStore) *Finder {
	return NewFinder(store, NewScorer(true), DefaultPolicy(), 0)
}

func TestFinder_DomainHitSkipsNameSearch(t *testing.T) {
	store := &fakeCandidates{byDomain: map[string][]model.SourceRecordA{
		"stripe.com": {{ID: 1, Name: "Stripe Inc", NormalizedDomain: "stripe.com"}},
	}}
	b := &model.SourceRecordB{ID: 10, Name: "Stripe", NormalizedDomain: "stripe.com"}

	m, err := newTestFinder(store).FindBestMatch(context.Background(), b)
	require.NoError(t, err)
	require.NotNil(t, m.Candidate)
	assert.Equal(t, int64(1), m.Candidate.ID)
	assert.Equal(t, 0.8, m.Score.Composite)
	assert.Equal(t, 0, store.nameCalls)
	assert.Equal(t, DefaultCandidateLimit, store.lastLimit)
}

func TestFinder_WeakDomainFallsBackToName(t *testing.T) {
	store := &fakeCandidates{
		byDomain: map[string][]model.SourceRecordA{
			"acme.com": {{ID: 1, Name: "Totally Different", NormalizedDomain: "acme.com"}},
		},
		byName: []model.SourceRecordA{
			{ID: 2, Name: "Acme Robotics Inc", Founded: "2012", Founders: []string{"Jane Roe"}},
		},
	}
	b := &model.SourceRecordB{ID: 10, Name: "Acme Robotics", NormalizedDomain: "acme.com", Founded: "2012", Founders: []string{"jane roe"}}

	m, err := newTestFinder(store).FindBestMatch(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 1, store.nameCalls)
	assert.Equal(t, "acme robotics", store.lastPrefix)

	// The domain candidate scores 0.5 plus a little name similarity; the
	// name candidate scores 0.3 + 0.1 + 0.1 = 0.5. The domain one wins.
	require.NotNil(t, m.Candidate)
	assert.Equal(t, int64(1), m.Candidate.ID)
	assert.Greater(t, m.Score.Composite, 0.5)
	assert.Less(t, m.Score.Composite, 0.8)
}

func TestFinder_NameOnly(t *testing.T) {
	store := &fakeCandidates{byName: []model.SourceRecordA{
		{ID: 5, Name: "Globex"},
		{ID: 6, Name: "Acme Inc", Founded: "2001"},
	}}
	b := &model.SourceRecordB{ID: 10, Name: "ACME", Founded: "2001"}

	m, err := newTestFinder(store).FindBestMatch(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 0, store.domainCalls)
	require.NotNil(t, m.Candidate)
	assert.Equal(t, int64(6), m.Candidate.ID)
	assert.Equal(t, signals(0, 1, 1, 0), m.Score.Signals)
	assert.Equal(t, 0.4, m.Score.Composite)
}

func TestFinder_TieKeepsFirst(t *testing.T) {
	store := &fakeCandidates{byName: []model.SourceRecordA{
		{ID: 7, Name: "Acme"},
		{ID: 8, Name: "Acme LLC"},
	}}
	b := &model.SourceRecordB{ID: 10, Name: "Acme"}

	m, err := newTestFinder(store).FindBestMatch(context.Background(), b)
	require.NoError(t, err)
	require.NotNil(t, m.Candidate)
	assert.Equal(t, int64(7), m.Candidate.ID)
}

func TestFinder_NoCandidates(t *testing.T) {
	store := &fakeCandidates{}
	b := &model.SourceRecordB{ID: 10, Name: "Inc"}

	m, err := newTestFinder(store).FindBestMatch(context.Background(), b)
	require.NoError(t, err)
	assert.Nil(t, m.Candidate)
	assert.Equal(t, 0.0, m.Score.Composite)
	assert.Equal(t, 0, store.domainCalls)
	assert.Equal(t, 0, store.nameCalls)
}

func TestFinder_ZeroScoringCandidateIgnored(t *testing.T) {
	store := &fakeCandidates{byName: []model.SourceRecordA{{ID: 3, Name: "Zzyzx"}}}
	b := &model.SourceRecordB{ID: 10, Name: "Acme"}

	m, err := NewFinder(store, NewScorer(false), DefaultPolicy(), 5).FindBestMatch(context.Background(), b)
	require.NoError(t, err)
	assert.Nil(t, m.Candidate)
	assert.Equal(t, 5, store.lastLimit)
}

func TestFinder_Errors(t *testing.T) {
	b := &model.SourceRecordB{ID: 10, Name: "Acme", NormalizedDomain: "acme.com"}

	_, err := newTestFinder(&fakeCandidates{domainErr: errors.New("boom")}).FindBestMatch(context.Background(), b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find by domain acme.com")

	_, err = newTestFinder(&fakeCandidates{nameErr: errors.New("boom")}).FindBestMatch(context.Background(), b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search by name")
}
