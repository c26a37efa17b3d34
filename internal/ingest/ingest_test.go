package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "ingest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

const sourceAJSONL = `{"url":"https://a.example/stripe","name":"Stripe, Inc.","website":"https://www.stripe.com/about","founders":["Patrick Collison","John Collison"],"founded":"2010"}

{"url":"https://a.example/broken","name":
{"name":"No URL"}
{"url":"https://a.example/acme","name":"Acme GmbH","website":"acme.de","normalized_domain":"spoofed.com"}
`

func TestNew_UnknownSource(t *testing.T) {
	_, err := New(newTestStore(t), model.Source("C"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestIngester_SourceA(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	in, err := New(st, model.SourceA, false)
	require.NoError(t, err)

	res, err := in.Run(ctx, strings.NewReader(sourceAJSONL))
	require.NoError(t, err)
	assert.Equal(t, &Result{Read: 4, Upserted: 2, Failed: 2, Skipped: 1}, res)

	got, err := st.FindSourceAByDomain(ctx, "stripe.com", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "stripe", got[0].NormalizedName)
	assert.Equal(t, []string{"Patrick Collison", "John Collison"}, got[0].Founders)

	acme, err := st.FindSourceAByDomain(ctx, "acme.de", 10)
	require.NoError(t, err)
	require.Len(t, acme, 1)
	assert.Equal(t, "acme", acme[0].NormalizedName)

	spoofed, err := st.FindSourceAByDomain(ctx, "spoofed.com", 10)
	require.NoError(t, err)
	assert.Empty(t, spoofed)
}

func TestIngester_SourceB_ResetsMatched(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	in, err := New(st, model.SourceB, false)
	require.NoError(t, err)

	line := `{"url":"https://b.example/stripe","name":"Stripe","website":"stripe.com","matched":true,"funding_rounds":[{"round_type":"Series A","amount_usd":2000000}]}`
	res, err := in.Run(ctx, strings.NewReader(line))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Upserted)

	unmatched, err := st.ListUnmatchedB(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, unmatched, 1)
	assert.Equal(t, "stripe.com", unmatched[0].NormalizedDomain)
	require.Len(t, unmatched[0].FundingRounds, 1)
	assert.Equal(t, "Series A", unmatched[0].FundingRounds[0].RoundType)

	require.NoError(t, st.MarkBMatched(ctx, unmatched[0].ID))

	// Re-scraping the same URL makes it eligible again.
	_, err = in.Run(ctx, strings.NewReader(line))
	require.NoError(t, err)
	unmatched, err = st.ListUnmatchedB(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, unmatched, 1)
}

func TestIngester_DryRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	in, err := New(st, model.SourceA, true)
	require.NoError(t, err)

	res, err := in.Run(ctx, strings.NewReader(sourceAJSONL))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 2, res.Failed)

	got, err := st.FindSourceAByDomain(ctx, "stripe.com", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type failingStore struct{}

func (failingStore) UpsertSourceA(context.Context, *model.SourceRecordA) error {
	return errors.New("disk full")
}

func (failingStore) UpsertSourceB(context.Context, *model.SourceRecordB) error {
	return errors.New("disk full")
}

func TestIngester_StoreFailuresAreCounted(t *testing.T) {
	in, err := New(failingStore{}, model.SourceB, false)
	require.NoError(t, err)

	res, err := in.Run(context.Background(), strings.NewReader(
		`{"url":"https://b.example/1","name":"One"}`+"\n"+`{"url":"https://b.example/2","name":"Two"}`+"\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Read)
	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, res.Upserted)
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestIngester_ReadError(t *testing.T) {
	in, err := New(failingStore{}, model.SourceA, false)
	require.NoError(t, err)

	_, err = in.Run(context.Background(), errReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest: read line 1")
}

func TestIngester_Cancelled(t *testing.T) {
	in, err := New(failingStore{}, model.SourceA, false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = in.Run(ctx, strings.NewReader(sourceAJSONL))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepare(t *testing.T) {
	a := &model.SourceRecordA{ID: 9, URL: " https://a.example/x ", Name: "Société Générale S.A.", Website: "http://www.socgen.co.uk"}
	PrepareA(a)
	assert.Zero(t, a.ID)
	assert.Equal(t, "https://a.example/x", a.URL)
	assert.Equal(t, "socgen.co.uk", a.NormalizedDomain)
	assert.Equal(t, "societe generale", a.NormalizedName)

	b := &model.SourceRecordB{ID: 3, URL: "https://b.example/x", Website: "192.168.0.1", Matched: true}
	PrepareB(b)
	assert.Zero(t, b.ID)
	assert.Empty(t, b.NormalizedDomain)
	assert.False(t, b.Matched)
}
