package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-resolver/internal/events"
	"github.com/sells-group/company-resolver/internal/model"
)

func TestEnqueue_UpsertsByPair(t *testing.T) {
	st := newMemStore()
	pub := &recordingPublisher{}
	q := NewReviewQueue(st, NewMerger(st, nil, nil), pub)
	ctx := context.Background()

	a, b := fullA(), fullB()
	sig := model.Signals{Name: 1, Founded: 1, Founders: 1}

	first, err := q.Enqueue(ctx, a, b, 0.6, sig)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewPending, first.Status)
	assert.Equal(t, "Stripe", first.Evidence.NameA)
	assert.Equal(t, "Stripe Inc", first.Evidence.NameB)
	assert.Equal(t, "stripe.com", first.Evidence.DomainB)

	second, err := q.Enqueue(ctx, a, b, 0.7, sig)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, st.reviews, 1)
	assert.InDelta(t, 0.7, st.reviews[first.ID].Confidence, 1e-9)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.TypeReviewUpserted, pub.events[0].Type)
}

func TestEnqueue_KeepsReviewerDecision(t *testing.T) {
	st := newMemStore()
	q := NewReviewQueue(st, NewMerger(st, nil, nil), nil)
	ctx := context.Background()

	item, err := q.Enqueue(ctx, fullA(), fullB(), 0.6, model.Signals{})
	require.NoError(t, err)
	_, err = q.Reject(ctx, item.ID)
	require.NoError(t, err)

	again, err := q.Enqueue(ctx, fullA(), fullB(), 0.6, model.Signals{})
	require.NoError(t, err)
	assert.Equal(t, model.ReviewRejected, again.Status)
}

func TestApprove_MergesPair(t *testing.T) {
	st := newMemStore()
	a, b := fullA(), fullB()
	st.a[a.ID] = a
	st.b[b.ID] = b
	q := NewReviewQueue(st, NewMerger(st, nil, nil), nil)
	ctx := context.Background()

	item, err := q.Enqueue(ctx, a, b, 0.65, model.Signals{})
	require.NoError(t, err)

	approved, c, err := q.Approve(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReviewApproved, approved.Status)
	assert.InDelta(t, 0.65, c.MatchConfidence, 1e-9)
	assert.Equal(t, []model.Source{model.SourceA, model.SourceB}, c.Sources)
	assert.True(t, st.matched[b.ID])
	assert.Equal(t, model.ReviewApproved, st.reviews[item.ID].Status)
}

func TestApprove_MissingSourceRecords(t *testing.T) {
	st := newMemStore()
	q := NewReviewQueue(st, NewMerger(st, nil, nil), nil)
	ctx := context.Background()

	item, err := q.Enqueue(ctx, fullA(), fullB(), 0.6, model.Signals{})
	require.NoError(t, err)

	_, _, err = q.Approve(ctx, item.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source records missing")
	assert.Equal(t, model.ReviewPending, st.reviews[item.ID].Status)
}

func TestApprove_RefusesDecidedItem(t *testing.T) {
	st := newMemStore()
	a, b := fullA(), fullB()
	st.a[a.ID] = a
	st.b[b.ID] = b
	q := NewReviewQueue(st, NewMerger(st, nil, nil), nil)
	ctx := context.Background()

	item, err := q.Enqueue(ctx, a, b, 0.6, model.Signals{})
	require.NoError(t, err)
	_, err = q.Reject(ctx, item.ID)
	require.NoError(t, err)

	_, _, err = q.Approve(ctx, item.ID)
	require.ErrorIs(t, err, ErrReviewConflict)
	assert.Contains(t, err.Error(), "is rejected")
	assert.Empty(t, st.companies)
	assert.Equal(t, model.ReviewRejected, st.reviews[item.ID].Status)
}

func TestApprove_RefusesConsumedSourceB(t *testing.T) {
	st := newMemStore()
	a, b := fullA(), fullB()
	st.a[a.ID] = a
	st.b[b.ID] = b
	q := NewReviewQueue(st, NewMerger(st, nil, nil), nil)
	ctx := context.Background()

	item, err := q.Enqueue(ctx, a, b, 0.6, model.Signals{})
	require.NoError(t, err)

	// B became a single-source record after the item was queued.
	consumed := *b
	consumed.Matched = true
	st.b[b.ID] = &consumed

	_, _, err = q.Approve(ctx, item.ID)
	require.ErrorIs(t, err, ErrReviewConflict)
	assert.Contains(t, err.Error(), "already resolved")
	assert.Empty(t, st.companies)
	assert.Equal(t, model.ReviewPending, st.reviews[item.ID].Status)
}

func TestReviewQueue_NotFound(t *testing.T) {
	st := newMemStore()
	q := NewReviewQueue(st, NewMerger(st, nil, nil), nil)

	_, err := q.Reject(context.Background(), 404)
	require.ErrorIs(t, err, ErrReviewNotFound)

	_, _, err = q.Approve(context.Background(), 404)
	require.ErrorIs(t, err, ErrReviewNotFound)
}
