package company

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/events"
	"github.com/sells-group/company-resolver/internal/model"
)

// ErrReviewNotFound is returned when a review item ID does not exist.
var ErrReviewNotFound = eris.New("company: review item not found")

// ErrReviewConflict is returned when approving an item that is no longer
// pending or whose source B record was already resolved elsewhere.
var ErrReviewConflict = eris.New("company: review item cannot be approved")

// ReviewQueue records ambiguous pairs and applies reviewer decisions.
type ReviewQueue struct {
	store  ReviewStore
	merger *Merger
	events events.Publisher
}

// NewReviewQueue creates a ReviewQueue. The merger is used by Approve.
func NewReviewQueue(store ReviewStore, merger *Merger, pub events.Publisher) *ReviewQueue {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ReviewQueue{store: store, merger: merger, events: pub}
}

// Enqueue upserts the review item for (a, b). Confidence, signals and
// evidence are refreshed; a reviewer decision already on the pair is kept.
func (q *ReviewQueue) Enqueue(ctx context.Context, a *model.SourceRecordA, b *model.SourceRecordB, confidence float64, signals model.Signals) (*model.ReviewItem, error) {
	item := &model.ReviewItem{
		SourceAID:  a.ID,
		SourceBID:  b.ID,
		Confidence: confidence,
		Signals:    signals,
		Evidence: model.ReviewEvidence{
			DomainA:   a.NormalizedDomain,
			DomainB:   b.NormalizedDomain,
			NameA:     a.Name,
			NameB:     b.Name,
			FoundersA: a.Founders,
			FoundersB: b.Founders,
		},
		Status: model.ReviewPending,
	}
	if err := q.store.UpsertReviewItem(ctx, item); err != nil {
		return nil, eris.Wrapf(err, "company: enqueue review (%d, %d)", a.ID, b.ID)
	}
	publish(ctx, q.events, events.ReviewUpserted, item)

	zap.L().Debug("company: queued for review",
		zap.Int64("review_id", item.ID),
		zap.Int64("source_a_id", a.ID),
		zap.Int64("source_b_id", b.ID),
		zap.Float64("confidence", confidence),
		zap.String("status", string(item.Status)),
	)
	return item, nil
}

// Get returns the review item or ErrReviewNotFound.
func (q *ReviewQueue) Get(ctx context.Context, id int64) (*model.ReviewItem, error) {
	item, err := q.store.GetReviewItem(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "company: get review %d", id)
	}
	if item == nil {
		return nil, eris.Wrapf(ErrReviewNotFound, "id %d", id)
	}
	return item, nil
}

// Approve merges the pair with its stored confidence and marks the item
// approved. Only pending items whose B record is still unmatched can be
// approved.
func (q *ReviewQueue) Approve(ctx context.Context, id int64) (*model.ReviewItem, *model.CanonicalCompany, error) {
	item, err := q.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if item.Status != model.ReviewPending {
		return nil, nil, eris.Wrapf(ErrReviewConflict, "review %d is %s", id, item.Status)
	}

	a, err := q.store.GetSourceA(ctx, item.SourceAID)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "company: approve %d: load source a", id)
	}
	b, err := q.store.GetSourceB(ctx, item.SourceBID)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "company: approve %d: load source b", id)
	}
	if a == nil || b == nil {
		return nil, nil, eris.Errorf("company: approve %d: source records missing", id)
	}
	if b.Matched {
		return nil, nil, eris.Wrapf(ErrReviewConflict, "review %d: source b %d already resolved", id, b.ID)
	}

	c, err := q.merger.Merge(ctx, a, b, item.Confidence)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "company: approve %d", id)
	}
	item, err = q.setStatus(ctx, item, model.ReviewApproved)
	if err != nil {
		return nil, nil, err
	}
	return item, c, nil
}

// Reject marks the item rejected. Later batches treat the pair as no match.
func (q *ReviewQueue) Reject(ctx context.Context, id int64) (*model.ReviewItem, error) {
	item, err := q.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return q.setStatus(ctx, item, model.ReviewRejected)
}

func (q *ReviewQueue) setStatus(ctx context.Context, item *model.ReviewItem, status model.ReviewStatus) (*model.ReviewItem, error) {
	if err := q.store.SetReviewStatus(ctx, item.ID, status); err != nil {
		return nil, eris.Wrapf(err, "company: set review %d %s", item.ID, status)
	}
	item.Status = status
	publish(ctx, q.events, events.ReviewUpserted, item)

	zap.L().Info("company: review decided",
		zap.Int64("review_id", item.ID),
		zap.String("status", string(status)),
	)
	return item, nil
}
