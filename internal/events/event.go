// Package events publishes golden-record and review-queue changes to an
// output stream.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-resolver/internal/model"
)

// Event types.
const (
	TypeCompanyUpserted = "company.upserted"
	TypeReviewUpserted  = "review.upserted"
)

// Event is a single change notification. Key is the partition key: the
// company key for golden records, the review item ID for review changes.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// CompanyUpserted builds the event for a golden-record upsert.
func CompanyUpserted(c *model.CanonicalCompany) (Event, error) {
	return newEvent(TypeCompanyUpserted, c.Key, c)
}

// ReviewUpserted builds the event for a review item insert, refresh or
// status change.
func ReviewUpserted(item *model.ReviewItem) (Event, error) {
	return newEvent(TypeReviewUpserted, strconv.FormatInt(item.ID, 10), item)
}

func newEvent(typ, key string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, eris.Wrapf(err, "events: marshal %s", typ)
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       typ,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}, nil
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
