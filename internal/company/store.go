// Package company builds golden records from matched source records and
// manages the human review queue for ambiguous pairs.
package company

import (
	"context"

	"github.com/sells-group/company-resolver/internal/model"
)

// GoldenStore persists golden records and consumes source-B rows.
type GoldenStore interface {
	UpsertCompany(ctx context.Context, c *model.CanonicalCompany) error
	MarkBMatched(ctx context.Context, id int64) error
}

// ReviewStore persists review items and resolves the records they point at.
type ReviewStore interface {
	UpsertReviewItem(ctx context.Context, item *model.ReviewItem) error
	GetReviewItem(ctx context.Context, id int64) (*model.ReviewItem, error)
	SetReviewStatus(ctx context.Context, id int64, status model.ReviewStatus) error
	GetSourceA(ctx context.Context, id int64) (*model.SourceRecordA, error)
	GetSourceB(ctx context.Context, id int64) (*model.SourceRecordB, error)
}
