// Package store persists raw source records, golden records and the review
// queue. SQLiteStore and PostgresStore share one schema shape.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-resolver/internal/model"
)

// CompanyFilter specifies criteria for listing golden records.
type CompanyFilter struct {
	Source model.Source `json:"source,omitempty"`
	Search string       `json:"search,omitempty"` // case-insensitive name substring
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

// ReviewFilter specifies criteria for listing review items.
type ReviewFilter struct {
	Status model.ReviewStatus `json:"status,omitempty"`
	Limit  int                `json:"limit,omitempty"`
	Offset int                `json:"offset,omitempty"`
}

const defaultListLimit = 100

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for entity resolution. Get*
// lookups return (nil, nil) when nothing matches.
type Store interface {
	// Source A
	UpsertSourceA(ctx context.Context, a *model.SourceRecordA) error
	GetSourceA(ctx context.Context, id int64) (*model.SourceRecordA, error)
	FindSourceAByDomain(ctx context.Context, domain string, limit int) ([]model.SourceRecordA, error)
	SearchSourceAByName(ctx context.Context, prefix string, limit int) ([]model.SourceRecordA, error)
	ListSourceAMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error)
	SetSourceADerived(ctx context.Context, id int64, domain, normalizedName string) error
	ListOrphanA(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error)

	// Source B
	UpsertSourceB(ctx context.Context, b *model.SourceRecordB) error
	GetSourceB(ctx context.Context, id int64) (*model.SourceRecordB, error)
	ListUnmatchedB(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error)
	ListSourceBMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error)
	SetSourceBDomain(ctx context.Context, id int64, domain string) error
	MarkBMatched(ctx context.Context, id int64) error

	// Golden records
	UpsertCompany(ctx context.Context, c *model.CanonicalCompany) error
	GetCompanyByKey(ctx context.Context, key string) (*model.CanonicalCompany, error)
	ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.CanonicalCompany, error)

	// Review queue
	UpsertReviewItem(ctx context.Context, item *model.ReviewItem) error
	GetReviewItem(ctx context.Context, id int64) (*model.ReviewItem, error)
	GetReviewItemByPair(ctx context.Context, sourceAID, sourceBID int64) (*model.ReviewItem, error)
	ListReviewItems(ctx context.Context, filter ReviewFilter) ([]model.ReviewItem, error)
	SetReviewStatus(ctx context.Context, id int64, status model.ReviewStatus) error

	// Lifecycle
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
