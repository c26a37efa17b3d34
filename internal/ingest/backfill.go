package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/resolve"
)

// BackfillStore lists records missing a domain and writes recomputed keys.
type BackfillStore interface {
	ListSourceAMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error)
	ListSourceBMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error)
	SetSourceADerived(ctx context.Context, id int64, domain, normalizedName string) error
	SetSourceBDomain(ctx context.Context, id int64, domain string) error
}

// BackfillResult counts records per source.
type BackfillResult struct {
	ScannedA int  `json:"scanned_a"`
	UpdatedA int  `json:"updated_a"`
	ScannedB int  `json:"scanned_b"`
	UpdatedB int  `json:"updated_b"`
	Failed   int  `json:"failed"`
	DryRun   bool `json:"dry_run"`
}

// Backfill recomputes normalized domains (and source-A normalized names) for
// records stored before their website could be parsed. Records whose
// website still yields no domain are left unchanged.
func Backfill(ctx context.Context, st BackfillStore, batchSize int, dryRun bool) (*BackfillResult, error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	res := &BackfillResult{DryRun: dryRun}
	log := zap.L().With(zap.Bool("dry_run", dryRun))

	var after int64
	for {
		page, err := st.ListSourceAMissingDomain(ctx, after, batchSize)
		if err != nil {
			return res, eris.Wrap(err, "ingest: backfill list source a")
		}
		for i := range page {
			a := &page[i]
			res.ScannedA++
			domain := resolve.NormalizeDomain(a.Website)
			if domain == "" {
				continue
			}
			if !dryRun {
				if err := st.SetSourceADerived(ctx, a.ID, domain, resolve.NormalizeName(a.Name)); err != nil {
					res.Failed++
					log.Warn("ingest: backfill source a failed", zap.Int64("id", a.ID), zap.Error(err))
					continue
				}
			}
			res.UpdatedA++
		}
		if len(page) < batchSize {
			break
		}
		after = page[len(page)-1].ID
	}

	after = 0
	for {
		page, err := st.ListSourceBMissingDomain(ctx, after, batchSize)
		if err != nil {
			return res, eris.Wrap(err, "ingest: backfill list source b")
		}
		for i := range page {
			b := &page[i]
			res.ScannedB++
			domain := resolve.NormalizeDomain(b.Website)
			if domain == "" {
				continue
			}
			if !dryRun {
				if err := st.SetSourceBDomain(ctx, b.ID, domain); err != nil {
					res.Failed++
					log.Warn("ingest: backfill source b failed", zap.Int64("id", b.ID), zap.Error(err))
					continue
				}
			}
			res.UpdatedB++
		}
		if len(page) < batchSize {
			break
		}
		after = page[len(page)-1].ID
	}

	log.Info("ingest: backfill complete",
		zap.Int("scanned_a", res.ScannedA),
		zap.Int("updated_a", res.UpdatedA),
		zap.Int("scanned_b", res.ScannedB),
		zap.Int("updated_b", res.UpdatedB),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
