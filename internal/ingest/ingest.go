// Package ingest loads scraped source records into the store and keeps
// their derived matching keys current.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/resolve"
)

// Store is the write side used by ingestion.
type Store interface {
	UpsertSourceA(ctx context.Context, a *model.SourceRecordA) error
	UpsertSourceB(ctx context.Context, b *model.SourceRecordB) error
}

// Result counts ingestion outcomes.
type Result struct {
	Read     int `json:"read"`
	Upserted int `json:"upserted"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"` // blank lines
}

// Ingester upserts JSONL records for one source.
type Ingester struct {
	store  Store
	source model.Source
	dryRun bool
}

// New creates an Ingester. With dryRun set, records are parsed and
// validated but never written.
func New(store Store, source model.Source, dryRun bool) (*Ingester, error) {
	if source != model.SourceA && source != model.SourceB {
		return nil, eris.Errorf("ingest: unknown source %q", source)
	}
	return &Ingester{store: store, source: source, dryRun: dryRun}, nil
}

// Run reads r line by line. A malformed or failing line is logged and
// counted; only read errors and cancellation abort the run.
func (in *Ingester) Run(ctx context.Context, r io.Reader) (*Result, error) {
	res := &Result{}
	br := bufio.NewReaderSize(r, 1<<20)
	lineNo := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "ingest: interrupted")
		}

		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			in.handleLine(ctx, lineNo, bytes.TrimSpace(line), res)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return res, eris.Wrapf(readErr, "ingest: read line %d", lineNo+1)
		}
	}

	zap.L().Info("ingest: complete",
		zap.String("source", string(in.source)),
		zap.Bool("dry_run", in.dryRun),
		zap.Int("read", res.Read),
		zap.Int("upserted", res.Upserted),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (in *Ingester) handleLine(ctx context.Context, lineNo int, line []byte, res *Result) {
	if len(line) == 0 {
		res.Skipped++
		return
	}
	res.Read++

	var err error
	switch in.source {
	case model.SourceA:
		err = in.ingestA(ctx, line)
	default:
		err = in.ingestB(ctx, line)
	}
	if err != nil {
		res.Failed++
		zap.L().Warn("ingest: line failed",
			zap.String("source", string(in.source)),
			zap.Int("line", lineNo),
			zap.Error(err),
		)
		return
	}
	res.Upserted++
}

func (in *Ingester) ingestA(ctx context.Context, line []byte) error {
	var a model.SourceRecordA
	if err := json.Unmarshal(line, &a); err != nil {
		return eris.Wrap(err, "ingest: decode source a")
	}
	if strings.TrimSpace(a.URL) == "" {
		return eris.New("ingest: source a record has no url")
	}
	PrepareA(&a)
	if in.dryRun {
		return nil
	}
	return in.store.UpsertSourceA(ctx, &a)
}

func (in *Ingester) ingestB(ctx context.Context, line []byte) error {
	var b model.SourceRecordB
	if err := json.Unmarshal(line, &b); err != nil {
		return eris.Wrap(err, "ingest: decode source b")
	}
	if strings.TrimSpace(b.URL) == "" {
		return eris.New("ingest: source b record has no url")
	}
	PrepareB(&b)
	if in.dryRun {
		return nil
	}
	return in.store.UpsertSourceB(ctx, &b)
}

// PrepareA resets store-owned fields and recomputes the matching keys.
// Upstream values for derived fields are never trusted.
func PrepareA(a *model.SourceRecordA) {
	a.ID = 0
	a.URL = strings.TrimSpace(a.URL)
	a.NormalizedDomain = resolve.NormalizeDomain(a.Website)
	a.NormalizedName = resolve.NormalizeName(a.Name)
}

// PrepareB resets store-owned fields and recomputes the matching key. A
// freshly scraped record is always unmatched.
func PrepareB(b *model.SourceRecordB) {
	b.ID = 0
	b.URL = strings.TrimSpace(b.URL)
	b.NormalizedDomain = resolve.NormalizeDomain(b.Website)
	b.Matched = false
}
