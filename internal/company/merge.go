package company

import (
	"context"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/events"
	"github.com/sells-group/company-resolver/internal/model"
)

// Merger turns source records into golden records and persists them.
type Merger struct {
	store  GoldenStore
	events events.Publisher
	rules  MergeRules
}

// NewMerger creates a Merger. A nil publisher discards events and nil rules
// fall back to DefaultMergeRules.
func NewMerger(store GoldenStore, pub events.Publisher, rules MergeRules) *Merger {
	if pub == nil {
		pub = events.Nop{}
	}
	if rules == nil {
		rules = DefaultMergeRules()
	}
	return &Merger{store: store, events: pub, rules: rules}
}

// Merge builds the golden record for a matched pair, upserts it and marks b
// as consumed. Re-running with the same pair rewrites the same record.
func (m *Merger) Merge(ctx context.Context, a *model.SourceRecordA, b *model.SourceRecordB, confidence float64) (*model.CanonicalCompany, error) {
	c := m.Build(a, b, confidence)
	if err := m.save(ctx, c); err != nil {
		return nil, err
	}
	if err := m.store.MarkBMatched(ctx, b.ID); err != nil {
		return nil, eris.Wrapf(err, "company: mark source b %d matched", b.ID)
	}

	zap.L().Debug("company: merged",
		zap.String("key", c.Key),
		zap.Int64("source_a_id", a.ID),
		zap.Int64("source_b_id", b.ID),
		zap.Float64("confidence", c.MatchConfidence),
	)
	return c, nil
}

// CreateFromB creates a single-source golden record for b and marks it
// consumed.
func (m *Merger) CreateFromB(ctx context.Context, b *model.SourceRecordB) (*model.CanonicalCompany, error) {
	c := m.Build(nil, b, 1.0)
	if err := m.save(ctx, c); err != nil {
		return nil, err
	}
	if err := m.store.MarkBMatched(ctx, b.ID); err != nil {
		return nil, eris.Wrapf(err, "company: mark source b %d matched", b.ID)
	}
	return c, nil
}

// CreateFromA creates a single-source golden record for a.
func (m *Merger) CreateFromA(ctx context.Context, a *model.SourceRecordA) (*model.CanonicalCompany, error) {
	c := m.Build(a, nil, 1.0)
	if err := m.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Merger) save(ctx context.Context, c *model.CanonicalCompany) error {
	if err := m.store.UpsertCompany(ctx, c); err != nil {
		return eris.Wrapf(err, "company: upsert %s", c.Key)
	}
	publish(ctx, m.events, events.CompanyUpserted, c)
	return nil
}

// publish sends an event built from v. Failures are logged; the store is
// the source of truth.
func publish[T any](ctx context.Context, pub events.Publisher, build func(T) (events.Event, error), v T) {
	ev, err := build(v)
	if err == nil {
		err = pub.Publish(ctx, ev)
	}
	if err != nil {
		zap.L().Warn("company: publish event failed", zap.String("type", ev.Type), zap.Error(err))
	}
}

// Build applies the merge rules to produce a golden record without touching
// the store. Either record may be nil for single-source creation.
func (m *Merger) Build(a *model.SourceRecordA, b *model.SourceRecordB, confidence float64) *model.CanonicalCompany {
	var sources []model.Source
	if a != nil {
		sources = append(sources, model.SourceA)
	} else {
		a = &model.SourceRecordA{}
	}
	if b != nil {
		sources = append(sources, model.SourceB)
	} else {
		b = &model.SourceRecordB{}
	}

	c := &model.CanonicalCompany{
		SourceAURL:      a.URL,
		SourceBURL:      b.URL,
		MatchConfidence: math.Max(0, math.Min(1, confidence)),
		Sources:         sources,
		SourcePriority:  make(map[model.Field]model.Source),
	}

	for _, f := range model.AllFields {
		if src, ok := fieldMerges[f](c, a, b, m.rules.strategy(f)); ok {
			c.SourcePriority[f] = src
		}
	}

	c.NormalizedDomain = a.NormalizedDomain
	if c.NormalizedDomain == "" {
		c.NormalizedDomain = b.NormalizedDomain
	}
	c.Key = model.CompanyKey(c.NormalizedDomain, a.URL, b.URL)

	if n := len(c.FundingRounds); n > 0 {
		last := c.FundingRounds[n-1]
		c.LastFundingDate = last.Date
		c.LastFundingType = last.RoundType
	} else {
		c.LastFundingDate = a.LastFunding
	}
	return c
}

type fieldMerge func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool)

// fieldMerges has one entry per model.Field. Source B carries no long
// description, industries, similar companies, acquisition or ticker data.
var fieldMerges = map[model.Field]fieldMerge{
	model.FieldName: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Name, a.Name, b.Name, s, textSize)
	},
	model.FieldWebsite: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Website, a.Website, b.Website, s, textSize)
	},
	model.FieldDescription: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Description, a.Description, b.Description, s, textSize)
	},
	model.FieldLongDescription: func(c *model.CanonicalCompany, a *model.SourceRecordA, _ *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.LongDescription, a.LongDescription, "", s, textSize)
	},
	model.FieldIndustries: func(c *model.CanonicalCompany, a *model.SourceRecordA, _ *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Industries, a.Industries, nil, s, listSize[string])
	},
	model.FieldSimilarCompanies: func(c *model.CanonicalCompany, a *model.SourceRecordA, _ *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.SimilarCompanies, a.SimilarCompanies, nil, s, listSize[string])
	},
	model.FieldAcquired: func(c *model.CanonicalCompany, a *model.SourceRecordA, _ *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Acquired, a.Acquired, "", s, textSize)
	},
	model.FieldStockSymbol: func(c *model.CanonicalCompany, a *model.SourceRecordA, _ *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.StockSymbol, a.StockSymbol, "", s, textSize)
	},
	model.FieldFounded: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Founded, a.Founded, b.Founded, s, textSize)
	},
	model.FieldFundingTotalUSD: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.FundingTotalUSD, a.FundingUSD, b.FundingTotalUSD, s, amountSize)
	},
	model.FieldFundingRounds: func(c *model.CanonicalCompany, _ *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.FundingRounds, nil, b.FundingRounds, s, listSize[model.FundingRound])
	},
	model.FieldFounders: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Founders, a.Founders, b.Founders, s, listSize[string])
	},
	model.FieldLogo: func(c *model.CanonicalCompany, a *model.SourceRecordA, b *model.SourceRecordB, s Strategy) (model.Source, bool) {
		return pick(&c.Logo, a.Logo, b.Logo, s, textSize)
	},
}

// pick stores the value chosen by s into dst and reports which source
// supplied it. Nothing is stored when both values are empty.
func pick[T any](dst *T, va, vb T, s Strategy, size func(T) int) (model.Source, bool) {
	la, lb := size(va), size(vb)

	var src model.Source
	switch s {
	case PreferB:
		switch {
		case lb > 0:
			src = model.SourceB
		case la > 0:
			src = model.SourceA
		}
	case Longest:
		switch {
		case la > 0 && la >= lb:
			src = model.SourceA
		case lb > 0:
			src = model.SourceB
		}
	default:
		switch {
		case la > 0:
			src = model.SourceA
		case lb > 0:
			src = model.SourceB
		}
	}

	switch src {
	case model.SourceA:
		*dst = va
	case model.SourceB:
		*dst = vb
	default:
		return "", false
	}
	return src, true
}

func textSize(s string) int { return len([]rune(strings.TrimSpace(s))) }

func listSize[E any](l []E) int { return len(l) }

func amountSize(f float64) int {
	if f > 0 {
		return 1
	}
	return 0
}
