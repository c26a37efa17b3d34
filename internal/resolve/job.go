package resolve

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-resolver/internal/model"
	"github.com/sells-group/company-resolver/internal/resilience"
)

// DefaultPageSize is the number of unmatched rows fetched per cursor page.
const DefaultPageSize = 100

// DecisionPromote marks an unmatched source-A record promoted to a
// single-source golden record.
const DecisionPromote Decision = "promote_a"

// JobStore is the storage surface the batch reads from.
type JobStore interface {
	CandidateStore
	ListUnmatchedB(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error)
	ListOrphanA(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error)
	GetReviewItemByPair(ctx context.Context, sourceAID, sourceBID int64) (*model.ReviewItem, error)
}

// Merger writes golden records.
type Merger interface {
	Merge(ctx context.Context, a *model.SourceRecordA, b *model.SourceRecordB, confidence float64) (*model.CanonicalCompany, error)
	CreateFromB(ctx context.Context, b *model.SourceRecordB) (*model.CanonicalCompany, error)
	CreateFromA(ctx context.Context, a *model.SourceRecordA) (*model.CanonicalCompany, error)
}

// Reviewer queues ambiguous pairs for a human decision.
type Reviewer interface {
	Enqueue(ctx context.Context, a *model.SourceRecordA, b *model.SourceRecordB, confidence float64, signals model.Signals) (*model.ReviewItem, error)
}

// Options configures a Job.
type Options struct {
	DryRun         bool
	Limit          int // 0 = unlimited
	Concurrency    int
	PageSize       int
	CandidateLimit int
	RatePerSec     float64 // 0 = unlimited
	FuzzyNames     bool
	PromoteA       bool
	Policy         Policy
	Retry          resilience.RetryConfig

	// OnDecision, when set, is called once per processed record. Calls are
	// serialized.
	OnDecision func(Outcome)
}

// Outcome describes what happened to a single record.
type Outcome struct {
	Source      model.Source
	RecordID    int64
	Name        string
	URL         string
	Decision    Decision
	CandidateID int64
	Confidence  float64
	Signals     model.Signals
	Err         error
}

// Summary counts batch results.
type Summary struct {
	RunID        string        `json:"run_id"`
	Processed    int64         `json:"processed"`
	Merged       int64         `json:"merged"`
	Queued       int64         `json:"queued"`
	SingleSource int64         `json:"single_source"`
	PromotedA    int64         `json:"promoted_a"`
	Errors       int64         `json:"errors"`
	DryRun       bool          `json:"dry_run"`
	Duration     time.Duration `json:"duration"`
}

// Job streams unmatched source-B records through matching and routes each
// one to merge, review or single-source creation.
type Job struct {
	store   JobStore
	merger  Merger
	reviews Reviewer
	finder  *Finder
	policy  Policy
	opts    Options

	mu       sync.Mutex // serializes OnDecision
	keyLocks [64]sync.Mutex
	dry      *dryRunLedger
}

// NewJob creates a batch job. Zero-valued options fall back to defaults.
func NewJob(store JobStore, merger Merger, reviews Reviewer, opts Options) *Job {
	if opts.Policy == (Policy{}) {
		opts.Policy = DefaultPolicy()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Job{
		store:   store,
		merger:  merger,
		reviews: reviews,
		finder:  NewFinder(store, NewScorer(opts.FuzzyNames), opts.Policy, opts.CandidateLimit),
		policy:  opts.Policy,
		opts:    opts,
	}
}

type counters struct {
	processed, merged, queued, single, promoted, errors atomic.Int64
}

// Run executes the batch. Per-record failures are counted, never returned;
// the only error is context cancellation.
func (j *Job) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := zap.L().With(zap.String("run_id", runID), zap.Bool("dry_run", j.opts.DryRun))

	log.Info("resolve: starting run",
		zap.Int("concurrency", j.opts.Concurrency),
		zap.Int("page_size", j.opts.PageSize),
		zap.Int("limit", j.opts.Limit),
	)

	j.dry = nil
	if j.opts.DryRun {
		j.dry = newDryRunLedger()
	}

	var c counters
	dispatched := j.runB(ctx, &c, log)

	if j.opts.PromoteA && ctx.Err() == nil {
		budget := 0
		if j.opts.Limit > 0 {
			budget = j.opts.Limit - dispatched
		}
		if j.opts.Limit == 0 || budget > 0 {
			j.runPromoteA(ctx, &c, budget, log)
		}
	}

	summary := &Summary{
		RunID:        runID,
		Processed:    c.processed.Load(),
		Merged:       c.merged.Load(),
		Queued:       c.queued.Load(),
		SingleSource: c.single.Load(),
		PromotedA:    c.promoted.Load(),
		Errors:       c.errors.Load(),
		DryRun:       j.opts.DryRun,
		Duration:     time.Since(start),
	}

	log.Info("resolve: run complete",
		zap.Int64("processed", summary.Processed),
		zap.Int64("merged", summary.Merged),
		zap.Int64("queued", summary.Queued),
		zap.Int64("single_source", summary.SingleSource),
		zap.Int64("promoted_a", summary.PromotedA),
		zap.Int64("errors", summary.Errors),
		zap.Duration("duration", summary.Duration),
	)

	if err := ctx.Err(); err != nil {
		return summary, eris.Wrap(err, "resolve: run interrupted")
	}
	return summary, nil
}

// runB pages through unmatched B rows and fans them out to worker shards.
// Records sharing a shard key always land on the same worker. It returns
// the number of records dispatched.
func (j *Job) runB(ctx context.Context, c *counters, log *zap.Logger) int {
	n := j.opts.Concurrency
	shards := make([]chan *model.SourceRecordB, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := range shards {
		ch := make(chan *model.SourceRecordB, j.opts.PageSize)
		shards[i] = ch
		g.Go(func() error {
			for b := range ch {
				if gctx.Err() != nil {
					continue
				}
				j.processB(gctx, b, c)
			}
			return nil
		})
	}

	var limiter *rate.Limiter
	if j.opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(j.opts.RatePerSec), 1)
	}

	dispatched := 0
	var after int64
produce:
	for ctx.Err() == nil {
		page, err := resilience.DoVal(ctx, j.opts.Retry, func(ctx context.Context) ([]model.SourceRecordB, error) {
			return j.store.ListUnmatchedB(ctx, after, j.opts.PageSize)
		})
		if err != nil {
			if ctx.Err() == nil {
				c.errors.Add(1)
				log.Error("resolve: read unmatched page failed", zap.Int64("after_id", after), zap.Error(err))
			}
			break
		}
		if len(page) == 0 {
			break
		}

		for i := range page {
			if j.opts.Limit > 0 && dispatched >= j.opts.Limit {
				break produce
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					break produce
				}
			}
			b := &page[i]
			select {
			case shards[shardFor(b.ShardKey(), n)] <- b:
				dispatched++
			case <-ctx.Done():
				break produce
			}
		}

		after = page[len(page)-1].ID
		if len(page) < j.opts.PageSize {
			break
		}
	}

	for _, ch := range shards {
		close(ch)
	}
	_ = g.Wait()
	return dispatched
}

func shardFor(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

func (j *Job) processB(ctx context.Context, b *model.SourceRecordB, c *counters) {
	var out Outcome
	err := resilience.Do(ctx, j.opts.Retry, func(ctx context.Context) error {
		var err error
		out, err = j.resolveB(ctx, b)
		return err
	})
	c.processed.Add(1)

	if err != nil {
		c.errors.Add(1)
		out = Outcome{Source: model.SourceB, RecordID: b.ID, Name: b.Name, URL: b.URL, Err: err}
		zap.L().Error("resolve: record failed",
			zap.Int64("source_b_id", b.ID),
			zap.String("name", b.Name),
			zap.String("url", b.URL),
			zap.Error(err),
		)
		j.report(out)
		return
	}

	switch out.Decision {
	case DecisionMerge:
		c.merged.Add(1)
	case DecisionReview:
		c.queued.Add(1)
	default:
		c.single.Add(1)
	}
	j.report(out)
}

// resolveB finds, decides and applies the outcome for one B record. It is
// safe to re-run: every write it performs is an upsert.
func (j *Job) resolveB(ctx context.Context, b *model.SourceRecordB) (Outcome, error) {
	out := Outcome{Source: model.SourceB, RecordID: b.ID, Name: b.Name, URL: b.URL}

	match, err := j.finder.FindBestMatch(ctx, b)
	if err != nil {
		return out, err
	}

	out.Decision = DecisionSingleSource
	confidence := match.Score.Composite
	if match.Candidate != nil {
		out.CandidateID = match.Candidate.ID
		out.Confidence = confidence
		out.Signals = match.Score.Signals
		out.Decision = j.policy.Decide(confidence)

		if out.Decision != DecisionSingleSource {
			prior, err := j.store.GetReviewItemByPair(ctx, match.Candidate.ID, b.ID)
			if err != nil {
				return out, eris.Wrap(err, "resolve: lookup review pair")
			}
			if prior != nil {
				switch prior.Status {
				case model.ReviewRejected:
					out.Decision = DecisionSingleSource
				case model.ReviewApproved:
					out.Decision = DecisionMerge
					confidence = prior.Confidence
				}
			}
		}
	}

	zap.L().Debug("resolve: decision",
		zap.Int64("source_b_id", b.ID),
		zap.Int64("source_a_id", out.CandidateID),
		zap.String("decision", string(out.Decision)),
		zap.Float64("score", out.Confidence),
	)

	if j.opts.DryRun {
		j.dry.record(out.Decision, match.Candidate, b)
		return out, nil
	}

	switch out.Decision {
	case DecisionMerge:
		defer j.lockKey(companyKey(match.Candidate, b))()
		if _, err := j.merger.Merge(ctx, match.Candidate, b, confidence); err != nil {
			return out, err
		}
	case DecisionReview:
		if _, err := j.reviews.Enqueue(ctx, match.Candidate, b, confidence, match.Score.Signals); err != nil {
			return out, err
		}
	default:
		defer j.lockKey(companyKey(nil, b))()
		if _, err := j.merger.CreateFromB(ctx, b); err != nil {
			return out, err
		}
	}
	return out, nil
}

// lockKey serializes golden-record writes for key across workers. Shards
// follow the B record's own domain, but a merge writes under the A record's
// key when it has one.
func (j *Job) lockKey(key string) (unlock func()) {
	m := &j.keyLocks[shardFor(key, len(j.keyLocks))]
	m.Lock()
	return m.Unlock
}

// companyKey is the key the merger writes for the pair. Either record may
// be nil.
func companyKey(a *model.SourceRecordA, b *model.SourceRecordB) string {
	var domain, aURL, bURL string
	if b != nil {
		domain, bURL = b.NormalizedDomain, b.URL
	}
	if a != nil {
		aURL = a.URL
		if a.NormalizedDomain != "" {
			domain = a.NormalizedDomain
		}
	}
	return model.CompanyKey(domain, aURL, bURL)
}

// dryRunLedger remembers what a dry run would have written so the promote
// pass skips A records the B pass would have linked.
type dryRunLedger struct {
	mu      sync.Mutex
	linkedA map[int64]bool
	keys    map[string]bool
}

func newDryRunLedger() *dryRunLedger {
	return &dryRunLedger{linkedA: map[int64]bool{}, keys: map[string]bool{}}
}

func (l *dryRunLedger) record(d Decision, a *model.SourceRecordA, b *model.SourceRecordB) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	switch d {
	case DecisionMerge:
		l.linkedA[a.ID] = true
		l.keys[companyKey(a, b)] = true
	case DecisionReview:
		l.linkedA[a.ID] = true
	default:
		l.keys[companyKey(nil, b)] = true
	}
}

// covers reports whether a would no longer be an orphan had the dry run
// written its decisions.
func (l *dryRunLedger) covers(a *model.SourceRecordA) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.linkedA[a.ID] || l.keys[companyKey(a, nil)]
}

// runPromoteA creates single-source records for source-A rows that no
// golden record or pending review represents. budget 0 means unlimited.
func (j *Job) runPromoteA(ctx context.Context, c *counters, budget int, log *zap.Logger) {
	done := 0
	var after int64
	for ctx.Err() == nil {
		page, err := resilience.DoVal(ctx, j.opts.Retry, func(ctx context.Context) ([]model.SourceRecordA, error) {
			return j.store.ListOrphanA(ctx, after, j.opts.PageSize)
		})
		if err != nil {
			if ctx.Err() == nil {
				c.errors.Add(1)
				log.Error("resolve: read orphan page failed", zap.Int64("after_id", after), zap.Error(err))
			}
			return
		}
		if len(page) == 0 {
			return
		}

		for i := range page {
			if budget > 0 && done >= budget {
				return
			}
			if ctx.Err() != nil {
				return
			}
			if j.dry.covers(&page[i]) {
				continue
			}
			j.promoteA(ctx, &page[i], c)
			done++
		}

		after = page[len(page)-1].ID
		if len(page) < j.opts.PageSize {
			return
		}
	}
}

func (j *Job) promoteA(ctx context.Context, a *model.SourceRecordA, c *counters) {
	out := Outcome{
		Source:     model.SourceA,
		RecordID:   a.ID,
		Name:       a.Name,
		URL:        a.URL,
		Decision:   DecisionPromote,
		Confidence: 1.0,
	}
	c.processed.Add(1)

	if !j.opts.DryRun {
		err := resilience.Do(ctx, j.opts.Retry, func(ctx context.Context) error {
			_, err := j.merger.CreateFromA(ctx, a)
			return err
		})
		if err != nil {
			c.errors.Add(1)
			out.Err = err
			zap.L().Error("resolve: promote failed",
				zap.Int64("source_a_id", a.ID),
				zap.String("name", a.Name),
				zap.String("url", a.URL),
				zap.Error(err),
			)
			j.report(out)
			return
		}
	}

	c.promoted.Add(1)
	j.report(out)
}

func (j *Job) report(out Outcome) {
	if j.opts.OnDecision == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.opts.OnDecision(out)
}
