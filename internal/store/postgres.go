package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/company-resolver/internal/db"
	"github.com/sells-group/company-resolver/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE EXTENSION IF NOT EXISTS pg_trgm;

CREATE TABLE IF NOT EXISTS source_a (
	id                BIGSERIAL PRIMARY KEY,
	url               TEXT NOT NULL UNIQUE,
	name              TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	founders          JSONB NOT NULL DEFAULT '[]',
	industries        JSONB NOT NULL DEFAULT '[]',
	description       TEXT NOT NULL DEFAULT '',
	long_description  TEXT NOT NULL DEFAULT '',
	founded           TEXT NOT NULL DEFAULT '',
	funding           TEXT NOT NULL DEFAULT '',
	funding_usd       DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_funding      TEXT NOT NULL DEFAULT '',
	logo              TEXT NOT NULL DEFAULT '',
	acquired          TEXT NOT NULL DEFAULT '',
	stock_symbol      TEXT NOT NULL DEFAULT '',
	similar_companies JSONB NOT NULL DEFAULT '[]',
	normalized_domain TEXT,
	normalized_name   TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_source_a_domain ON source_a(normalized_domain);
CREATE INDEX IF NOT EXISTS idx_source_a_name_trgm ON source_a USING gin (normalized_name gin_trgm_ops);

CREATE TABLE IF NOT EXISTS source_b (
	id                BIGSERIAL PRIMARY KEY,
	url               TEXT NOT NULL UNIQUE,
	name              TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	founders          JSONB NOT NULL DEFAULT '[]',
	founded           TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	logo              TEXT NOT NULL DEFAULT '',
	hq_location       TEXT NOT NULL DEFAULT '',
	funding_total     TEXT NOT NULL DEFAULT '',
	funding_total_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
	funding_rounds    JSONB NOT NULL DEFAULT '[]',
	normalized_domain TEXT,
	matched           BOOLEAN NOT NULL DEFAULT false,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_source_b_domain ON source_b(normalized_domain);
CREATE INDEX IF NOT EXISTS idx_source_b_unmatched ON source_b(id) WHERE NOT matched;

CREATE TABLE IF NOT EXISTS companies (
	id                BIGSERIAL PRIMARY KEY,
	company_key       TEXT NOT NULL UNIQUE,
	normalized_domain TEXT,
	name              TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	source_a_url      TEXT,
	source_b_url      TEXT,
	match_confidence  DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (match_confidence BETWEEN 0 AND 1),
	industries        JSONB NOT NULL DEFAULT '[]',
	similar_companies JSONB NOT NULL DEFAULT '[]',
	description       TEXT NOT NULL DEFAULT '',
	long_description  TEXT NOT NULL DEFAULT '',
	funding_total_usd DOUBLE PRECISION NOT NULL DEFAULT 0,
	funding_rounds    JSONB NOT NULL DEFAULT '[]',
	last_funding_date TEXT NOT NULL DEFAULT '',
	last_funding_type TEXT NOT NULL DEFAULT '',
	founders          JSONB NOT NULL DEFAULT '[]',
	logo              TEXT NOT NULL DEFAULT '',
	founded           TEXT NOT NULL DEFAULT '',
	acquired          TEXT NOT NULL DEFAULT '',
	stock_symbol      TEXT NOT NULL DEFAULT '',
	sources           JSONB NOT NULL DEFAULT '[]',
	source_priority   JSONB NOT NULL DEFAULT '{}',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_companies_source_a_url ON companies(source_a_url);
CREATE INDEX IF NOT EXISTS idx_companies_source_b_url ON companies(source_b_url);

CREATE TABLE IF NOT EXISTS review_items (
	id          BIGSERIAL PRIMARY KEY,
	source_a_id BIGINT NOT NULL REFERENCES source_a(id),
	source_b_id BIGINT NOT NULL REFERENCES source_b(id),
	confidence  DOUBLE PRECISION NOT NULL,
	signals     JSONB NOT NULL DEFAULT '{}',
	evidence    JSONB NOT NULL DEFAULT '{}',
	status      TEXT NOT NULL DEFAULT 'pending',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_a_id, source_b_id)
);

CREATE INDEX IF NOT EXISTS idx_review_items_status ON review_items(status);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, postgresMigration)
		return err
	})
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// --- Source A ---

func (s *PostgresStore) UpsertSourceA(ctx context.Context, a *model.SourceRecordA) error {
	founders, err := jsonArg(a.Founders)
	if err != nil {
		return err
	}
	industries, err := jsonArg(a.Industries)
	if err != nil {
		return err
	}
	similar, err := jsonArg(a.SimilarCompanies)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = s.pool.QueryRow(ctx, `
		INSERT INTO source_a (url, name, website, founders, industries, description, long_description,
			founded, funding, funding_usd, last_funding, logo, acquired, stock_symbol, similar_companies,
			normalized_domain, normalized_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULLIF($16, ''), $17, $18, $18)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name, website = EXCLUDED.website, founders = EXCLUDED.founders,
			industries = EXCLUDED.industries, description = EXCLUDED.description,
			long_description = EXCLUDED.long_description, founded = EXCLUDED.founded,
			funding = EXCLUDED.funding, funding_usd = EXCLUDED.funding_usd,
			last_funding = EXCLUDED.last_funding, logo = EXCLUDED.logo, acquired = EXCLUDED.acquired,
			stock_symbol = EXCLUDED.stock_symbol, similar_companies = EXCLUDED.similar_companies,
			normalized_domain = EXCLUDED.normalized_domain, normalized_name = EXCLUDED.normalized_name,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
		a.URL, a.Name, a.Website, founders, industries, a.Description, a.LongDescription,
		a.Founded, a.Funding, a.FundingUSD, a.LastFunding, a.Logo, a.Acquired, a.StockSymbol, similar,
		a.NormalizedDomain, a.NormalizedName, now,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return eris.Wrapf(err, "postgres: upsert source a %s", a.URL)
}

func (s *PostgresStore) GetSourceA(ctx context.Context, id int64) (*model.SourceRecordA, error) {
	a, err := scanSourceA(s.pool.QueryRow(ctx, `SELECT `+sourceAColumns+` FROM source_a WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, eris.Wrapf(err, "postgres: get source a %d", id)
}

func (s *PostgresStore) FindSourceAByDomain(ctx context.Context, domain string, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "find source a by domain",
		`SELECT `+sourceAColumns+` FROM source_a WHERE normalized_domain = $1 ORDER BY id LIMIT $2`,
		domain, listLimit(limit))
}

func (s *PostgresStore) SearchSourceAByName(ctx context.Context, prefix string, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "search source a by name",
		`SELECT `+sourceAColumns+` FROM source_a WHERE normalized_name LIKE '%' || $1 || '%' ORDER BY id LIMIT $2`,
		prefix, listLimit(limit))
}

func (s *PostgresStore) ListSourceAMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "list source a missing domain",
		`SELECT `+sourceAColumns+` FROM source_a
		 WHERE normalized_domain IS NULL AND website <> '' AND id > $1
		 ORDER BY id LIMIT $2`,
		afterID, listLimit(limit))
}

func (s *PostgresStore) SetSourceADerived(ctx context.Context, id int64, domain, normalizedName string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE source_a SET normalized_domain = NULLIF($1, ''), normalized_name = $2, updated_at = $3 WHERE id = $4`,
		domain, normalizedName, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set source a derived %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "source a %d", id)
	}
	return nil
}

func (s *PostgresStore) ListOrphanA(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "list orphan source a",
		`SELECT `+sourceAColumns+` FROM source_a
		 WHERE id > $1
		   AND NOT EXISTS (SELECT 1 FROM companies c WHERE c.source_a_url = source_a.url)
		   AND NOT (source_a.normalized_domain IS NOT NULL
		        AND EXISTS (SELECT 1 FROM companies c WHERE c.company_key = source_a.normalized_domain))
		   AND NOT EXISTS (SELECT 1 FROM review_items r WHERE r.source_a_id = source_a.id AND r.status = 'pending')
		 ORDER BY id LIMIT $2`,
		afterID, listLimit(limit))
}

func (s *PostgresStore) querySourceA(ctx context.Context, op, query string, args ...any) ([]model.SourceRecordA, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: "+op)
	}
	defer rows.Close()

	var out []model.SourceRecordA
	for rows.Next() {
		a, err := scanSourceA(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan source a")
		}
		out = append(out, *a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: "+op+" iterate")
}

// --- Source B ---

// UpsertSourceB inserts or refreshes b by URL. A refresh clears the matched
// flag so the new data is resolved again.
func (s *PostgresStore) UpsertSourceB(ctx context.Context, b *model.SourceRecordB) error {
	founders, err := jsonArg(b.Founders)
	if err != nil {
		return err
	}
	rounds, err := jsonArg(b.FundingRounds)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = s.pool.QueryRow(ctx, `
		INSERT INTO source_b (url, name, website, founders, founded, description, logo, hq_location,
			funding_total, funding_total_usd, funding_rounds, normalized_domain, matched, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), false, $13, $13)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name, website = EXCLUDED.website, founders = EXCLUDED.founders,
			founded = EXCLUDED.founded, description = EXCLUDED.description, logo = EXCLUDED.logo,
			hq_location = EXCLUDED.hq_location, funding_total = EXCLUDED.funding_total,
			funding_total_usd = EXCLUDED.funding_total_usd, funding_rounds = EXCLUDED.funding_rounds,
			normalized_domain = EXCLUDED.normalized_domain, matched = false,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
		b.URL, b.Name, b.Website, founders, b.Founded, b.Description, b.Logo, b.HQLocation,
		b.FundingTotal, b.FundingTotalUSD, rounds, b.NormalizedDomain, now,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return eris.Wrapf(err, "postgres: upsert source b %s", b.URL)
	}
	b.Matched = false
	return nil
}

func (s *PostgresStore) GetSourceB(ctx context.Context, id int64) (*model.SourceRecordB, error) {
	b, err := scanSourceB(s.pool.QueryRow(ctx, `SELECT `+sourceBColumns+` FROM source_b WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, eris.Wrapf(err, "postgres: get source b %d", id)
}

func (s *PostgresStore) ListUnmatchedB(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error) {
	return s.querySourceB(ctx, "list unmatched source b",
		`SELECT `+sourceBColumns+` FROM source_b WHERE NOT matched AND id > $1 ORDER BY id LIMIT $2`,
		afterID, listLimit(limit))
}

func (s *PostgresStore) ListSourceBMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error) {
	return s.querySourceB(ctx, "list source b missing domain",
		`SELECT `+sourceBColumns+` FROM source_b
		 WHERE normalized_domain IS NULL AND website <> '' AND id > $1
		 ORDER BY id LIMIT $2`,
		afterID, listLimit(limit))
}

func (s *PostgresStore) SetSourceBDomain(ctx context.Context, id int64, domain string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE source_b SET normalized_domain = NULLIF($1, ''), updated_at = $2 WHERE id = $3`,
		domain, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set source b domain %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "source b %d", id)
	}
	return nil
}

func (s *PostgresStore) MarkBMatched(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE source_b SET matched = true, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark source b matched %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "source b %d", id)
	}
	return nil
}

func (s *PostgresStore) querySourceB(ctx context.Context, op, query string, args ...any) ([]model.SourceRecordB, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: "+op)
	}
	defer rows.Close()

	var out []model.SourceRecordB
	for rows.Next() {
		b, err := scanSourceB(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan source b")
		}
		out = append(out, *b)
	}
	return out, eris.Wrap(rows.Err(), "postgres: "+op+" iterate")
}

// --- Golden records ---

func (s *PostgresStore) UpsertCompany(ctx context.Context, c *model.CanonicalCompany) error {
	enc, err := encodeCompany(c)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = s.pool.QueryRow(ctx, `
		INSERT INTO companies (company_key, normalized_domain, name, website, source_a_url, source_b_url,
			match_confidence, industries, similar_companies, description, long_description,
			funding_total_usd, funding_rounds, last_funding_date, last_funding_type, founders, logo,
			founded, acquired, stock_symbol, sources, source_priority, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $23)
		ON CONFLICT (company_key) DO UPDATE SET
			normalized_domain = EXCLUDED.normalized_domain, name = EXCLUDED.name,
			website = EXCLUDED.website, source_a_url = EXCLUDED.source_a_url,
			source_b_url = EXCLUDED.source_b_url, match_confidence = EXCLUDED.match_confidence,
			industries = EXCLUDED.industries, similar_companies = EXCLUDED.similar_companies,
			description = EXCLUDED.description, long_description = EXCLUDED.long_description,
			funding_total_usd = EXCLUDED.funding_total_usd, funding_rounds = EXCLUDED.funding_rounds,
			last_funding_date = EXCLUDED.last_funding_date, last_funding_type = EXCLUDED.last_funding_type,
			founders = EXCLUDED.founders, logo = EXCLUDED.logo, founded = EXCLUDED.founded,
			acquired = EXCLUDED.acquired, stock_symbol = EXCLUDED.stock_symbol,
			sources = EXCLUDED.sources, source_priority = EXCLUDED.source_priority,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`,
		c.Key, c.NormalizedDomain, c.Name, c.Website, c.SourceAURL, c.SourceBURL,
		c.MatchConfidence, enc.industries, enc.similar, c.Description, c.LongDescription,
		c.FundingTotalUSD, enc.rounds, c.LastFundingDate, c.LastFundingType, enc.founders, c.Logo,
		c.Founded, c.Acquired, c.StockSymbol, enc.sources, enc.priority, now,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return eris.Wrapf(err, "postgres: upsert company %s", c.Key)
}

func (s *PostgresStore) GetCompanyByKey(ctx context.Context, key string) (*model.CanonicalCompany, error) {
	c, err := scanCompany(s.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE company_key = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, eris.Wrapf(err, "postgres: get company %s", key)
}

func (s *PostgresStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.CanonicalCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Source != "" {
		query += fmt.Sprintf(` AND sources ? $%d`, argIdx)
		args = append(args, string(filter.Source))
		argIdx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, argIdx)
		args = append(args, filter.Search)
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d`, argIdx)
	args = append(args, listLimit(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list companies")
	}
	defer rows.Close()

	var out []model.CanonicalCompany
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list companies iterate")
}

// --- Review queue ---

// UpsertReviewItem inserts or refreshes the item for its (A, B) pair. The
// stored status of an existing item is kept and copied back into item.
func (s *PostgresStore) UpsertReviewItem(ctx context.Context, item *model.ReviewItem) error {
	signals, err := jsonArg(item.Signals)
	if err != nil {
		return err
	}
	evidence, err := jsonArg(item.Evidence)
	if err != nil {
		return err
	}
	status := item.Status
	if status == "" {
		status = model.ReviewPending
	}
	now := time.Now().UTC()

	err = s.pool.QueryRow(ctx, `
		INSERT INTO review_items (source_a_id, source_b_id, confidence, signals, evidence, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (source_a_id, source_b_id) DO UPDATE SET
			confidence = EXCLUDED.confidence, signals = EXCLUDED.signals,
			evidence = EXCLUDED.evidence, updated_at = EXCLUDED.updated_at
		RETURNING id, status, created_at, updated_at`,
		item.SourceAID, item.SourceBID, item.Confidence, signals, evidence, string(status), now,
	).Scan(&item.ID, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	return eris.Wrapf(err, "postgres: upsert review item (%d, %d)", item.SourceAID, item.SourceBID)
}

func (s *PostgresStore) GetReviewItem(ctx context.Context, id int64) (*model.ReviewItem, error) {
	r, err := scanReviewItem(s.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM review_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, eris.Wrapf(err, "postgres: get review item %d", id)
}

func (s *PostgresStore) GetReviewItemByPair(ctx context.Context, sourceAID, sourceBID int64) (*model.ReviewItem, error) {
	r, err := scanReviewItem(s.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM review_items WHERE source_a_id = $1 AND source_b_id = $2`,
		sourceAID, sourceBID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, eris.Wrapf(err, "postgres: get review item (%d, %d)", sourceAID, sourceBID)
}

func (s *PostgresStore) ListReviewItems(ctx context.Context, filter ReviewFilter) ([]model.ReviewItem, error) {
	query := `SELECT ` + reviewColumns + ` FROM review_items WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY confidence DESC, id LIMIT $%d`, argIdx)
	args = append(args, listLimit(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list review items")
	}
	defer rows.Close()

	var out []model.ReviewItem
	for rows.Next() {
		r, err := scanReviewItem(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan review item")
		}
		out = append(out, *r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list review items iterate")
}

func (s *PostgresStore) SetReviewStatus(ctx context.Context, id int64, status model.ReviewStatus) error {
	if !status.Valid() {
		return eris.Errorf("postgres: invalid review status %q", status)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE review_items SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set review status %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "review item %d", id)
	}
	return nil
}
