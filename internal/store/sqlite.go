package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/company-resolver/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS source_a (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	url               TEXT NOT NULL UNIQUE,
	name              TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	founders          TEXT NOT NULL DEFAULT '[]',
	industries        TEXT NOT NULL DEFAULT '[]',
	description       TEXT NOT NULL DEFAULT '',
	long_description  TEXT NOT NULL DEFAULT '',
	founded           TEXT NOT NULL DEFAULT '',
	funding           TEXT NOT NULL DEFAULT '',
	funding_usd       REAL NOT NULL DEFAULT 0,
	last_funding      TEXT NOT NULL DEFAULT '',
	logo              TEXT NOT NULL DEFAULT '',
	acquired          TEXT NOT NULL DEFAULT '',
	stock_symbol      TEXT NOT NULL DEFAULT '',
	similar_companies TEXT NOT NULL DEFAULT '[]',
	normalized_domain TEXT,
	normalized_name   TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_source_a_domain ON source_a(normalized_domain);
CREATE INDEX IF NOT EXISTS idx_source_a_name ON source_a(normalized_name);

CREATE TABLE IF NOT EXISTS source_b (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	url               TEXT NOT NULL UNIQUE,
	name              TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	founders          TEXT NOT NULL DEFAULT '[]',
	founded           TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	logo              TEXT NOT NULL DEFAULT '',
	hq_location       TEXT NOT NULL DEFAULT '',
	funding_total     TEXT NOT NULL DEFAULT '',
	funding_total_usd REAL NOT NULL DEFAULT 0,
	funding_rounds    TEXT NOT NULL DEFAULT '[]',
	normalized_domain TEXT,
	matched           INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_source_b_domain ON source_b(normalized_domain);
CREATE INDEX IF NOT EXISTS idx_source_b_unmatched ON source_b(matched, id);

CREATE TABLE IF NOT EXISTS companies (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	company_key       TEXT NOT NULL UNIQUE,
	normalized_domain TEXT,
	name              TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	source_a_url      TEXT,
	source_b_url      TEXT,
	match_confidence  REAL NOT NULL DEFAULT 0,
	industries        TEXT NOT NULL DEFAULT '[]',
	similar_companies TEXT NOT NULL DEFAULT '[]',
	description       TEXT NOT NULL DEFAULT '',
	long_description  TEXT NOT NULL DEFAULT '',
	funding_total_usd REAL NOT NULL DEFAULT 0,
	funding_rounds    TEXT NOT NULL DEFAULT '[]',
	last_funding_date TEXT NOT NULL DEFAULT '',
	last_funding_type TEXT NOT NULL DEFAULT '',
	founders          TEXT NOT NULL DEFAULT '[]',
	logo              TEXT NOT NULL DEFAULT '',
	founded           TEXT NOT NULL DEFAULT '',
	acquired          TEXT NOT NULL DEFAULT '',
	stock_symbol      TEXT NOT NULL DEFAULT '',
	sources           TEXT NOT NULL DEFAULT '[]',
	source_priority   TEXT NOT NULL DEFAULT '{}',
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_companies_source_a_url ON companies(source_a_url);
CREATE INDEX IF NOT EXISTS idx_companies_source_b_url ON companies(source_b_url);

CREATE TABLE IF NOT EXISTS review_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	source_a_id INTEGER NOT NULL REFERENCES source_a(id),
	source_b_id INTEGER NOT NULL REFERENCES source_b(id),
	confidence  REAL NOT NULL,
	signals     TEXT NOT NULL DEFAULT '{}',
	evidence    TEXT NOT NULL DEFAULT '{}',
	status      TEXT NOT NULL DEFAULT 'pending',
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (source_a_id, source_b_id)
);

CREATE INDEX IF NOT EXISTS idx_review_items_status ON review_items(status);
`

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Source A ---

func (s *SQLiteStore) UpsertSourceA(ctx context.Context, a *model.SourceRecordA) error {
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

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO source_a (url, name, website, founders, industries, description, long_description,
			founded, funding, funding_usd, last_funding, logo, acquired, stock_symbol, similar_companies,
			normalized_domain, normalized_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name, website = excluded.website, founders = excluded.founders,
			industries = excluded.industries, description = excluded.description,
			long_description = excluded.long_description, founded = excluded.founded,
			funding = excluded.funding, funding_usd = excluded.funding_usd,
			last_funding = excluded.last_funding, logo = excluded.logo, acquired = excluded.acquired,
			stock_symbol = excluded.stock_symbol, similar_companies = excluded.similar_companies,
			normalized_domain = excluded.normalized_domain, normalized_name = excluded.normalized_name,
			updated_at = excluded.updated_at
		RETURNING id`,
		a.URL, a.Name, a.Website, string(founders), string(industries), a.Description, a.LongDescription,
		a.Founded, a.Funding, a.FundingUSD, a.LastFunding, a.Logo, a.Acquired, a.StockSymbol, string(similar),
		a.NormalizedDomain, a.NormalizedName, now, now,
	)
	if err := row.Scan(&a.ID); err != nil {
		return eris.Wrapf(err, "sqlite: upsert source a %s", a.URL)
	}
	return nil
}

func (s *SQLiteStore) GetSourceA(ctx context.Context, id int64) (*model.SourceRecordA, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sourceAColumns+` FROM source_a WHERE id = ?`, id)
	a, err := scanSourceA(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, eris.Wrapf(err, "sqlite: get source a %d", id)
}

func (s *SQLiteStore) FindSourceAByDomain(ctx context.Context, domain string, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "find source a by domain",
		`SELECT `+sourceAColumns+` FROM source_a WHERE normalized_domain = ? ORDER BY id LIMIT ?`,
		domain, listLimit(limit))
}

func (s *SQLiteStore) SearchSourceAByName(ctx context.Context, prefix string, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "search source a by name",
		`SELECT `+sourceAColumns+` FROM source_a WHERE instr(normalized_name, ?) > 0 ORDER BY id LIMIT ?`,
		prefix, listLimit(limit))
}

func (s *SQLiteStore) ListSourceAMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "list source a missing domain",
		`SELECT `+sourceAColumns+` FROM source_a
		 WHERE normalized_domain IS NULL AND website != '' AND id > ?
		 ORDER BY id LIMIT ?`,
		afterID, listLimit(limit))
}

func (s *SQLiteStore) SetSourceADerived(ctx context.Context, id int64, domain, normalizedName string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE source_a SET normalized_domain = NULLIF(?, ''), normalized_name = ?, updated_at = ? WHERE id = ?`,
		domain, normalizedName, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set source a derived %d", id)
	}
	return checkRowsAffected(res, "source a", id)
}

func (s *SQLiteStore) ListOrphanA(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordA, error) {
	return s.querySourceA(ctx, "list orphan source a",
		`SELECT `+sourceAColumns+` FROM source_a
		 WHERE id > ?
		   AND NOT EXISTS (SELECT 1 FROM companies c WHERE c.source_a_url = source_a.url)
		   AND NOT (source_a.normalized_domain IS NOT NULL
		        AND EXISTS (SELECT 1 FROM companies c WHERE c.company_key = source_a.normalized_domain))
		   AND NOT EXISTS (SELECT 1 FROM review_items r WHERE r.source_a_id = source_a.id AND r.status = 'pending')
		 ORDER BY id LIMIT ?`,
		afterID, listLimit(limit))
}

func (s *SQLiteStore) querySourceA(ctx context.Context, op, query string, args ...any) ([]model.SourceRecordA, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: "+op)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.SourceRecordA
	for rows.Next() {
		a, err := scanSourceA(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source a")
		}
		out = append(out, *a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: "+op+" iterate")
}

// --- Source B ---

// UpsertSourceB inserts or refreshes b by URL. A refresh clears the matched
// flag so the new data is resolved again.
func (s *SQLiteStore) UpsertSourceB(ctx context.Context, b *model.SourceRecordB) error {
	founders, err := jsonArg(b.Founders)
	if err != nil {
		return err
	}
	rounds, err := jsonArg(b.FundingRounds)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO source_b (url, name, website, founders, founded, description, logo, hq_location,
			funding_total, funding_total_usd, funding_rounds, normalized_domain, matched, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), 0, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name, website = excluded.website, founders = excluded.founders,
			founded = excluded.founded, description = excluded.description, logo = excluded.logo,
			hq_location = excluded.hq_location, funding_total = excluded.funding_total,
			funding_total_usd = excluded.funding_total_usd, funding_rounds = excluded.funding_rounds,
			normalized_domain = excluded.normalized_domain, matched = 0,
			updated_at = excluded.updated_at
		RETURNING id`,
		b.URL, b.Name, b.Website, string(founders), b.Founded, b.Description, b.Logo, b.HQLocation,
		b.FundingTotal, b.FundingTotalUSD, string(rounds), b.NormalizedDomain, now, now,
	)
	if err := row.Scan(&b.ID); err != nil {
		return eris.Wrapf(err, "sqlite: upsert source b %s", b.URL)
	}
	b.Matched = false
	return nil
}

func (s *SQLiteStore) GetSourceB(ctx context.Context, id int64) (*model.SourceRecordB, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sourceBColumns+` FROM source_b WHERE id = ?`, id)
	b, err := scanSourceB(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, eris.Wrapf(err, "sqlite: get source b %d", id)
}

func (s *SQLiteStore) ListUnmatchedB(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error) {
	return s.querySourceB(ctx, "list unmatched source b",
		`SELECT `+sourceBColumns+` FROM source_b WHERE matched = 0 AND id > ? ORDER BY id LIMIT ?`,
		afterID, listLimit(limit))
}

func (s *SQLiteStore) ListSourceBMissingDomain(ctx context.Context, afterID int64, limit int) ([]model.SourceRecordB, error) {
	return s.querySourceB(ctx, "list source b missing domain",
		`SELECT `+sourceBColumns+` FROM source_b
		 WHERE normalized_domain IS NULL AND website != '' AND id > ?
		 ORDER BY id LIMIT ?`,
		afterID, listLimit(limit))
}

func (s *SQLiteStore) SetSourceBDomain(ctx context.Context, id int64, domain string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE source_b SET normalized_domain = NULLIF(?, ''), updated_at = ? WHERE id = ?`,
		domain, time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set source b domain %d", id)
	}
	return checkRowsAffected(res, "source b", id)
}

func (s *SQLiteStore) MarkBMatched(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE source_b SET matched = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark source b matched %d", id)
	}
	return checkRowsAffected(res, "source b", id)
}

func (s *SQLiteStore) querySourceB(ctx context.Context, op, query string, args ...any) ([]model.SourceRecordB, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: "+op)
	}
	defer rows.Close() //nolint:errcheck

	var out []model.SourceRecordB
	for rows.Next() {
		b, err := scanSourceB(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan source b")
		}
		out = append(out, *b)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: "+op+" iterate")
}

// --- Golden records ---

func (s *SQLiteStore) UpsertCompany(ctx context.Context, c *model.CanonicalCompany) error {
	enc, err := encodeCompany(c)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO companies (company_key, normalized_domain, name, website, source_a_url, source_b_url,
			match_confidence, industries, similar_companies, description, long_description,
			funding_total_usd, funding_rounds, last_funding_date, last_funding_type, founders, logo,
			founded, acquired, stock_symbol, sources, source_priority, created_at, updated_at)
		VALUES (?, NULLIF(?, ''), ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (company_key) DO UPDATE SET
			normalized_domain = excluded.normalized_domain, name = excluded.name,
			website = excluded.website, source_a_url = excluded.source_a_url,
			source_b_url = excluded.source_b_url, match_confidence = excluded.match_confidence,
			industries = excluded.industries, similar_companies = excluded.similar_companies,
			description = excluded.description, long_description = excluded.long_description,
			funding_total_usd = excluded.funding_total_usd, funding_rounds = excluded.funding_rounds,
			last_funding_date = excluded.last_funding_date, last_funding_type = excluded.last_funding_type,
			founders = excluded.founders, logo = excluded.logo, founded = excluded.founded,
			acquired = excluded.acquired, stock_symbol = excluded.stock_symbol,
			sources = excluded.sources, source_priority = excluded.source_priority,
			updated_at = excluded.updated_at
		RETURNING id`,
		c.Key, c.NormalizedDomain, c.Name, c.Website, c.SourceAURL, c.SourceBURL,
		c.MatchConfidence, string(enc.industries), string(enc.similar), c.Description, c.LongDescription,
		c.FundingTotalUSD, string(enc.rounds), c.LastFundingDate, c.LastFundingType, string(enc.founders), c.Logo,
		c.Founded, c.Acquired, c.StockSymbol, string(enc.sources), string(enc.priority), now, now,
	)
	if err := row.Scan(&c.ID); err != nil {
		return eris.Wrapf(err, "sqlite: upsert company %s", c.Key)
	}
	return nil
}

func (s *SQLiteStore) GetCompanyByKey(ctx context.Context, key string) (*model.CanonicalCompany, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE company_key = ?`, key)
	c, err := scanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return c, eris.Wrapf(err, "sqlite: get company %s", key)
}

func (s *SQLiteStore) ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.CanonicalCompany, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE 1=1`
	var args []any

	if filter.Source != "" {
		query += ` AND EXISTS (SELECT 1 FROM json_each(companies.sources) WHERE json_each.value = ?)`
		args = append(args, string(filter.Source))
	}
	if filter.Search != "" {
		query += ` AND name LIKE '%' || ? || '%'`
		args = append(args, filter.Search)
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, listLimit(filter.Limit))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list companies")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.CanonicalCompany
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list companies iterate")
}

// --- Review queue ---

// UpsertReviewItem inserts or refreshes the item for its (A, B) pair. The
// stored status of an existing item is kept and copied back into item.
func (s *SQLiteStore) UpsertReviewItem(ctx context.Context, item *model.ReviewItem) error {
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

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO review_items (source_a_id, source_b_id, confidence, signals, evidence, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source_a_id, source_b_id) DO UPDATE SET
			confidence = excluded.confidence, signals = excluded.signals,
			evidence = excluded.evidence, updated_at = excluded.updated_at
		RETURNING id, status`,
		item.SourceAID, item.SourceBID, item.Confidence, string(signals), string(evidence),
		string(status), now, now,
	)
	if err := row.Scan(&item.ID, &item.Status); err != nil {
		return eris.Wrapf(err, "sqlite: upsert review item (%d, %d)", item.SourceAID, item.SourceBID)
	}
	return nil
}

func (s *SQLiteStore) GetReviewItem(ctx context.Context, id int64) (*model.ReviewItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM review_items WHERE id = ?`, id)
	r, err := scanReviewItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, eris.Wrapf(err, "sqlite: get review item %d", id)
}

func (s *SQLiteStore) GetReviewItemByPair(ctx context.Context, sourceAID, sourceBID int64) (*model.ReviewItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+reviewColumns+` FROM review_items WHERE source_a_id = ? AND source_b_id = ?`,
		sourceAID, sourceBID,
	)
	r, err := scanReviewItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, eris.Wrapf(err, "sqlite: get review item (%d, %d)", sourceAID, sourceBID)
}

func (s *SQLiteStore) ListReviewItems(ctx context.Context, filter ReviewFilter) ([]model.ReviewItem, error) {
	query := `SELECT ` + reviewColumns + ` FROM review_items WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY confidence DESC, id LIMIT ?`
	args = append(args, listLimit(filter.Limit))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list review items")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ReviewItem
	for rows.Next() {
		r, err := scanReviewItem(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan review item")
		}
		out = append(out, *r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list review items iterate")
}

func (s *SQLiteStore) SetReviewStatus(ctx context.Context, id int64, status model.ReviewStatus) error {
	if !status.Valid() {
		return eris.Errorf("sqlite: invalid review status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE review_items SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set review status %d", id)
	}
	return checkRowsAffected(res, "review item", id)
}

// helpers

func checkRowsAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %d", entity, id)
	}
	return nil
}
