package store

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-resolver/internal/model"
)

// Column lists are shared by both drivers. Nullable text columns are read
// through COALESCE so "" stands in for NULL.
const (
	sourceAColumns = `id, url, name, website, founders, industries, description, long_description,
	founded, funding, funding_usd, last_funding, logo, acquired, stock_symbol, similar_companies,
	COALESCE(normalized_domain, ''), normalized_name, created_at, updated_at`

	sourceBColumns = `id, url, name, website, founders, founded, description, logo, hq_location,
	funding_total, funding_total_usd, funding_rounds, COALESCE(normalized_domain, ''), matched,
	created_at, updated_at`

	companyColumns = `id, company_key, COALESCE(normalized_domain, ''), name, website,
	COALESCE(source_a_url, ''), COALESCE(source_b_url, ''), match_confidence, industries,
	similar_companies, description, long_description, funding_total_usd, funding_rounds,
	last_funding_date, last_funding_type, founders, logo, founded, acquired, stock_symbol,
	sources, source_priority, created_at, updated_at`

	reviewColumns = `id, source_a_id, source_b_id, confidence, signals, evidence, status,
	created_at, updated_at`
)

type scannable interface {
	Scan(dest ...any) error
}

// jsonArg marshals v for a JSON column. Nil slices are stored as [].
func jsonArg(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal json column")
	}
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

func decodeJSON(data []byte, dest any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return eris.Wrap(json.Unmarshal(data, dest), "store: unmarshal json column")
}

func scanSourceA(row scannable) (*model.SourceRecordA, error) {
	var a model.SourceRecordA
	var founders, industries, similar []byte
	err := row.Scan(
		&a.ID, &a.URL, &a.Name, &a.Website, &founders, &industries, &a.Description,
		&a.LongDescription, &a.Founded, &a.Funding, &a.FundingUSD, &a.LastFunding,
		&a.Logo, &a.Acquired, &a.StockSymbol, &similar, &a.NormalizedDomain,
		&a.NormalizedName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		data []byte
		dest *[]string
	}{{founders, &a.Founders}, {industries, &a.Industries}, {similar, &a.SimilarCompanies}} {
		if err := decodeJSON(f.data, f.dest); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

func scanSourceB(row scannable) (*model.SourceRecordB, error) {
	var b model.SourceRecordB
	var founders, rounds []byte
	err := row.Scan(
		&b.ID, &b.URL, &b.Name, &b.Website, &founders, &b.Founded, &b.Description,
		&b.Logo, &b.HQLocation, &b.FundingTotal, &b.FundingTotalUSD, &rounds,
		&b.NormalizedDomain, &b.Matched, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(founders, &b.Founders); err != nil {
		return nil, err
	}
	if err := decodeJSON(rounds, &b.FundingRounds); err != nil {
		return nil, err
	}
	return &b, nil
}

func scanCompany(row scannable) (*model.CanonicalCompany, error) {
	var c model.CanonicalCompany
	var industries, similar, rounds, founders, sources, priority []byte
	err := row.Scan(
		&c.ID, &c.Key, &c.NormalizedDomain, &c.Name, &c.Website,
		&c.SourceAURL, &c.SourceBURL, &c.MatchConfidence, &industries,
		&similar, &c.Description, &c.LongDescription, &c.FundingTotalUSD, &rounds,
		&c.LastFundingDate, &c.LastFundingType, &founders, &c.Logo, &c.Founded,
		&c.Acquired, &c.StockSymbol, &sources, &priority, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		data []byte
		dest any
	}{
		{industries, &c.Industries},
		{similar, &c.SimilarCompanies},
		{rounds, &c.FundingRounds},
		{founders, &c.Founders},
		{sources, &c.Sources},
		{priority, &c.SourcePriority},
	} {
		if err := decodeJSON(f.data, f.dest); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func scanReviewItem(row scannable) (*model.ReviewItem, error) {
	var r model.ReviewItem
	var signals, evidence []byte
	err := row.Scan(
		&r.ID, &r.SourceAID, &r.SourceBID, &r.Confidence, &signals, &evidence,
		&r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(signals, &r.Signals); err != nil {
		return nil, err
	}
	if err := decodeJSON(evidence, &r.Evidence); err != nil {
		return nil, err
	}
	return &r, nil
}

// companyJSON holds the encoded JSON columns of a golden record.
type companyJSON struct {
	industries, similar, rounds, founders, sources, priority []byte
}

func encodeCompany(c *model.CanonicalCompany) (*companyJSON, error) {
	var out companyJSON
	var err error
	if out.industries, err = jsonArg(c.Industries); err != nil {
		return nil, err
	}
	if out.similar, err = jsonArg(c.SimilarCompanies); err != nil {
		return nil, err
	}
	if out.rounds, err = jsonArg(c.FundingRounds); err != nil {
		return nil, err
	}
	if out.founders, err = jsonArg(c.Founders); err != nil {
		return nil, err
	}
	if out.sources, err = jsonArg(c.Sources); err != nil {
		return nil, err
	}
	priority := c.SourcePriority
	if priority == nil {
		priority = map[model.Field]model.Source{}
	}
	if out.priority, err = jsonArg(priority); err != nil {
		return nil, err
	}
	return &out, nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
