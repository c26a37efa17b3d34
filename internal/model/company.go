package model

import (
	"time"
)

// Field names a merged attribute of a CanonicalCompany.
type Field string

const (
	FieldName             Field = "name"
	FieldWebsite          Field = "website"
	FieldDescription      Field = "description"
	FieldLongDescription  Field = "long_description"
	FieldIndustries       Field = "industries"
	FieldSimilarCompanies Field = "similar_companies"
	FieldAcquired         Field = "acquired"
	FieldStockSymbol      Field = "stock_symbol"
	FieldFounded          Field = "founded"
	FieldFundingTotalUSD  Field = "funding_total_usd"
	FieldFundingRounds    Field = "funding_rounds"
	FieldFounders         Field = "founders"
	FieldLogo             Field = "logo"
)

// AllFields lists every mergeable field in a stable order.
var AllFields = []Field{
	FieldName, FieldWebsite, FieldDescription, FieldLongDescription,
	FieldIndustries, FieldSimilarCompanies, FieldAcquired, FieldStockSymbol,
	FieldFounded, FieldFundingTotalUSD, FieldFundingRounds, FieldFounders,
	FieldLogo,
}

// CanonicalCompany is the golden record for a company. Key is the upsert
// key: the normalized domain when known, otherwise a source-prefixed URL.
type CanonicalCompany struct {
	ID               int64  `json:"id" yaml:"id" db:"id"`
	Key              string `json:"key" yaml:"key" db:"company_key"`
	NormalizedDomain string `json:"normalized_domain,omitempty" yaml:"normalized_domain,omitempty" db:"normalized_domain"`
	Name             string `json:"name" yaml:"name" db:"name"`
	Website          string `json:"website,omitempty" yaml:"website,omitempty" db:"website"`

	// Source linkage
	SourceAURL      string  `json:"source_a_url,omitempty" yaml:"source_a_url,omitempty" db:"source_a_url"`
	SourceBURL      string  `json:"source_b_url,omitempty" yaml:"source_b_url,omitempty" db:"source_b_url"`
	MatchConfidence float64 `json:"match_confidence" yaml:"match_confidence" db:"match_confidence"`

	Industries       []string `json:"industries,omitempty" yaml:"industries,omitempty" db:"industries"`
	SimilarCompanies []string `json:"similar_companies,omitempty" yaml:"similar_companies,omitempty" db:"similar_companies"`
	Description      string   `json:"description,omitempty" yaml:"description,omitempty" db:"description"`
	LongDescription  string   `json:"long_description,omitempty" yaml:"long_description,omitempty" db:"long_description"`

	FundingTotalUSD float64        `json:"funding_total_usd" yaml:"funding_total_usd" db:"funding_total_usd"`
	FundingRounds   []FundingRound `json:"funding_rounds,omitempty" yaml:"funding_rounds,omitempty" db:"funding_rounds"`
	LastFundingDate string         `json:"last_funding_date,omitempty" yaml:"last_funding_date,omitempty" db:"last_funding_date"`
	LastFundingType string         `json:"last_funding_type,omitempty" yaml:"last_funding_type,omitempty" db:"last_funding_type"`

	Founders    []string `json:"founders,omitempty" yaml:"founders,omitempty" db:"founders"`
	Logo        string   `json:"logo,omitempty" yaml:"logo,omitempty" db:"logo"`
	Founded     string   `json:"founded,omitempty" yaml:"founded,omitempty" db:"founded"`
	Acquired    string   `json:"acquired,omitempty" yaml:"acquired,omitempty" db:"acquired"`
	StockSymbol string   `json:"stock_symbol,omitempty" yaml:"stock_symbol,omitempty" db:"stock_symbol"`

	// Provenance
	Sources        []Source         `json:"sources" yaml:"sources" db:"sources"`
	SourcePriority map[Field]Source `json:"source_priority" yaml:"source_priority" db:"source_priority"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}

// CompanyKey derives the upsert key for a golden record.
func CompanyKey(domain, sourceAURL, sourceBURL string) string {
	switch {
	case domain != "":
		return domain
	case sourceAURL != "":
		return "a:" + sourceAURL
	default:
		return "b:" + sourceBURL
	}
}

// HasSource reports whether src contributed to the record.
func (c *CanonicalCompany) HasSource(src Source) bool {
	for _, s := range c.Sources {
		if s == src {
			return true
		}
	}
	return false
}
