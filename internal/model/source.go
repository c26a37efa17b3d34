package model

import "time"

// Source identifies the upstream scraper a record came from.
type Source string

const (
	SourceA Source = "A"
	SourceB Source = "B"
)

// SourceRecordA is a raw company record scraped from the first source.
// URL is the identity; records are upserted by URL and never deleted.
type SourceRecordA struct {
	ID               int64     `json:"id" yaml:"id" db:"id"`
	URL              string    `json:"url" yaml:"url" db:"url"`
	Name             string    `json:"name" yaml:"name" db:"name"`
	Website          string    `json:"website,omitempty" yaml:"website,omitempty" db:"website"`
	Founders         []string  `json:"founders,omitempty" yaml:"founders,omitempty" db:"founders"`
	Industries       []string  `json:"industries,omitempty" yaml:"industries,omitempty" db:"industries"`
	Description      string    `json:"description,omitempty" yaml:"description,omitempty" db:"description"`
	LongDescription  string    `json:"long_description,omitempty" yaml:"long_description,omitempty" db:"long_description"`
	Founded          string    `json:"founded,omitempty" yaml:"founded,omitempty" db:"founded"`
	Funding          string    `json:"funding,omitempty" yaml:"funding,omitempty" db:"funding"`
	FundingUSD       float64   `json:"funding_usd,omitempty" yaml:"funding_usd,omitempty" db:"funding_usd"`
	LastFunding      string    `json:"last_funding,omitempty" yaml:"last_funding,omitempty" db:"last_funding"`
	Logo             string    `json:"logo,omitempty" yaml:"logo,omitempty" db:"logo"`
	Acquired         string    `json:"acquired,omitempty" yaml:"acquired,omitempty" db:"acquired"`
	StockSymbol      string    `json:"stock_symbol,omitempty" yaml:"stock_symbol,omitempty" db:"stock_symbol"`
	SimilarCompanies []string  `json:"similar_companies,omitempty" yaml:"similar_companies,omitempty" db:"similar_companies"`
	NormalizedDomain string    `json:"normalized_domain,omitempty" yaml:"normalized_domain,omitempty" db:"normalized_domain"`
	NormalizedName   string    `json:"normalized_name,omitempty" yaml:"normalized_name,omitempty" db:"normalized_name"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}

// FundingRound is a single round reported by source B. Rounds are carried
// through merges verbatim.
type FundingRound struct {
	RoundType string   `json:"round_type,omitempty" yaml:"round_type,omitempty"`
	Amount    string   `json:"amount,omitempty" yaml:"amount,omitempty"`
	AmountUSD float64  `json:"amount_usd,omitempty" yaml:"amount_usd,omitempty"`
	Date      string   `json:"date,omitempty" yaml:"date,omitempty"`
	Investors []string `json:"investors,omitempty" yaml:"investors,omitempty"`
}

// SourceRecordB is a raw company record scraped from the second source.
// Matched flips to true only once the record has been consumed by a merge
// or single-source creation.
type SourceRecordB struct {
	ID               int64          `json:"id" yaml:"id" db:"id"`
	URL              string         `json:"url" yaml:"url" db:"url"`
	Name             string         `json:"name" yaml:"name" db:"name"`
	Website          string         `json:"website,omitempty" yaml:"website,omitempty" db:"website"`
	Founders         []string       `json:"founders,omitempty" yaml:"founders,omitempty" db:"founders"`
	Founded          string         `json:"founded,omitempty" yaml:"founded,omitempty" db:"founded"`
	Description      string         `json:"description,omitempty" yaml:"description,omitempty" db:"description"`
	Logo             string         `json:"logo,omitempty" yaml:"logo,omitempty" db:"logo"`
	HQLocation       string         `json:"hq_location,omitempty" yaml:"hq_location,omitempty" db:"hq_location"`
	FundingTotal     string         `json:"funding_total,omitempty" yaml:"funding_total,omitempty" db:"funding_total"`
	FundingTotalUSD  float64        `json:"funding_total_usd,omitempty" yaml:"funding_total_usd,omitempty" db:"funding_total_usd"`
	FundingRounds    []FundingRound `json:"funding_rounds,omitempty" yaml:"funding_rounds,omitempty" db:"funding_rounds"`
	NormalizedDomain string         `json:"normalized_domain,omitempty" yaml:"normalized_domain,omitempty" db:"normalized_domain"`
	Matched          bool           `json:"matched" yaml:"matched" db:"matched"`
	CreatedAt        time.Time      `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}

// ShardKey returns the key used to serialize work on this record: the
// normalized domain when known, otherwise the source URL.
func (b *SourceRecordB) ShardKey() string {
	if b.NormalizedDomain != "" {
		return b.NormalizedDomain
	}
	return "b:" + b.URL
}
