package model

import "time"

// ReviewStatus is the reviewer decision on a candidate pair.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

// Signals holds the individual similarity values behind a composite score.
type Signals struct {
	Domain   float64 `json:"domain" yaml:"domain"`
	Name     float64 `json:"name" yaml:"name"`
	Founded  float64 `json:"founded" yaml:"founded"`
	Founders float64 `json:"founders" yaml:"founders"`
}

// ReviewEvidence is the context a reviewer needs to judge a pair.
type ReviewEvidence struct {
	DomainA   string   `json:"domain_a,omitempty" yaml:"domain_a,omitempty"`
	DomainB   string   `json:"domain_b,omitempty" yaml:"domain_b,omitempty"`
	NameA     string   `json:"name_a,omitempty" yaml:"name_a,omitempty"`
	NameB     string   `json:"name_b,omitempty" yaml:"name_b,omitempty"`
	FoundersA []string `json:"founders_a,omitempty" yaml:"founders_a,omitempty"`
	FoundersB []string `json:"founders_b,omitempty" yaml:"founders_b,omitempty"`
}

// ReviewItem is a low-confidence candidate pair awaiting a human decision.
// The (SourceAID, SourceBID) pair is unique.
type ReviewItem struct {
	ID         int64          `json:"id" yaml:"id" db:"id"`
	SourceAID  int64          `json:"source_a_id" yaml:"source_a_id" db:"source_a_id"`
	SourceBID  int64          `json:"source_b_id" yaml:"source_b_id" db:"source_b_id"`
	Confidence float64        `json:"confidence" yaml:"confidence" db:"confidence"`
	Signals    Signals        `json:"signals" yaml:"signals" db:"signals"`
	Evidence   ReviewEvidence `json:"evidence" yaml:"evidence" db:"evidence"`
	Status     ReviewStatus   `json:"status" yaml:"status" db:"status"`
	CreatedAt  time.Time      `json:"created_at" yaml:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" yaml:"updated_at" db:"updated_at"`
}
