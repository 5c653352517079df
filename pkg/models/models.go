package models

import (
	"time"
)

// ScoreCount tallies how many distinct accepted proofs exist for a score
// milestone. Rows for the standard 2048 tile ladder are seeded at startup
// with a count of zero; off-ladder scores get a row on first acceptance.
type ScoreCount struct {
	Score int64 `json:"score" gorm:"primaryKey;autoIncrement:false"`
	Count int64 `json:"count" gorm:"not null;default:0"`
}

// TableName overrides the default pluralization
func (ScoreCount) TableName() string {
	return "score_counts"
}

// ProofRecord stores one accepted proof submission. Rows are insert-only;
// the unique index on ProofID is what prevents double-counting.
type ProofRecord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	ProofID   string    `json:"proof_id" gorm:"uniqueIndex;size:64;not null"`
	Payload   []byte    `json:"-" gorm:"not null"`
	Score     int64     `json:"score" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the default pluralization
func (ProofRecord) TableName() string {
	return "proof_records"
}
