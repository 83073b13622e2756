package models

import "time"

// SequenceCounter stores the last issued value for named monotonic counters.
// Rows are upserted atomically; SequenceValue only ever moves forward.
type SequenceCounter struct {
	Name          string    `gorm:"primaryKey;size:64" json:"name"`
	SequenceValue int64     `gorm:"not null;default:0" json:"sequence_value"`
	CreatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }

// SequenceCounterFilter represents filter criteria for counter queries
type SequenceCounterFilter struct {
	Name *string `json:"name,omitempty"`
}
