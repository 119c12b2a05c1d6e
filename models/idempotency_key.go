package models

import "time"

// IdempotencyKey deduplicates settlement requests. The primary-key constraint
// makes a replayed key fail its insert inside the settlement transaction, so a
// retried top-up can never create a second connection.
type IdempotencyKey struct {
	Key          string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	MemberID     string    `gorm:"type:char(36);not null;index" json:"member_id"`
	ConnectionID string    `gorm:"column:connection_id;type:char(36);not null" json:"connection_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
