package models

import "time"

const (
	BountyTypeDirect   = "DIRECT"
	BountyTypeIndirect = "INDIRECT"
)

// BountyLog is append-only: one row per (referrer, triggering connection).
// BountyEarnings always carries the per-tier computed amount, independent of
// which credit mode actually moved the money.
type BountyLog struct {
	ID             string    `gorm:"primaryKey;type:char(36)" json:"id"`
	ReferrerID     string    `gorm:"column:referrer_id;type:char(36);not null;index" json:"referrer_id"`
	Percentage     float64   `gorm:"type:decimal(5,2);not null" json:"percentage"`
	BountyEarnings float64   `gorm:"column:bounty_earnings;type:decimal(15,2);not null" json:"bounty_earnings"`
	Type           string    `gorm:"type:enum('DIRECT','INDIRECT');not null" json:"type"`
	ConnectionID   string    `gorm:"column:connection_id;type:char(36);not null;index" json:"connection_id"`
	FromMemberID   string    `gorm:"column:from_member_id;type:char(36);not null" json:"from_member_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func (BountyLog) TableName() string {
	return "bounty_logs"
}
