package models

import "time"

// PackageConnection is one top-up event: principal and the earnings the member
// will receive at maturity. Amounts are immutable after creation; only the
// status and claim timestamp change when the connection is closed.
type PackageConnection struct {
	ID             string     `gorm:"primaryKey;type:char(36)" json:"id"`
	MemberID       string     `gorm:"type:char(36);not null;index" json:"member_id"`
	PackageID      string     `gorm:"type:char(36);not null;index" json:"package_id"`
	Amount         float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	AmountEarnings float64    `gorm:"column:amount_earnings;type:decimal(15,2);not null" json:"amount_earnings"`
	Status         string     `gorm:"type:enum('ACTIVE','CLOSED');default:'ACTIVE'" json:"status"`
	MaturesAt      time.Time  `gorm:"column:matures_at;not null" json:"matures_at"`
	ClaimedAt      *time.Time `gorm:"column:claimed_at" json:"claimed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

func (PackageConnection) TableName() string {
	return "package_connections"
}
