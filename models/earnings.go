package models

import "time"

// Earnings is the one-per-member wallet record. CombinedEarnings is persisted
// for query convenience but must always equal the sum of the three buckets;
// every mutation goes through code that maintains that equality.
type Earnings struct {
	MemberID         string    `gorm:"primaryKey;type:char(36)" json:"member_id"`
	OlympusWallet    float64   `gorm:"column:olympus_wallet;type:decimal(15,2);not null;default:0" json:"olympus_wallet"`
	OlympusEarnings  float64   `gorm:"column:olympus_earnings;type:decimal(15,2);not null;default:0" json:"olympus_earnings"`
	ReferralBounty   float64   `gorm:"column:referral_bounty;type:decimal(15,2);not null;default:0" json:"referral_bounty"`
	CombinedEarnings float64   `gorm:"column:combined_earnings;type:decimal(15,2);not null;default:0" json:"combined_earnings"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

func (Earnings) TableName() string {
	return "earnings"
}
