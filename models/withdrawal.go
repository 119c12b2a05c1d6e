package models

import "time"

const (
	WithdrawalStatusPending  = "PENDING"
	WithdrawalStatusApproved = "APPROVED"
	WithdrawalStatusRejected = "REJECTED"
)

// Withdrawal records a payout request. FromEarnings/FromBounty remember which
// buckets the amount was drawn from so a rejection can refund them exactly.
type Withdrawal struct {
	ID            string    `gorm:"primaryKey;type:char(36)" json:"id"`
	MemberID      string    `gorm:"type:char(36);not null;index" json:"member_id"`
	Amount        float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Charge        float64   `gorm:"type:decimal(15,2);not null;default:0.00" json:"charge"`
	FinalAmount   float64   `gorm:"column:final_amount;type:decimal(15,2);not null" json:"final_amount"`
	FromEarnings  float64   `gorm:"column:from_earnings;type:decimal(15,2);not null;default:0" json:"from_earnings"`
	FromBounty    float64   `gorm:"column:from_bounty;type:decimal(15,2);not null;default:0" json:"from_bounty"`
	Bank          string    `gorm:"size:100;not null" json:"bank"`
	AccountName   string    `gorm:"column:account_name;size:100;not null" json:"account_name"`
	AccountNumber string    `gorm:"column:account_number;size:50;not null" json:"account_number"`
	Email         *string   `gorm:"size:100" json:"email,omitempty"`
	Cellphone     *string   `gorm:"size:20" json:"cellphone,omitempty"`
	OrderID       string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	Status        string    `gorm:"type:enum('PENDING','APPROVED','REJECTED');not null;default:'PENDING'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
