package models

import "database/sql"

const (
	// BountyCreditLegacy credits every referrer the investor's own package
	// earnings amount. This reproduces the historical settlement behavior and
	// is the default until product confirms the per-tier amounts are intended.
	BountyCreditLegacy = "legacy"
	// BountyCreditPerTier credits each referrer its own computed bounty amount.
	BountyCreditPerTier = "per-tier"
)

type Setting struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Company          string  `json:"company"`
	MinWithdraw      float64 `json:"min_withdraw"`
	MaxWithdraw      float64 `json:"max_withdraw"`
	WithdrawCharge   float64 `json:"withdraw_charge"`
	BountyCreditMode string  `json:"bounty_credit_mode"`
	Maintenance      bool    `json:"maintenance"`
	ClosedRegister   bool    `json:"closed_register"`
}

func GetSetting(db *sql.DB) (*Setting, error) {
	setting := &Setting{}
	row := db.QueryRow("SELECT id, name, company, min_withdraw, max_withdraw, withdraw_charge, bounty_credit_mode, maintenance, closed_register FROM settings LIMIT 1")
	err := row.Scan(
		&setting.ID,
		&setting.Name,
		&setting.Company,
		&setting.MinWithdraw,
		&setting.MaxWithdraw,
		&setting.WithdrawCharge,
		&setting.BountyCreditMode,
		&setting.Maintenance,
		&setting.ClosedRegister,
	)
	if err != nil {
		return nil, err
	}
	return setting, nil
}
