package ledger

// PackageEarningsAmount is the investor's own payout at maturity: the purchase
// amount times the package percentage. Unrelated to referral bounties.
func PackageEarningsAmount(amount, packagePercentage float64) float64 {
	return RoundUnit(RoundUnit(amount) * packagePercentage / 100)
}

// BountyAward is one referrer's settlement outcome. Amount is the per-tier
// bounty; Credit is the value actually added to the referrer's balance, which
// differs from Amount under the legacy credit mode.
type BountyAward struct {
	Referrer
	Amount float64
	Credit float64
}

// PurchasePlan is the full settlement decision for one purchase request:
// either a replay of an earlier settlement, or a fresh deduction plus fan-out.
type PurchasePlan struct {
	Replay             bool
	ReplayConnectionID string
	Deduction          DeductionPlan
	PackageEarnings    float64
	Awards             []BountyAward
}

// PlanPurchase decides one purchase end to end. A non-empty
// replayConnectionID means the idempotency key was already claimed by an
// earlier settlement; the plan then points at that connection and carries no
// deduction and no awards, regardless of the member's current balances. The
// replay check runs before the funds check so a retried request cannot fail
// against the balance its own first attempt already spent.
func PlanPurchase(amount float64, b Buckets, combined float64, chain []Referrer, packagePercentage float64, legacyCredit bool, replayConnectionID string) (PurchasePlan, error) {
	if replayConnectionID != "" {
		return PurchasePlan{Replay: true, ReplayConnectionID: replayConnectionID}, nil
	}
	deduction, err := DeductPurchase(amount, b, combined)
	if err != nil {
		return PurchasePlan{}, err
	}
	packageEarnings := PackageEarningsAmount(amount, packagePercentage)
	return PurchasePlan{
		Deduction:       deduction,
		PackageEarnings: packageEarnings,
		Awards:          PlanBounties(amount, chain, packageEarnings, legacyCredit),
	}, nil
}

// PlanBounties computes the bounty fan-out for one purchase. packageEarnings
// is the investor's own PackageEarningsAmount. Under legacy mode every
// referrer is credited packageEarnings, reproducing the historical settlement
// behavior; under per-tier mode each referrer is credited its own bounty.
// The log amount is the per-tier figure in both modes.
func PlanBounties(amount float64, chain []Referrer, packageEarnings float64, legacyCredit bool) []BountyAward {
	amount = RoundUnit(amount)
	paid := PaidReferrers(chain)
	awards := make([]BountyAward, 0, len(paid))
	for _, r := range paid {
		bounty := RoundUnit(amount * r.Percentage / 100)
		credit := bounty
		if legacyCredit {
			credit = packageEarnings
		}
		awards = append(awards, BountyAward{Referrer: r, Amount: bounty, Credit: credit})
	}
	return awards
}
