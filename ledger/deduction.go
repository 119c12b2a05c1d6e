package ledger

import "math"

// RoundUnit rounds a monetary value to the nearest whole currency unit. Every
// amount entering the settlement math passes through this exactly once, before
// both the affordability check and the deduction loop, so the two can never
// disagree by a rounding artifact of their inputs.
func RoundUnit(v float64) float64 {
	return math.Round(v)
}

// Buckets is a member's three balance buckets as read from the earnings row.
type Buckets struct {
	Wallet          float64
	PackageEarnings float64
	ReferralBounty  float64
}

// DeductionPlan is the outcome of a successful purchase deduction: the three
// decremented bucket values and the updated combined total.
type DeductionPlan struct {
	Wallet          float64
	PackageEarnings float64
	ReferralBounty  float64
	Combined        float64
}

// DeductPurchase spends amount against the three buckets in fixed priority
// order: wallet, then package earnings, then referral bounty. The precondition
// checks the rounded combined total; the loop works on per-bucket rounded
// values, so a defensive remainder check still applies after the loop.
func DeductPurchase(amount float64, b Buckets, combined float64) (DeductionPlan, error) {
	amount = RoundUnit(amount)
	combined = RoundUnit(combined)
	if combined < amount {
		return DeductionPlan{}, ErrInsufficientCombinedBalance
	}

	wallet := RoundUnit(b.Wallet)
	earnings := RoundUnit(b.PackageEarnings)
	bounty := RoundUnit(b.ReferralBounty)

	remaining := amount
	take := func(bucket *float64) {
		taken := math.Min(remaining, *bucket)
		*bucket -= taken
		remaining -= taken
	}
	take(&wallet)
	take(&earnings)
	take(&bounty)

	if remaining > 0 {
		return DeductionPlan{}, ErrInsufficientFunds
	}
	return DeductionPlan{
		Wallet:          wallet,
		PackageEarnings: earnings,
		ReferralBounty:  bounty,
		Combined:        combined - amount,
	}, nil
}

// WithdrawalPlan is the outcome of a withdrawal deduction. FromEarnings and
// FromBounty record how much came out of each bucket so a rejected withdrawal
// can be refunded exactly where it was drawn from.
type WithdrawalPlan struct {
	Earnings     float64
	Bounty       float64
	FromEarnings float64
	FromBounty   float64
}

// DeductWithdrawal spends amount against the two withdrawable buckets, package
// earnings first then referral bounty. The principal wallet never participates
// in withdrawals.
func DeductWithdrawal(amount, earnings, bounty float64) (WithdrawalPlan, error) {
	amount = RoundUnit(amount)
	e := RoundUnit(earnings)
	b := RoundUnit(bounty)

	remaining := amount
	fromEarnings := math.Min(remaining, e)
	e -= fromEarnings
	remaining -= fromEarnings

	fromBounty := math.Min(remaining, b)
	b -= fromBounty
	remaining -= fromBounty

	if remaining > 0 {
		return WithdrawalPlan{}, ErrInsufficientFunds
	}
	return WithdrawalPlan{
		Earnings:     e,
		Bounty:       b,
		FromEarnings: fromEarnings,
		FromBounty:   fromBounty,
	}, nil
}
