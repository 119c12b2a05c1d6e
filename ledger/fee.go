package ledger

// BucketKind names the balance bucket a withdrawal is drawn against.
type BucketKind string

const (
	BucketPackage  BucketKind = "PACKAGE"
	BucketReferral BucketKind = "REFERRAL"
	BucketTotal    BucketKind = "TOTAL"
)

// MinWithdrawalAmount is the platform floor for a single withdrawal request.
const MinWithdrawalAmount = 30

// WithdrawalFee computes the platform fee for withdrawing amount from the
// given bucket. Income buckets carry a 10% fee; anything else is free.
func WithdrawalFee(amount float64, kind BucketKind) float64 {
	if kind == BucketPackage || kind == BucketReferral {
		return RoundUnit(amount * 0.10)
	}
	return 0
}

// WithdrawalNet returns the fee and the payable amount after the fee.
func WithdrawalNet(amount float64, kind BucketKind) (fee, final float64) {
	fee = WithdrawalFee(amount, kind)
	return fee, RoundUnit(amount) - fee
}
