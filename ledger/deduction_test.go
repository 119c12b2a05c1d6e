package ledger

import "testing"

func TestDeductPurchase_SpansBuckets(t *testing.T) {
	// wallet=100, packageEarnings=50, referralBounty=0, spend 120
	plan, err := DeductPurchase(120, Buckets{Wallet: 100, PackageEarnings: 50}, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Wallet != 0 || plan.PackageEarnings != 30 || plan.ReferralBounty != 0 {
		t.Fatalf("unexpected buckets: %+v", plan)
	}
	if plan.Combined != 30 {
		t.Fatalf("combined should decrease by the full amount, got %v", plan.Combined)
	}
}

func TestDeductPurchase_ExactCombined(t *testing.T) {
	plan, err := DeductPurchase(150, Buckets{Wallet: 100, PackageEarnings: 30, ReferralBounty: 20}, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Wallet != 0 || plan.PackageEarnings != 0 || plan.ReferralBounty != 0 || plan.Combined != 0 {
		t.Fatalf("expected all buckets drained, got %+v", plan)
	}
}

func TestDeductPurchase_InsufficientCombined(t *testing.T) {
	_, err := DeductPurchase(200, Buckets{Wallet: 100, PackageEarnings: 50}, 150)
	if err != ErrInsufficientCombinedBalance {
		t.Fatalf("expected ErrInsufficientCombinedBalance, got %v", err)
	}
}

func TestDeductPurchase_RoundingDriftCaught(t *testing.T) {
	// Combined is stored high enough to pass the precondition, but the
	// rounded buckets cannot actually cover the amount.
	_, err := DeductPurchase(100, Buckets{Wallet: 49.4, PackageEarnings: 49.4}, 100.2)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected defensive ErrInsufficientFunds, got %v", err)
	}
}

func TestDeductPurchase_NeverNegativeAndConserves(t *testing.T) {
	cases := []struct {
		amount   float64
		b        Buckets
		combined float64
	}{
		{10, Buckets{Wallet: 10}, 10},
		{75, Buckets{Wallet: 50, PackageEarnings: 20, ReferralBounty: 5}, 75},
		{75, Buckets{Wallet: 0, PackageEarnings: 60, ReferralBounty: 40}, 100},
		{1, Buckets{ReferralBounty: 1}, 1},
		{99, Buckets{Wallet: 33, PackageEarnings: 33, ReferralBounty: 33}, 99},
	}
	for i, c := range cases {
		plan, err := DeductPurchase(c.amount, c.b, c.combined)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if plan.Wallet < 0 || plan.PackageEarnings < 0 || plan.ReferralBounty < 0 {
			t.Fatalf("case %d: negative bucket in %+v", i, plan)
		}
		deducted := (RoundUnit(c.b.Wallet) - plan.Wallet) +
			(RoundUnit(c.b.PackageEarnings) - plan.PackageEarnings) +
			(RoundUnit(c.b.ReferralBounty) - plan.ReferralBounty)
		if deducted != RoundUnit(c.amount) {
			t.Fatalf("case %d: deductions sum to %v, want %v", i, deducted, c.amount)
		}
	}
}

func TestDeductWithdrawal_EarningsFirst(t *testing.T) {
	plan, err := DeductWithdrawal(50, 40, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.FromEarnings != 40 || plan.FromBounty != 10 {
		t.Fatalf("unexpected draw order: %+v", plan)
	}
	if plan.Earnings != 0 || plan.Bounty != 20 {
		t.Fatalf("unexpected remaining buckets: %+v", plan)
	}
}

func TestDeductWithdrawal_Insufficient(t *testing.T) {
	// earnings=20, bounty=5, withdraw 30 -> remainder 5
	_, err := DeductWithdrawal(30, 20, 5)
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}
