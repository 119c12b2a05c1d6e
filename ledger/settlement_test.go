package ledger

import "testing"

func TestWithdrawalFee(t *testing.T) {
	cases := []struct {
		amount float64
		kind   BucketKind
		want   float64
	}{
		{100, BucketPackage, 10},
		{100, BucketReferral, 10},
		{100, BucketTotal, 0},
		{30, BucketPackage, 3},
		{55, BucketReferral, 6}, // 5.5 rounds up
	}
	for _, c := range cases {
		if got := WithdrawalFee(c.amount, c.kind); got != c.want {
			t.Errorf("fee(%v, %s): got %v, want %v", c.amount, c.kind, got, c.want)
		}
	}
	fee, final := WithdrawalNet(100, BucketPackage)
	if fee != 10 || final != 90 {
		t.Fatalf("net(100, PACKAGE): got fee=%v final=%v", fee, final)
	}
}

func TestPackageEarningsAmount(t *testing.T) {
	if got := PackageEarningsAmount(1000, 10); got != 100 {
		t.Fatalf("got %v, want 100", got)
	}
	if got := PackageEarningsAmount(333, 7.5); got != 25 {
		t.Fatalf("got %v, want 25", got)
	}
}

func TestPlanBounties_PerTier(t *testing.T) {
	chain := []Referrer{
		{MemberID: "sponsorB", Tier: 1, Percentage: 10},
		{MemberID: "sponsorA", Tier: 2, Percentage: 1.5},
		{MemberID: "root", Tier: 3, Percentage: 1.5},
	}
	awards := PlanBounties(1000, chain, 100, false)
	if len(awards) != 3 {
		t.Fatalf("expected 3 awards, got %d", len(awards))
	}
	wantAmounts := []float64{100, 15, 15}
	for i, a := range awards {
		if a.Amount != wantAmounts[i] {
			t.Errorf("award %d amount: got %v, want %v", i, a.Amount, wantAmounts[i])
		}
		if a.Credit != a.Amount {
			t.Errorf("award %d: per-tier mode must credit the bounty amount, got %v", i, a.Credit)
		}
	}
}

func TestPlanBounties_LegacyCreditsPackageEarnings(t *testing.T) {
	chain := []Referrer{
		{MemberID: "sponsorB", Tier: 1, Percentage: 10},
		{MemberID: "sponsorA", Tier: 2, Percentage: 1.5},
		{MemberID: "root", Tier: 3, Percentage: 1.5},
	}
	awards := PlanBounties(1000, chain, 100, true)
	wantAmounts := []float64{100, 15, 15}
	for i, a := range awards {
		if a.Amount != wantAmounts[i] {
			t.Errorf("award %d log amount: got %v, want %v", i, a.Amount, wantAmounts[i])
		}
		if a.Credit != 100 {
			t.Errorf("award %d: legacy mode credits the investor's package earnings, got %v", i, a.Credit)
		}
	}
}

func TestPlanBounties_EmptyChain(t *testing.T) {
	if awards := PlanBounties(1000, nil, 100, true); len(awards) != 0 {
		t.Fatalf("no upline must mean no awards, got %d", len(awards))
	}
}

func TestPlanPurchase_FreshSettlement(t *testing.T) {
	chain := []Referrer{{MemberID: "sponsor", Tier: 1, Percentage: 10}}
	p, err := PlanPurchase(100, Buckets{Wallet: 100}, 100, chain, 20, false, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Replay {
		t.Fatal("no idempotency match must mean a fresh settlement")
	}
	if p.Deduction.Wallet != 0 || p.Deduction.Combined != 0 {
		t.Fatalf("deduction: got wallet=%v combined=%v, want both 0", p.Deduction.Wallet, p.Deduction.Combined)
	}
	if p.PackageEarnings != 20 {
		t.Fatalf("package earnings: got %v, want 20", p.PackageEarnings)
	}
	if len(p.Awards) != 1 || p.Awards[0].Amount != 10 {
		t.Fatalf("expected one tier-1 award of 10, got %+v", p.Awards)
	}
}

// A second request with the key already claimed must return the original
// connection and trigger no second deduction or fan-out, even though the
// first settlement already consumed the member's entire balance.
func TestPlanPurchase_ReplaySettlesNothing(t *testing.T) {
	chain := []Referrer{{MemberID: "sponsor", Tier: 1, Percentage: 10}}

	first, err := PlanPurchase(100, Buckets{Wallet: 100}, 100, chain, 20, false, "")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if first.Replay || len(first.Awards) != 1 {
		t.Fatalf("first request must settle once with one award, got %+v", first)
	}

	drained := Buckets{
		Wallet:          first.Deduction.Wallet,
		PackageEarnings: first.Deduction.PackageEarnings,
		ReferralBounty:  first.Deduction.ReferralBounty,
	}
	second, err := PlanPurchase(100, drained, first.Deduction.Combined, chain, 20, false, "conn-1")
	if err != nil {
		t.Fatalf("replay must not fail against the balance the first attempt spent: %v", err)
	}
	if !second.Replay {
		t.Fatal("claimed key must mark the plan as a replay")
	}
	if second.ReplayConnectionID != "conn-1" {
		t.Fatalf("replay must point at the original connection, got %q", second.ReplayConnectionID)
	}
	if len(second.Awards) != 0 {
		t.Fatalf("replay must produce no fan-out, got %d awards", len(second.Awards))
	}
	if second.Deduction != (DeductionPlan{}) {
		t.Fatalf("replay must carry no deduction, got %+v", second.Deduction)
	}
}

func TestPlanPurchase_PropagatesInsufficiency(t *testing.T) {
	_, err := PlanPurchase(100, Buckets{Wallet: 10}, 10, nil, 20, false, "")
	if err != ErrInsufficientCombinedBalance {
		t.Fatalf("expected ErrInsufficientCombinedBalance, got %v", err)
	}
}

func TestPlanBounties_IgnoresUnpaidTiers(t *testing.T) {
	chain := make([]Referrer, 0, 15)
	for i := 0; i < 15; i++ {
		tier := i + 1
		chain = append(chain, Referrer{MemberID: "up" + itoa(i), Tier: tier, Percentage: CommissionPercent(tier)})
	}
	awards := PlanBounties(500, chain, 50, false)
	if len(awards) != MaxPaidTier {
		t.Fatalf("expected %d paid awards, got %d", MaxPaidTier, len(awards))
	}
}
