package ledger

import "testing"

func TestCommissionPercent(t *testing.T) {
	cases := []struct {
		tier int
		want float64
	}{
		{1, 10},
		{2, 1.5},
		{3, 1.5},
		{4, 1.5},
		{5, 1},
		{7, 1},
		{10, 1},
		{11, 0},
		{50, 0},
	}
	for _, c := range cases {
		if got := CommissionPercent(c.tier); got != c.want {
			t.Errorf("tier %d: got %v, want %v", c.tier, got, c.want)
		}
	}
}

func TestResolveChain_EmptyAncestry(t *testing.T) {
	chain, err := ResolveChain(nil, "me", MaxChainDepth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 0 {
		t.Fatalf("expected empty chain for root member, got %d entries", len(chain))
	}
}

func TestResolveChain_MissingSelf(t *testing.T) {
	_, err := ResolveChain([]string{"root", "sponsorA"}, "me", MaxChainDepth)
	if err != ErrInvalidHierarchy {
		t.Fatalf("expected ErrInvalidHierarchy, got %v", err)
	}
}

func TestResolveChain_SponsorOrdering(t *testing.T) {
	chain, err := ResolveChain([]string{"root", "sponsorA", "sponsorB", "me"}, "me", MaxChainDepth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Referrer{
		{MemberID: "sponsorB", Tier: 1, Percentage: 10},
		{MemberID: "sponsorA", Tier: 2, Percentage: 1.5},
		{MemberID: "root", Tier: 3, Percentage: 1.5},
	}
	if len(chain) != len(want) {
		t.Fatalf("expected %d referrers, got %d", len(want), len(chain))
	}
	for i, r := range chain {
		if r != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, r, want[i])
		}
	}
}

func TestResolveChain_NeverIncludesSelf(t *testing.T) {
	chain, err := ResolveChain([]string{"root", "me", "sponsorB", "me"}, "me", MaxChainDepth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range chain {
		if r.MemberID == "me" {
			t.Fatalf("purchasing member leaked into its own chain: %+v", chain)
		}
	}
}

func TestResolveChain_DepthCapAndDedup(t *testing.T) {
	ancestors := make([]string, 0, 130)
	for i := 0; i < 128; i++ {
		ancestors = append(ancestors, "up"+itoa(i%120)) // a few repeats
	}
	ancestors = append(ancestors, "me")

	chain, err := ResolveChain(ancestors, "me", MaxChainDepth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) > MaxChainDepth {
		t.Fatalf("chain exceeds max depth: %d", len(chain))
	}
	seen := map[string]bool{}
	for i, r := range chain {
		if r.Tier != i+1 {
			t.Fatalf("tier not ascending at %d: %+v", i, r)
		}
		if seen[r.MemberID] {
			t.Fatalf("referrer %s appears twice", r.MemberID)
		}
		seen[r.MemberID] = true
	}
}

func TestPaidReferrers_TruncatesAtTierTen(t *testing.T) {
	ancestors := make([]string, 0, 21)
	for i := 0; i < 20; i++ {
		ancestors = append(ancestors, "up"+itoa(i))
	}
	ancestors = append(ancestors, "me")

	chain, err := ResolveChain(ancestors, "me", MaxChainDepth)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 20 {
		t.Fatalf("expected full 20-deep chain, got %d", len(chain))
	}
	paid := PaidReferrers(chain)
	if len(paid) != MaxPaidTier {
		t.Fatalf("expected %d paid tiers, got %d", MaxPaidTier, len(paid))
	}
	if last := paid[len(paid)-1]; last.Tier != MaxPaidTier || last.Percentage != 1 {
		t.Fatalf("unexpected final paid tier: %+v", last)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
