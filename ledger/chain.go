package ledger

const (
	// MaxChainDepth caps how far up the hierarchy the resolver walks.
	MaxChainDepth = 100
	// MaxPaidTier is the deepest tier that earns commission. The resolver may
	// return up to MaxChainDepth entries; settlement pays tiers 1..MaxPaidTier.
	MaxPaidTier = 10
)

// CommissionPercent is the static tier -> bounty percentage table.
func CommissionPercent(tier int) float64 {
	switch {
	case tier == 1:
		return 10
	case tier >= 2 && tier <= 4:
		return 1.5
	case tier >= 5 && tier <= MaxPaidTier:
		return 1
	default:
		return 0
	}
}

// Referrer is one upline member entitled to a bounty. Tier 1 is the immediate
// sponsor of the purchasing member.
type Referrer struct {
	MemberID   string
	Tier       int
	Percentage float64
}

// ResolveChain turns a member's ordered ancestor list (root first, own id
// included) into its upline chain, immediate sponsor first, truncated to
// maxDepth. An empty ancestor list means the member has no upline. A non-empty
// list that does not contain the member's own id is corrupt and fails with
// ErrInvalidHierarchy. The purchasing member never appears in the output and
// no referrer id is repeated.
func ResolveChain(ancestors []string, memberID string, maxDepth int) ([]Referrer, error) {
	if len(ancestors) == 0 {
		return nil, nil
	}
	pos := -1
	for i, id := range ancestors {
		if id == memberID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, ErrInvalidHierarchy
	}

	upline := ancestors[:pos]
	chain := make([]Referrer, 0, len(upline))
	seen := make(map[string]struct{}, len(upline))
	for i := len(upline) - 1; i >= 0; i-- {
		id := upline[i]
		if id == memberID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		tier := len(chain) + 1
		chain = append(chain, Referrer{MemberID: id, Tier: tier, Percentage: CommissionPercent(tier)})
		if len(chain) >= maxDepth {
			break
		}
	}
	return chain, nil
}

// PaidReferrers filters a resolved chain down to the tiers that earn
// commission. This truncation is policy, distinct from the resolver's depth cap.
func PaidReferrers(chain []Referrer) []Referrer {
	out := make([]Referrer, 0, len(chain))
	for _, r := range chain {
		if r.Tier > MaxPaidTier {
			break
		}
		out = append(out, r)
	}
	return out
}
