// Package ledger implements the wallet and commission settlement core: the
// referral chain resolver, the commission table, the ordered bucket deduction
// engines and the bounty fan-out planner. Everything here is pure computation;
// persistence stays in the HTTP controllers.
package ledger

// Kind classifies an error for the handler boundary, which maps it to an HTTP
// status. Business and validation failures are values, not panics.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindRateLimited
	KindNotFound
	KindBusinessRule
	KindPersistence
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	// ErrInvalidHierarchy: a stored hierarchy path that does not contain the
	// member's own id. This is corrupt data, not a user mistake.
	ErrInvalidHierarchy = &Error{Kind: KindPersistence, Message: "hierarchy path does not contain member id"}

	// ErrInsufficientCombinedBalance: the rounded combined total cannot cover
	// the requested amount.
	ErrInsufficientCombinedBalance = &Error{Kind: KindBusinessRule, Message: "insufficient combined balance"}

	// ErrInsufficientFunds: the per-bucket deduction loop left a remainder.
	// Guards against rounding drift between the combined total and the buckets.
	ErrInsufficientFunds = &Error{Kind: KindBusinessRule, Message: "insufficient funds"}
)
