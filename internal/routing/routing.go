// Package routing decides which approval tier a purchase requisition is assigned to.
// It is deliberately free of persistence so the policy stays unit-testable on its own.
package routing

import "github.com/shopspring/decimal"

// Tier is the approver level a requisition is routed to
type Tier string

const (
	TierAdmin Tier = "admin"
	TierOwner Tier = "owner"
)

// String returns the string representation of Tier
func (t Tier) String() string {
	return string(t)
}

// Route assigns the approver tier for a monetary amount. An amount exactly equal to
// the threshold stays with the admin tier (inclusive upper bound).
func Route(amount, threshold decimal.Decimal) Tier {
	if amount.LessThanOrEqual(threshold) {
		return TierAdmin
	}
	return TierOwner
}
