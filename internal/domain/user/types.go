package user

// Tier is the user's source-of-truth plan. Only paid tiers may open premium
// servers without a reward entitlement.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

func (t Tier) String() string {
	return string(t)
}

func (t Tier) IsPaid() bool {
	return t == TierPremium
}

func NewTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierPremium:
		return Tier(s), nil
	default:
		return "", ErrInvalidTier
	}
}
