package enums

import "fmt"

// TierKind selects which product limit a catalog tier is keyed by.
type TierKind string

const (
	// TierKindCount keys tiers by the number of uses granted.
	TierKindCount TierKind = "count"
	// TierKindMonth keys tiers by the validity window in months.
	TierKindMonth TierKind = "month"
)

var validTierKinds = []TierKind{
	TierKindCount,
	TierKindMonth,
}

// String implements fmt.Stringer.
func (k TierKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known TierKind.
func (k TierKind) IsValid() bool {
	for _, candidate := range validTierKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTierKind converts raw input into a TierKind.
func ParseTierKind(value string) (TierKind, error) {
	for _, candidate := range validTierKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier kind %q", value)
}
