package enums

import "fmt"

// UsageType distinguishes how a product's entitlement is measured.
type UsageType string

const (
	// UsageTypeLimitedCount grants a fixed number of uses.
	UsageTypeLimitedCount UsageType = "limited_count"
	// UsageTypeFixTerm grants uses valid within a term window.
	UsageTypeFixTerm UsageType = "fix_term"
)

var validUsageTypes = []UsageType{
	UsageTypeLimitedCount,
	UsageTypeFixTerm,
}

// String implements fmt.Stringer.
func (u UsageType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UsageType.
func (u UsageType) IsValid() bool {
	for _, candidate := range validUsageTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUsageType converts raw input into a UsageType.
func ParseUsageType(value string) (UsageType, error) {
	for _, candidate := range validUsageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid usage type %q", value)
}
