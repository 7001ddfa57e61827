package enums

import "fmt"

// ProductType represents the canonical feature products sold as entitlements.
type ProductType string

const (
	ProductTypePullUp                 ProductType = "pull_up"
	ProductTypePremiumPost            ProductType = "premium_post"
	ProductTypeWorkerVerification     ProductType = "worker_verification"
	ProductTypeLaborConsultation      ProductType = "labor_consultation"
	ProductTypeBanner                 ProductType = "banner"
	ProductTypeHeadhuntingService     ProductType = "headhunting_service"
	ProductTypeCompanyMatchingService ProductType = "company_matching_service"
)

var validProductTypes = []ProductType{
	ProductTypePullUp,
	ProductTypePremiumPost,
	ProductTypeWorkerVerification,
	ProductTypeLaborConsultation,
	ProductTypeBanner,
	ProductTypeHeadhuntingService,
	ProductTypeCompanyMatchingService,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
