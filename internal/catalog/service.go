package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
)

// Service exposes catalog reads and per-tier pricing updates.
type Service interface {
	List(ctx context.Context, tierKind enums.TierKind) ([]Group, error)
	FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	UpdateTier(ctx context.Context, input UpdateTierInput) (*models.Product, error)
}

type service struct {
	repo Repository
}

// TierKey identifies a pricing tier within a product type. Two products of
// the same type with the same key are duplicates; the first row wins.
type TierKey struct {
	Kind  enums.TierKind `json:"kind"`
	Value int            `json:"value"`
}

// Tier is one sellable row of the catalog.
type Tier struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Key        TierKey         `json:"tier"`
	Price      decimal.Decimal `json:"price"`
	UsageType  enums.UsageType `json:"usage_type"`
	CountLimit int             `json:"count_limit"`
	MonthLimit int             `json:"month_limit"`
	UsageCycle int             `json:"usage_cycle"`
}

// Group collects the tiers of one product type.
type Group struct {
	ProductType enums.ProductType `json:"product_type"`
	Tiers       []Tier            `json:"tiers"`
}

// UpdateTierInput carries an independent per-row catalog update. Nil fields
// are left untouched.
type UpdateTierInput struct {
	ProductID  uuid.UUID
	Price      *decimal.Decimal
	CountLimit *int
	MonthLimit *int
	UsageCycle *int
	IsActive   *bool
}

// NewService wires a catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, tierKind enums.TierKind) ([]Group, error) {
	if !tierKind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tier kind")
	}

	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	seen := make(map[enums.ProductType]map[TierKey]bool)
	grouped := make(map[enums.ProductType][]Tier)
	var order []enums.ProductType

	for _, product := range products {
		key := tierKeyFor(product, tierKind)
		if seen[product.ProductType] == nil {
			seen[product.ProductType] = make(map[TierKey]bool)
			order = append(order, product.ProductType)
		}
		if seen[product.ProductType][key] {
			continue
		}
		seen[product.ProductType][key] = true
		grouped[product.ProductType] = append(grouped[product.ProductType], Tier{
			ProductID:  product.ID,
			Key:        key,
			Price:      product.Price,
			UsageType:  product.UsageType,
			CountLimit: product.CountLimit,
			MonthLimit: product.MonthLimit,
			UsageCycle: product.UsageCycle,
		})
	}

	groups := make([]Group, 0, len(order))
	for _, productType := range order {
		tiers := grouped[productType]
		sort.SliceStable(tiers, func(i, j int) bool {
			return tiers[i].Key.Value < tiers[j].Key.Value
		})
		groups = append(groups, Group{ProductType: productType, Tiers: tiers})
	}
	return groups, nil
}

func (s *service) FindByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) UpdateTier(ctx context.Context, input UpdateTierInput) (*models.Product, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CountLimit != nil && *input.CountLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "count limit cannot be negative")
	}
	if input.MonthLimit != nil && *input.MonthLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month limit cannot be negative")
	}

	product, err := s.repo.FindProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CountLimit != nil {
		product.CountLimit = *input.CountLimit
	}
	if input.MonthLimit != nil {
		product.MonthLimit = *input.MonthLimit
	}
	if input.UsageCycle != nil {
		product.UsageCycle = *input.UsageCycle
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return product, nil
}

func tierKeyFor(product models.Product, kind enums.TierKind) TierKey {
	value := product.CountLimit
	if kind == enums.TierKindMonth {
		value = product.MonthLimit
	}
	return TierKey{Kind: kind, Value: value}
}
