package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hireloop-io/hireloop-backend/api/responses"
	"github.com/hireloop-io/hireloop-backend/api/validators"
	catalogsvc "github.com/hireloop-io/hireloop-backend/internal/catalog"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/logger"
)

// CatalogList returns active products grouped by type, one tier per
// distinct limit. The tier_kind query selects the grouping key.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		tierKind := enums.TierKindCount
		if raw := strings.TrimSpace(r.URL.Query().Get("tier_kind")); raw != "" {
			parsed, err := enums.ParseTierKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier_kind"))
				return
			}
			tierKind = parsed
		}

		groups, err := svc.List(r.Context(), tierKind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"groups": groups})
	}
}

// CatalogGetProduct returns one catalog row for admin inspection.
func CatalogGetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.FindByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// CatalogUpdateTier applies an independent per-row price or limit change.
func CatalogUpdateTier(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateTierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateTier(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

type updateTierRequest struct {
	Price      *string `json:"price"`
	CountLimit *int    `json:"count_limit" validate:"omitempty,min=0"`
	MonthLimit *int    `json:"month_limit" validate:"omitempty,min=0"`
	UsageCycle *int    `json:"usage_cycle" validate:"omitempty,min=0"`
	IsActive   *bool   `json:"is_active"`
}

func (r updateTierRequest) toInput(productID uuid.UUID) (catalogsvc.UpdateTierInput, error) {
	input := catalogsvc.UpdateTierInput{
		ProductID:  productID,
		CountLimit: r.CountLimit,
		MonthLimit: r.MonthLimit,
		UsageCycle: r.UsageCycle,
		IsActive:   r.IsActive,
	}
	if r.Price != nil {
		price, err := decimal.NewFromString(*r.Price)
		if err != nil {
			return catalogsvc.UpdateTierInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}
	return input, nil
}

type productResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductType string          `json:"product_type"`
	UsageType   string          `json:"usage_type"`
	CountLimit  int             `json:"count_limit"`
	MonthLimit  int             `json:"month_limit"`
	Price       decimal.Decimal `json:"price"`
	UsageCycle  int             `json:"usage_cycle"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		ProductType: string(product.ProductType),
		UsageType:   string(product.UsageType),
		CountLimit:  product.CountLimit,
		MonthLimit:  product.MonthLimit,
		Price:       product.Price,
		UsageCycle:  product.UsageCycle,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
