package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hireloop-io/hireloop-backend/api/middleware"
	"github.com/hireloop-io/hireloop-backend/api/responses"
	"github.com/hireloop-io/hireloop-backend/api/validators"
	refundsvc "github.com/hireloop-io/hireloop-backend/internal/refunds"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/logger"
)

// RefundRequest files a refund application for one of the caller's purchases.
func RefundRequest(svc refundsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "refund service unavailable"))
			return
		}

		companyID, err := companyFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload refundRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		purchaseID, err := uuid.Parse(payload.PurchaseID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid purchase id"))
			return
		}

		refund, err := svc.Request(r.Context(), refundsvc.RequestInput{
			CompanyID:  companyID,
			PurchaseID: purchaseID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRefundResponse(refund))
	}
}

// RefundGet returns one refund with its full status history.
func RefundGet(svc refundsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "refund service unavailable"))
			return
		}

		refundID, err := uuid.Parse(chi.URLParam(r, "refundID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund id"))
			return
		}

		refund, err := svc.FindByID(r.Context(), refundID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newRefundResponse(refund))
	}
}

// RefundList returns refunds for admin review, optionally filtered by status.
func RefundList(svc refundsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "refund service unavailable"))
			return
		}

		query := refundsvc.ListRefundsQuery{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseRefundStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			query.Status = &status
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query.Limit = limit

		refunds, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]refundResponse, 0, len(refunds))
		for i := range refunds {
			items = append(items, newRefundResponse(&refunds[i]))
		}
		responses.WriteSuccess(w, map[string]any{"refunds": items})
	}
}

// RefundUpdateStatus records an admin decision on a refund.
func RefundUpdateStatus(svc refundsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "refund service unavailable"))
			return
		}

		refundID, err := uuid.Parse(chi.URLParam(r, "refundID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid refund id"))
			return
		}

		var payload refundStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseRefundStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		refund, err := svc.UpdateStatus(r.Context(), refundsvc.UpdateStatusInput{
			RefundID: refundID,
			Status:   status,
			Reason:   payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newRefundResponse(refund))
	}
}

type refundRequestPayload struct {
	PurchaseID string `json:"purchase_id" validate:"required,uuid"`
}

type refundStatusPayload struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type refundResponse struct {
	ID            uuid.UUID              `json:"id"`
	PurchaseID    uuid.UUID              `json:"purchase_id"`
	Status        string                 `json:"status"`
	StatusChanges []refundChangeResponse `json:"status_changes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type refundChangeResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newRefundResponse(refund *models.Refund) refundResponse {
	changes := make([]refundChangeResponse, 0, len(refund.StatusChanges))
	for _, change := range refund.StatusChanges {
		changes = append(changes, refundChangeResponse{
			FromStatus: string(change.FromStatus),
			ToStatus:   string(change.ToStatus),
			Reason:     change.Reason,
			CreatedAt:  change.CreatedAt,
		})
	}
	return refundResponse{
		ID:            refund.ID,
		PurchaseID:    refund.PurchaseID,
		Status:        string(refund.Status),
		StatusChanges: changes,
		CreatedAt:     refund.CreatedAt,
		UpdatedAt:     refund.UpdatedAt,
	}
}

func companyFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CompanyIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company context missing")
	}
	companyID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid company id")
	}
	return companyID, nil
}
