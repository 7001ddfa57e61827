package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop-io/hireloop-backend/api/responses"
	"github.com/hireloop-io/hireloop-backend/api/validators"
	headhuntingsvc "github.com/hireloop-io/hireloop-backend/internal/headhunting"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/logger"
)

// HeadhuntingCreate opens a headhunting request, drawing one use from the
// caller's entitlement balance.
func HeadhuntingCreate(svc headhuntingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "headhunting service unavailable"))
			return
		}

		companyID, err := companyFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createHeadhuntingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.CreateRequest(r.Context(), headhuntingsvc.CreateRequestInput{
			CompanyID: companyID,
			Title:     payload.Title,
			Memo:      payload.Memo,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newHeadhuntingResponse(request))
	}
}

// HeadhuntingList returns the caller's headhunting requests.
func HeadhuntingList(svc headhuntingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "headhunting service unavailable"))
			return
		}

		companyID, err := companyFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requests, err := svc.ListByCompany(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]headhuntingResponse, 0, len(requests))
		for i := range requests {
			items = append(items, newHeadhuntingResponse(&requests[i]))
		}
		responses.WriteSuccess(w, map[string]any{"requests": items})
	}
}

type createHeadhuntingRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Memo  string `json:"memo" validate:"max=2000"`
}

type headhuntingResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Memo           string    `json:"memo,omitempty"`
	PurchaseID     uuid.UUID `json:"purchase_id"`
	ExpirationDate time.Time `json:"expiration_date"`
	CreatedAt      time.Time `json:"created_at"`
}

func newHeadhuntingResponse(request *models.HeadhuntingRequest) headhuntingResponse {
	return headhuntingResponse{
		ID:             request.ID,
		Title:          request.Title,
		Memo:           request.Memo,
		PurchaseID:     request.PurchaseID,
		ExpirationDate: request.ExpirationDate,
		CreatedAt:      request.CreatedAt,
	}
}
