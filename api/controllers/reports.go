package controllers

import (
	"net/http"
	"strings"

	"github.com/hireloop-io/hireloop-backend/api/responses"
	"github.com/hireloop-io/hireloop-backend/api/validators"
	reportingsvc "github.com/hireloop-io/hireloop-backend/internal/reporting"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/logger"
	"github.com/hireloop-io/hireloop-backend/pkg/pagination"
)

// ReportUsage returns the caller's per-purchase daily usage summary.
func ReportUsage(svc reportingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reporting service unavailable"))
			return
		}

		companyID, err := companyFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryTime(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryTime(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.UsageSummary(r.Context(), reportingsvc.UsageSummaryInput{
			CompanyID: companyID,
			From:      from,
			To:        to,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"usage": rows})
	}
}

// ReportPayments returns the caller's purchase history as a cursor page.
func ReportPayments(svc reportingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reporting service unavailable"))
			return
		}

		companyID, err := companyFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.PaymentHistory(r.Context(), reportingsvc.PaymentHistoryInput{
			CompanyID: companyID,
			Limit:     limit,
			Cursor:    strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
