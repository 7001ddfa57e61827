package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	headhuntingsvc "github.com/hireloop-io/hireloop-backend/internal/headhunting"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
)

type fakeHeadhuntingService struct {
	createInput headhuntingsvc.CreateRequestInput
	createErr   error
	request     *models.HeadhuntingRequest
}

func (f *fakeHeadhuntingService) CreateRequest(_ context.Context, input headhuntingsvc.CreateRequestInput) (*models.HeadhuntingRequest, error) {
	f.createInput = input
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.request, nil
}

func (f *fakeHeadhuntingService) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.HeadhuntingRequest, error) {
	if f.request == nil {
		return nil, nil
	}
	return []models.HeadhuntingRequest{*f.request}, nil
}

func TestHeadhuntingCreate(t *testing.T) {
	companyID := uuid.New()
	svc := &fakeHeadhuntingService{request: &models.HeadhuntingRequest{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Title:          "Staff engineer",
		PurchaseID:     uuid.New(),
		ExpirationDate: time.Now().Add(24 * time.Hour),
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/headhunting", strings.NewReader(`{"title":"Staff engineer","memo":"asap"}`))
	req = withCompany(req, companyID)
	resp := httptest.NewRecorder()

	HeadhuntingCreate(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createInput.CompanyID != companyID || svc.createInput.Title != "Staff engineer" {
		t.Fatalf("service received wrong input: %+v", svc.createInput)
	}
}

func TestHeadhuntingCreateRequiresTitle(t *testing.T) {
	svc := &fakeHeadhuntingService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/headhunting", strings.NewReader(`{"memo":"no title"}`))
	req = withCompany(req, uuid.New())
	resp := httptest.NewRecorder()

	HeadhuntingCreate(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestHeadhuntingCreateSurfacesEmptyBalance(t *testing.T) {
	svc := &fakeHeadhuntingService{createErr: pkgerrors.New(pkgerrors.CodeEntitlementUnavailable, "no usable entitlement batch")}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/headhunting", strings.NewReader(`{"title":"Recruiter"}`))
	req = withCompany(req, uuid.New())
	resp := httptest.NewRecorder()

	HeadhuntingCreate(svc, nil)(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestHeadhuntingListRequiresCompanyContext(t *testing.T) {
	svc := &fakeHeadhuntingService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/headhunting", nil)
	resp := httptest.NewRecorder()

	HeadhuntingList(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
