package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hireloop-io/hireloop-backend/internal/catalog"
	"github.com/hireloop-io/hireloop-backend/internal/headhunting"
	"github.com/hireloop-io/hireloop-backend/internal/refunds"
	"github.com/hireloop-io/hireloop-backend/internal/reporting"
	pkgAuth "github.com/hireloop-io/hireloop-backend/pkg/auth"
	"github.com/hireloop-io/hireloop-backend/pkg/config"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) List(context.Context, enums.TierKind) ([]catalog.Group, error) {
	return nil, nil
}

func (stubCatalogService) FindByID(context.Context, uuid.UUID) (*models.Product, error) {
	return &models.Product{ID: uuid.New()}, nil
}

func (stubCatalogService) UpdateTier(context.Context, catalog.UpdateTierInput) (*models.Product, error) {
	return &models.Product{ID: uuid.New()}, nil
}

type stubHeadhuntingService struct{}

func (stubHeadhuntingService) CreateRequest(_ context.Context, input headhunting.CreateRequestInput) (*models.HeadhuntingRequest, error) {
	return &models.HeadhuntingRequest{
		ID:             uuid.New(),
		CompanyID:      input.CompanyID,
		Title:          input.Title,
		PurchaseID:     uuid.New(),
		ExpirationDate: time.Now().Add(24 * time.Hour),
	}, nil
}

func (stubHeadhuntingService) ListByCompany(context.Context, uuid.UUID) ([]models.HeadhuntingRequest, error) {
	return nil, nil
}

type stubRefundService struct{}

func (stubRefundService) Request(_ context.Context, input refunds.RequestInput) (*models.Refund, error) {
	return &models.Refund{ID: uuid.New(), PurchaseID: input.PurchaseID, Status: enums.RefundStatusApply}, nil
}

func (stubRefundService) UpdateStatus(_ context.Context, input refunds.UpdateStatusInput) (*models.Refund, error) {
	return &models.Refund{ID: input.RefundID, Status: input.Status}, nil
}

func (stubRefundService) FindByID(_ context.Context, refundID uuid.UUID) (*models.Refund, error) {
	return &models.Refund{ID: refundID, Status: enums.RefundStatusApply}, nil
}

func (stubRefundService) List(context.Context, refunds.ListRefundsQuery) ([]models.Refund, error) {
	return nil, nil
}

type stubReportingService struct{}

func (stubReportingService) UsageSummary(context.Context, reporting.UsageSummaryInput) ([]reporting.UsageSummaryRow, error) {
	return nil, nil
}

func (stubReportingService) PaymentHistory(context.Context, reporting.PaymentHistoryInput) (*reporting.PaymentHistoryPage, error) {
	return &reporting.PaymentHistoryPage{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "hireloop-test",
			ExpirationMinutes: 15,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(
		cfg,
		nil,
		stubPinger{},
		nil,
		stubCatalogService{},
		stubHeadhuntingService{},
		stubRefundService{},
		stubReportingService{},
	)
}

func mintToken(t *testing.T, cfg *config.Config, role enums.ActorRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		CompanyID: uuid.New(),
		Role:      role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if resp.Header().Get("X-Hireloop-Env") != "test" {
			t.Fatalf("%s: missing env header", path)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/catalog"},
		{http.MethodGet, "/api/v1/reports/usage"},
		{http.MethodPost, "/api/v1/headhunting"},
		{http.MethodGet, "/api/v1/admin/refunds"},
	}
	for _, tt := range paths {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tt.method, tt.path, resp.Code)
		}
	}
}

func TestCompanyRoutesRoundTrip(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := mintToken(t, cfg, enums.ActorRoleCompany)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?tier_kind=count", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("catalog: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/headhunting", strings.NewReader(`{"title":"Backend engineer"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Idempotency-Key", "router-test")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("headhunting: expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAdminRoutesRejectCompanyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	companyToken := mintToken(t, cfg, enums.ActorRoleCompany)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/refunds", nil)
	req.Header.Set("Authorization", "Bearer "+companyToken)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for company token got %d", resp.Code)
	}

	adminToken := mintToken(t, cfg, enums.ActorRoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/refunds", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin token got %d", resp.Code)
	}
}
