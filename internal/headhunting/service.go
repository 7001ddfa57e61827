package headhunting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/internal/entitlement"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
)

const usageReferenceType = "headhunting_request"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service creates headhunting requests, each paid for by one entitlement use.
type Service interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*models.HeadhuntingRequest, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.HeadhuntingRequest, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	entitlement entitlement.Service
}

// CreateRequestInput carries the request fields a company submits.
type CreateRequestInput struct {
	CompanyID uuid.UUID
	Title     string
	Memo      string
}

// NewService wires the headhunting workflow with its dependencies.
func NewService(repo Repository, tx txRunner, entitlementSvc entitlement.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("headhunting repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if entitlementSvc == nil {
		return nil, fmt.Errorf("entitlement service required")
	}
	return &service{repo: repo, tx: tx, entitlement: entitlementSvc}, nil
}

// CreateRequest consumes one headhunting_service use and creates the request
// row in the same transaction. If the row write fails the decrement rolls
// back with it.
func (s *service) CreateRequest(ctx context.Context, input CreateRequestInput) (*models.HeadhuntingRequest, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title required")
	}

	requestID := uuid.New()
	var request *models.HeadhuntingRequest

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		result, err := s.entitlement.ConsumeInTx(ctx, tx, entitlement.ConsumeInput{
			CompanyID:     input.CompanyID,
			ProductType:   enums.ProductTypeHeadhuntingService,
			ReferenceType: usageReferenceType,
			ReferenceID:   requestID,
		})
		if err != nil {
			return err
		}

		created := &models.HeadhuntingRequest{
			ID:             requestID,
			CompanyID:      input.CompanyID,
			Title:          strings.TrimSpace(input.Title),
			Memo:           input.Memo,
			PurchaseID:     result.PurchaseID,
			ExpirationDate: result.ExpirationDate,
		}
		if err := s.repo.WithTx(tx).CreateRequest(ctx, created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create headhunting request")
		}
		request = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.HeadhuntingRequest, error) {
	if companyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	requests, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list headhunting requests")
	}
	return requests, nil
}
