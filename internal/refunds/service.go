package refunds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db"
	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service handles refund requests and admin status moves.
type Service interface {
	Request(ctx context.Context, input RequestInput) (*models.Refund, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Refund, error)
	FindByID(ctx context.Context, refundID uuid.UUID) (*models.Refund, error)
	List(ctx context.Context, query ListRefundsQuery) ([]models.Refund, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	grace   time.Duration
	metrics *metrics.LedgerMetrics
	now     func() time.Time
}

// RequestInput identifies which purchase a company wants reversed.
type RequestInput struct {
	CompanyID  uuid.UUID
	PurchaseID uuid.UUID
}

// UpdateStatusInput carries an admin decision on a refund.
type UpdateStatusInput struct {
	RefundID uuid.UUID
	Status   enums.RefundStatus
	Reason   string
}

// NewService wires the refund processor with its dependencies.
func NewService(repo Repository, tx txRunner, grace time.Duration, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("refunds repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if grace <= 0 {
		return nil, fmt.Errorf("grace window must be positive")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		grace:   grace,
		metrics: ledgerMetrics,
		now:     time.Now,
	}, nil
}

// Request records a refund application after the eligibility chain passes:
// the purchase belongs to the company, no refund exists yet, nothing was
// ever consumed from the batch, and the grace window has not closed.
func (s *service) Request(ctx context.Context, input RequestInput) (*models.Refund, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	if input.PurchaseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id required")
	}

	var refund *models.Refund
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		purchase, err := repo.FindPurchaseForCompany(ctx, input.PurchaseID, input.CompanyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase")
		}
		if purchase == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}

		existing, err := repo.FindRefundByPurchaseID(ctx, purchase.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing refund")
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodeDuplicateRefund, "refund already requested for purchase")
		}

		used, err := repo.CountUsageEvents(ctx, purchase.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count usage events")
		}
		if used > 0 {
			return pkgerrors.New(pkgerrors.CodeAlreadyConsumed, "purchase has recorded usage")
		}

		if s.now().After(purchase.ExpirationDate.Add(s.grace)) {
			return pkgerrors.New(pkgerrors.CodeGracePeriodExpired, "refund window has closed")
		}

		created := &models.Refund{
			PurchaseID: purchase.ID,
			Status:     enums.RefundStatusApply,
		}
		if err := repo.CreateRefund(ctx, created); err != nil {
			// concurrent request can slip past the existence check; the
			// unique index on purchase_id is the backstop
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeDuplicateRefund, "refund already requested for purchase")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refund")
		}
		refund = created
		return nil
	})
	if err != nil {
		s.metrics.IncRefundRequest("rejected")
		return nil, err
	}
	s.metrics.IncRefundRequest("accepted")
	return refund, nil
}

// UpdateStatus records an admin decision. Transitions are unrestricted;
// every move is written to the audit trail.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Refund, error) {
	if input.RefundID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid refund status")
	}

	var updated *models.Refund
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		refund, err := repo.FindRefundByID(ctx, input.RefundID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
		}
		if refund == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "refund not found")
		}

		change := &models.RefundStatusChange{
			RefundID:   refund.ID,
			FromStatus: refund.Status,
			ToStatus:   input.Status,
			Reason:     input.Reason,
		}
		if err := repo.CreateStatusChange(ctx, change); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record status change")
		}
		if err := repo.UpdateRefundStatus(ctx, refund.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update refund status")
		}

		refund.Status = input.Status
		refund.StatusChanges = append(refund.StatusChanges, *change)
		updated = refund
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) FindByID(ctx context.Context, refundID uuid.UUID) (*models.Refund, error) {
	if refundID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund id required")
	}
	refund, err := s.repo.FindRefundByID(ctx, refundID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load refund")
	}
	if refund == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "refund not found")
	}
	return refund, nil
}

func (s *service) List(ctx context.Context, query ListRefundsQuery) ([]models.Refund, error) {
	if query.Status != nil && !query.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid refund status")
	}
	refunds, err := s.repo.ListRefunds(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list refunds")
	}
	return refunds, nil
}
