package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service consumes one use from a company's prepaid entitlement batches.
type Service interface {
	Consume(ctx context.Context, input ConsumeInput) (*ConsumeResult, error)
	ConsumeInTx(ctx context.Context, tx *gorm.DB, input ConsumeInput) (*ConsumeResult, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.LedgerMetrics
	now     func() time.Time
}

// ConsumeInput identifies whose entitlement to draw from and what action
// the draw pays for.
type ConsumeInput struct {
	CompanyID     uuid.UUID
	ProductType   enums.ProductType
	ReferenceType string
	ReferenceID   uuid.UUID
}

// ConsumeResult reports which batch was drawn and its state after the draw.
type ConsumeResult struct {
	PurchaseID     uuid.UUID
	RemainingAfter int
	ExpirationDate time.Time
}

// NewService wires the consumption selector with its dependencies.
func NewService(repo Repository, tx txRunner, ledgerMetrics *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("entitlement repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		metrics: ledgerMetrics,
		now:     time.Now,
	}, nil
}

// Consume opens its own transaction around the selection and decrement.
func (s *service) Consume(ctx context.Context, input ConsumeInput) (*ConsumeResult, error) {
	var result *ConsumeResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.ConsumeInTx(ctx, tx, input)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConsumeInTx joins the caller's transaction so the caller's own writes and
// the decrement commit or roll back together.
func (s *service) ConsumeInTx(ctx context.Context, tx *gorm.DB, input ConsumeInput) (*ConsumeResult, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "company id required")
	}
	if !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	if input.ReferenceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference type required")
	}
	if input.ReferenceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference id required")
	}

	started := s.now()
	result, err := s.consume(ctx, tx, input)
	s.metrics.ObserveConsumeDuration(input.ProductType.String(), s.now().Sub(started))
	switch {
	case err == nil:
		s.metrics.IncConsume(input.ProductType.String(), metrics.OutcomeConsumed)
	case pkgerrors.HasCode(err, pkgerrors.CodeEntitlementUnavailable):
		s.metrics.IncConsume(input.ProductType.String(), metrics.OutcomeUnavailable)
	default:
		s.metrics.IncConsume(input.ProductType.String(), metrics.OutcomeError)
	}
	return result, err
}

func (s *service) consume(ctx context.Context, tx *gorm.DB, input ConsumeInput) (*ConsumeResult, error) {
	repo := s.repo.WithTx(tx)
	now := s.now()

	// A lost decrement race re-runs selection exactly once; the second loss
	// is reported as unavailable rather than retried forever.
	for attempt := 0; attempt < 2; attempt++ {
		candidate, err := repo.FindUsableCandidate(ctx, input.CompanyID, input.ProductType, now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "select entitlement batch")
		}
		if candidate == nil {
			return nil, pkgerrors.New(pkgerrors.CodeEntitlementUnavailable, "no usable entitlement batch")
		}

		decremented, err := repo.DecrementRemaining(ctx, candidate.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement entitlement batch")
		}
		if !decremented {
			s.metrics.IncConsume(input.ProductType.String(), metrics.OutcomeRaceLost)
			continue
		}

		fresh, err := repo.FindPurchaseByID(ctx, candidate.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload entitlement batch")
		}
		if fresh == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "entitlement batch vanished mid-transaction")
		}

		event := &models.UsageEvent{
			PurchaseID:             fresh.ID,
			ExpirationDateSnapshot: fresh.ExpirationDate,
			RemainingAfter:         fresh.RemainingTimes,
			ReferenceType:          input.ReferenceType,
			ReferenceID:            input.ReferenceID,
		}
		if err := repo.CreateUsageEvent(ctx, event); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record usage event")
		}

		return &ConsumeResult{
			PurchaseID:     fresh.ID,
			RemainingAfter: fresh.RemainingTimes,
			ExpirationDate: fresh.ExpirationDate,
		}, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeEntitlementUnavailable, "no usable entitlement batch")
}
