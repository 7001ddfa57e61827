package refunds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

// Repository handles refund persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPurchaseForCompany(ctx context.Context, purchaseID, companyID uuid.UUID) (*models.Purchase, error)
	CountUsageEvents(ctx context.Context, purchaseID uuid.UUID) (int64, error)
	FindRefundByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*models.Refund, error)
	FindRefundByID(ctx context.Context, refundID uuid.UUID) (*models.Refund, error)
	CreateRefund(ctx context.Context, refund *models.Refund) error
	UpdateRefundStatus(ctx context.Context, refundID uuid.UUID, status enums.RefundStatus) error
	CreateStatusChange(ctx context.Context, change *models.RefundStatusChange) error
	ListRefunds(ctx context.Context, query ListRefundsQuery) ([]models.Refund, error)
}

// ListRefundsQuery configures refund list queries.
type ListRefundsQuery struct {
	Status *enums.RefundStatus
	Limit  int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a refunds repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPurchaseForCompany(ctx context.Context, purchaseID, companyID uuid.UUID) (*models.Purchase, error) {
	if purchaseID == uuid.Nil || companyID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", purchaseID, companyID).
		First(&purchase).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) CountUsageEvents(ctx context.Context, purchaseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UsageEvent{}).
		Where("purchase_id = ?", purchaseID).
		Count(&count).Error
	return count, err
}

func (r *repository) FindRefundByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*models.Refund, error) {
	var refund models.Refund
	if err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		First(&refund).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &refund, nil
}

func (r *repository) FindRefundByID(ctx context.Context, refundID uuid.UUID) (*models.Refund, error) {
	if refundID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var refund models.Refund
	if err := r.db.WithContext(ctx).
		Preload("StatusChanges").
		Where("id = ?", refundID).
		First(&refund).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &refund, nil
}

func (r *repository) CreateRefund(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *repository) UpdateRefundStatus(ctx context.Context, refundID uuid.UUID, status enums.RefundStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Refund{}).
		Where("id = ?", refundID).
		Update("status", status).Error
}

func (r *repository) CreateStatusChange(ctx context.Context, change *models.RefundStatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *repository) ListRefunds(ctx context.Context, query ListRefundsQuery) ([]models.Refund, error) {
	limit := query.Limit
	if limit <= 0 || limit > 250 {
		limit = 250
	}
	q := r.db.WithContext(ctx).Model(&models.Refund{})
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	var refunds []models.Refund
	if err := q.Order("created_at DESC").Limit(limit).Find(&refunds).Error; err != nil {
		return nil, err
	}
	return refunds, nil
}
