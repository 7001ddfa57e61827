package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

// Repository handles entitlement batch persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUsableCandidate(ctx context.Context, companyID uuid.UUID, productType enums.ProductType, now time.Time) (*models.Purchase, error)
	DecrementRemaining(ctx context.Context, purchaseID uuid.UUID) (bool, error)
	FindPurchaseByID(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error)
	CreateUsageEvent(ctx context.Context, event *models.UsageEvent) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an entitlement repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindUsableCandidate returns the next batch to draw from, or nil when the
// company has nothing usable for the product type. Batches closest to
// expiring drain first; remaining_times breaks ties.
func (r *repository) FindUsableCandidate(ctx context.Context, companyID uuid.UUID, productType enums.ProductType, now time.Time) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = purchases.product_id").
		Where("purchases.company_id = ?", companyID).
		Where("products.product_type = ?", productType).
		Where("purchases.completed = ?", true).
		Where("purchases.remaining_times > 0").
		Where("purchases.expiration_date > ?", now).
		Where("NOT EXISTS (SELECT 1 FROM refunds WHERE refunds.purchase_id = purchases.id AND refunds.status = ?)", enums.RefundStatusApproved).
		Order("purchases.expiration_date ASC, purchases.remaining_times ASC").
		First(&purchase).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// DecrementRemaining performs the guarded decrement. The WHERE guard makes
// concurrent consumers race on the row; the loser sees zero rows affected.
func (r *repository) DecrementRemaining(ctx context.Context, purchaseID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ? AND remaining_times > 0", purchaseID).
		UpdateColumn("remaining_times", gorm.Expr("remaining_times - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) FindPurchaseByID(ctx context.Context, purchaseID uuid.UUID) (*models.Purchase, error) {
	if purchaseID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Where("id = ?", purchaseID).
		First(&purchase).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *repository) CreateUsageEvent(ctx context.Context, event *models.UsageEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
