package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	"github.com/hireloop-io/hireloop-backend/pkg/pagination"
)

// Repository handles read-only reporting queries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUsageRecords(ctx context.Context, query UsageRecordsQuery) ([]UsageRecord, error)
	ListPurchases(ctx context.Context, query PurchasesQuery) ([]models.Purchase, *pagination.Cursor, error)
}

// UsageRecord is one usage event flattened with its product context.
type UsageRecord struct {
	PurchaseID             uuid.UUID         `gorm:"column:purchase_id"`
	CreatedAt              time.Time         `gorm:"column:created_at"`
	RemainingAfter         int               `gorm:"column:remaining_after"`
	ExpirationDateSnapshot time.Time         `gorm:"column:expiration_date_snapshot"`
	ProductType            enums.ProductType `gorm:"column:product_type"`
}

// UsageRecordsQuery bounds a usage report.
type UsageRecordsQuery struct {
	CompanyID uuid.UUID
	From      *time.Time
	To        *time.Time
}

// PurchasesQuery configures the payment history listing.
type PurchasesQuery struct {
	CompanyID uuid.UUID
	Limit     int
	Cursor    *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reporting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListUsageRecords(ctx context.Context, query UsageRecordsQuery) ([]UsageRecord, error) {
	q := r.db.WithContext(ctx).
		Table("usage_events").
		Select("usage_events.purchase_id, usage_events.created_at, usage_events.remaining_after, usage_events.expiration_date_snapshot, products.product_type").
		Joins("JOIN purchases ON purchases.id = usage_events.purchase_id").
		Joins("JOIN products ON products.id = purchases.product_id").
		Where("purchases.company_id = ?", query.CompanyID)
	if query.From != nil {
		q = q.Where("usage_events.created_at >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("usage_events.created_at < ?", *query.To)
	}

	var records []UsageRecord
	if err := q.Order("usage_events.created_at ASC").Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListPurchases(ctx context.Context, query PurchasesQuery) ([]models.Purchase, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(query.Limit)
	q := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Preload("Product").
		Preload("Refund").
		Preload("TaxBill").
		Preload("CardReceipt").
		Where("company_id = ?", query.CompanyID)
	if query.Cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var purchases []models.Purchase
	if err := q.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&purchases).Error; err != nil {
		return nil, nil, err
	}

	if len(purchases) > limit {
		next := purchases[limit]
		purchases = purchases[:limit]
		return purchases, &pagination.Cursor{
			CreatedAt: next.CreatedAt,
			ID:        next.ID,
		}, nil
	}

	return purchases, nil, nil
}
