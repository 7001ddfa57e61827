package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

// Product is a catalog item sold as a prepaid entitlement batch.
type Product struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey"`
	ProductType enums.ProductType `gorm:"column:product_type;type:product_type;not null;index"`
	UsageType   enums.UsageType   `gorm:"column:usage_type;type:usage_type;not null"`
	CountLimit  int               `gorm:"column:count_limit;not null"`
	MonthLimit  int               `gorm:"column:month_limit;not null"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	UsageCycle  int               `gorm:"column:usage_cycle;not null;default:0"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
