package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

// Purchase is one prepaid entitlement batch bought by a company.
//
// RemainingTimes is only ever mutated by the consumption selector's guarded
// decrement; it never goes below zero and is never incremented.
type Purchase struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID         `gorm:"column:company_id;type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	Product        *Product          `gorm:"foreignKey:ProductID"`
	Cost           decimal.Decimal   `gorm:"column:cost;type:numeric(12,2);not null"`
	PaymentType    enums.PaymentType `gorm:"column:payment_type;type:payment_type;not null"`
	RemainingTimes int               `gorm:"column:remaining_times;not null;check:remaining_times >= 0"`
	ExpirationDate time.Time         `gorm:"column:expiration_date;not null;index"`
	Completed      bool              `gorm:"column:completed;not null;default:false"`
	Refund         *Refund           `gorm:"foreignKey:PurchaseID"`
	TaxBill        *TaxBill          `gorm:"foreignKey:PurchaseID"`
	CardReceipt    *CardReceipt      `gorm:"foreignKey:PurchaseID"`
	UsageEvents    []UsageEvent      `gorm:"foreignKey:PurchaseID"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
