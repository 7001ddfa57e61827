package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxBill marks that a tax invoice was issued for a purchase. Document
// generation happens elsewhere; only the issuance state is tracked here.
type TaxBill struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID uuid.UUID `gorm:"column:purchase_id;type:uuid;not null;uniqueIndex"`
	Issued     bool      `gorm:"column:issued;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (b *TaxBill) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// CardReceipt marks that a card receipt was issued for a purchase.
type CardReceipt struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID uuid.UUID `gorm:"column:purchase_id;type:uuid;not null;uniqueIndex"`
	Issued     bool      `gorm:"column:issued;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *CardReceipt) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
