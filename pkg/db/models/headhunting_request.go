package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HeadhuntingRequest is a feature-workflow record that spends one
// headhunting_service entitlement on creation. PurchaseID and
// ExpirationDate are stamped from the consume result so reporting can join
// back to the ledger.
type HeadhuntingRequest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	Title          string    `gorm:"column:title;not null"`
	Memo           string    `gorm:"column:memo"`
	PurchaseID     uuid.UUID `gorm:"column:purchase_id;type:uuid;not null;index"`
	ExpirationDate time.Time `gorm:"column:expiration_date;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *HeadhuntingRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
