package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

// Refund is the single, terminal record of whether a purchase was reversed.
// At most one exists per purchase, enforced by the unique index.
type Refund struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey"`
	PurchaseID    uuid.UUID            `gorm:"column:purchase_id;type:uuid;not null;uniqueIndex"`
	Status        enums.RefundStatus   `gorm:"column:status;type:refund_status;not null;default:'apply'"`
	StatusChanges []RefundStatusChange `gorm:"foreignKey:RefundID"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Refund) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RefundStatusChange is an append-only audit entry for refund status moves.
type RefundStatusChange struct {
	ID         uuid.UUID          `gorm:"type:uuid;primaryKey"`
	RefundID   uuid.UUID          `gorm:"column:refund_id;type:uuid;not null;index"`
	FromStatus enums.RefundStatus `gorm:"column:from_status;type:refund_status;not null"`
	ToStatus   enums.RefundStatus `gorm:"column:to_status;type:refund_status;not null"`
	Reason     string             `gorm:"column:reason;not null"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (c *RefundStatusChange) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
