package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageEvent is the append-only audit row recorded for every consumption.
// Rows are never updated or deleted.
type UsageEvent struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseID             uuid.UUID `gorm:"column:purchase_id;type:uuid;not null;index"`
	ExpirationDateSnapshot time.Time `gorm:"column:expiration_date_snapshot;not null"`
	RemainingAfter         int       `gorm:"column:remaining_after;not null"`
	ReferenceType          string    `gorm:"column:reference_type;not null"`
	ReferenceID            uuid.UUID `gorm:"column:reference_id;type:uuid;not null"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// IDs are assigned app-side so sqlite-backed tests insert the same way
// postgres does.
func (e *UsageEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
