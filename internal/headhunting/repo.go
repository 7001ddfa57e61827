package headhunting

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
)

// Repository handles headhunting request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRequest(ctx context.Context, request *models.HeadhuntingRequest) error
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.HeadhuntingRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a headhunting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRequest(ctx context.Context, request *models.HeadhuntingRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.HeadhuntingRequest, error) {
	var requests []models.HeadhuntingRequest
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
