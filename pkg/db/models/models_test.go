package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&Product{},
		&Purchase{},
		&UsageEvent{},
		&Refund{},
		&RefundStatusChange{},
		&TaxBill{},
		&CardReceipt{},
		&HeadhuntingRequest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAutoMigrateAllModelsOnSqlite(t *testing.T) {
	t.Parallel()
	newTestDB(t)
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	product := Product{
		ProductType: enums.ProductTypeHeadhuntingService,
		UsageType:   enums.UsageTypeLimitedCount,
		CountLimit:  5,
		MonthLimit:  1,
		Price:       decimal.RequireFromString("50.00"),
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("product id not assigned")
	}

	purchase := Purchase{
		CompanyID:      uuid.New(),
		ProductID:      product.ID,
		Cost:           decimal.RequireFromString("50.00"),
		PaymentType:    enums.PaymentTypeCreditCard,
		RemainingTimes: 5,
		ExpirationDate: time.Now().Add(24 * time.Hour),
		Completed:      true,
	}
	if err := db.Create(&purchase).Error; err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if purchase.ID == uuid.Nil {
		t.Fatal("purchase id not assigned")
	}

	events := []UsageEvent{
		{PurchaseID: purchase.ID, ExpirationDateSnapshot: purchase.ExpirationDate, RemainingAfter: 4, ReferenceType: "headhunting_request", ReferenceID: uuid.New()},
		{PurchaseID: purchase.ID, ExpirationDateSnapshot: purchase.ExpirationDate, RemainingAfter: 3, ReferenceType: "headhunting_request", ReferenceID: uuid.New()},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			t.Fatalf("create usage event %d: %v", i, err)
		}
	}
	if events[0].ID == events[1].ID {
		t.Fatal("usage events share an id")
	}

	refund := Refund{PurchaseID: purchase.ID, Status: enums.RefundStatusApply}
	if err := db.Create(&refund).Error; err != nil {
		t.Fatalf("create refund: %v", err)
	}
	change := RefundStatusChange{
		RefundID:   refund.ID,
		FromStatus: enums.RefundStatusApply,
		ToStatus:   enums.RefundStatusApproved,
		Reason:     "verified",
	}
	if err := db.Create(&change).Error; err != nil {
		t.Fatalf("create status change: %v", err)
	}
	if refund.ID == uuid.Nil || change.ID == uuid.Nil {
		t.Fatal("refund ids not assigned")
	}
}

func TestBeforeCreateKeepsCallerAssignedID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)

	want := uuid.New()
	product := Product{
		ID:          want,
		ProductType: enums.ProductTypePremiumPost,
		UsageType:   enums.UsageTypeLimitedCount,
		CountLimit:  1,
		MonthLimit:  1,
		Price:       decimal.RequireFromString("10.00"),
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID != want {
		t.Fatalf("id overwritten: got %s want %s", product.ID, want)
	}
}
