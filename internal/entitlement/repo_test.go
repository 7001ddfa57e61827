package entitlement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hireloop-io/hireloop-backend/pkg/db/models"
	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/metrics"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:entitlement_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Purchase{}, &models.UsageEvent{}, &models.Refund{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, productType enums.ProductType) models.Product {
	t.Helper()
	product := models.Product{
		ID:          uuid.New(),
		ProductType: productType,
		UsageType:   enums.UsageTypeLimitedCount,
		CountLimit:  10,
		MonthLimit:  1,
		Price:       decimal.RequireFromString("100.00"),
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedPurchase(t *testing.T, db *gorm.DB, companyID, productID uuid.UUID, remaining int, expiration time.Time, completed bool) models.Purchase {
	t.Helper()
	purchase := models.Purchase{
		ID:             uuid.New(),
		CompanyID:      companyID,
		ProductID:      productID,
		Cost:           decimal.RequireFromString("100.00"),
		PaymentType:    enums.PaymentTypeBankTransfer,
		RemainingTimes: remaining,
		ExpirationDate: expiration,
		Completed:      completed,
	}
	if err := db.Create(&purchase).Error; err != nil {
		t.Fatalf("seed purchase: %v", err)
	}
	return purchase
}

func newDBService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, metrics.NewLedgerMetrics(nil))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestConsumeSequentialExhaustion(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypePullUp)
	purchase := seedPurchase(t, db, companyID, product.ID, 3, time.Now().Add(72*time.Hour), true)

	svc := newDBService(t, db)
	input := ConsumeInput{
		CompanyID:     companyID,
		ProductType:   enums.ProductTypePullUp,
		ReferenceType: "pull_up",
		ReferenceID:   uuid.New(),
	}

	for want := 2; want >= 0; want-- {
		result, err := svc.Consume(ctx, input)
		if err != nil {
			t.Fatalf("consume at remaining %d: %v", want+1, err)
		}
		if result.RemainingAfter != want {
			t.Fatalf("expected remaining %d, got %d", want, result.RemainingAfter)
		}
	}

	if _, err := svc.Consume(ctx, input); !pkgerrors.HasCode(err, pkgerrors.CodeEntitlementUnavailable) {
		t.Fatalf("expected unavailable once drained, got %v", err)
	}

	var final models.Purchase
	if err := db.First(&final, "id = ?", purchase.ID).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if final.RemainingTimes != 0 {
		t.Fatalf("counter must rest at 0, got %d", final.RemainingTimes)
	}

	var eventCount int64
	if err := db.Model(&models.UsageEvent{}).Where("purchase_id = ?", purchase.ID).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 3 {
		t.Fatalf("expected 3 usage events, got %d", eventCount)
	}
}

func TestConsumeDrainsSoonerExpiringBatchFirst(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypeBanner)

	later := seedPurchase(t, db, companyID, product.ID, 5, time.Now().Add(30*24*time.Hour), true)
	sooner := seedPurchase(t, db, companyID, product.ID, 5, time.Now().Add(24*time.Hour), true)

	svc := newDBService(t, db)
	result, err := svc.Consume(ctx, ConsumeInput{
		CompanyID:     companyID,
		ProductType:   enums.ProductTypeBanner,
		ReferenceType: "banner",
		ReferenceID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if result.PurchaseID != sooner.ID {
		t.Fatalf("expected sooner-expiring batch %s, got %s", sooner.ID, result.PurchaseID)
	}

	var untouched models.Purchase
	if err := db.First(&untouched, "id = ?", later.ID).Error; err != nil {
		t.Fatalf("load later purchase: %v", err)
	}
	if untouched.RemainingTimes != 5 {
		t.Fatalf("later batch must be untouched, got %d", untouched.RemainingTimes)
	}
}

func TestConsumeBreaksExpirationTieOnRemainingTimes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypeBanner)
	expiration := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	seedPurchase(t, db, companyID, product.ID, 9, expiration, true)
	smaller := seedPurchase(t, db, companyID, product.ID, 2, expiration, true)

	svc := newDBService(t, db)
	result, err := svc.Consume(ctx, ConsumeInput{
		CompanyID:     companyID,
		ProductType:   enums.ProductTypeBanner,
		ReferenceType: "banner",
		ReferenceID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if result.PurchaseID != smaller.ID {
		t.Fatalf("expected smaller-remaining batch to drain first")
	}
}

func TestConsumeSkipsUnusableBatches(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypePremiumPost)

	// expired, incomplete, drained and refund-approved batches are all unusable
	seedPurchase(t, db, companyID, product.ID, 5, time.Now().Add(-time.Hour), true)
	seedPurchase(t, db, companyID, product.ID, 5, time.Now().Add(time.Hour), false)
	seedPurchase(t, db, companyID, product.ID, 0, time.Now().Add(time.Hour), true)
	refunded := seedPurchase(t, db, companyID, product.ID, 5, time.Now().Add(time.Hour), true)
	if err := db.Create(&models.Refund{PurchaseID: refunded.ID, Status: enums.RefundStatusApproved}).Error; err != nil {
		t.Fatalf("seed refund: %v", err)
	}

	svc := newDBService(t, db)
	_, err := svc.Consume(ctx, ConsumeInput{
		CompanyID:     companyID,
		ProductType:   enums.ProductTypePremiumPost,
		ReferenceType: "premium_post",
		ReferenceID:   uuid.New(),
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeEntitlementUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestConsumePendingRefundDoesNotBlock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypePullUp)
	purchase := seedPurchase(t, db, companyID, product.ID, 2, time.Now().Add(time.Hour), true)
	if err := db.Create(&models.Refund{PurchaseID: purchase.ID, Status: enums.RefundStatusApply}).Error; err != nil {
		t.Fatalf("seed refund: %v", err)
	}

	svc := newDBService(t, db)
	result, err := svc.Consume(ctx, ConsumeInput{
		CompanyID:     companyID,
		ProductType:   enums.ProductTypePullUp,
		ReferenceType: "pull_up",
		ReferenceID:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("pending refund must not block consumption: %v", err)
	}
	if result.PurchaseID != purchase.ID {
		t.Fatal("expected the pending-refund batch to be consumed")
	}
}

func TestConsumeInTxRollsBackWithCaller(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypeHeadhuntingService)
	purchase := seedPurchase(t, db, companyID, product.ID, 4, time.Now().Add(time.Hour), true)

	svc := newDBService(t, db)
	callerFailure := errors.New("caller write failed")

	err := db.Transaction(func(tx *gorm.DB) error {
		result, err := svc.ConsumeInTx(ctx, tx, ConsumeInput{
			CompanyID:     companyID,
			ProductType:   enums.ProductTypeHeadhuntingService,
			ReferenceType: "headhunting_request",
			ReferenceID:   uuid.New(),
		})
		if err != nil {
			return err
		}
		if result.RemainingAfter != 3 {
			t.Fatalf("expected in-tx remaining 3, got %d", result.RemainingAfter)
		}
		return callerFailure
	})
	if !errors.Is(err, callerFailure) {
		t.Fatalf("expected caller failure to surface, got %v", err)
	}

	var final models.Purchase
	if err := db.First(&final, "id = ?", purchase.ID).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if final.RemainingTimes != 4 {
		t.Fatalf("rollback must restore counter, got %d", final.RemainingTimes)
	}

	var eventCount int64
	if err := db.Model(&models.UsageEvent{}).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 0 {
		t.Fatalf("rollback must discard usage events, got %d", eventCount)
	}
}

func TestConsumeConcurrentOnLastRemaining(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	product := seedProduct(t, db, enums.ProductTypeHeadhuntingService)
	purchase := seedPurchase(t, db, companyID, product.ID, 1, time.Now().Add(time.Hour), true)

	svc := newDBService(t, db)
	input := ConsumeInput{
		CompanyID:     companyID,
		ProductType:   enums.ProductTypeHeadhuntingService,
		ReferenceType: "headhunting_request",
		ReferenceID:   uuid.New(),
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = svc.Consume(ctx, input)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d (errs: %v)", wins, errs)
	}

	var final models.Purchase
	if err := db.First(&final, "id = ?", purchase.ID).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	if final.RemainingTimes != 0 {
		t.Fatalf("counter must rest at 0, got %d", final.RemainingTimes)
	}

	var eventCount int64
	if err := db.Model(&models.UsageEvent{}).Where("purchase_id = ?", purchase.ID).Count(&eventCount).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if eventCount != 1 {
		t.Fatalf("expected exactly one usage event, got %d", eventCount)
	}
}
