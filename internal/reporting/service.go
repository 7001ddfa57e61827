package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hireloop-io/hireloop-backend/pkg/enums"
	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
	"github.com/hireloop-io/hireloop-backend/pkg/pagination"
)

// Service exposes company-facing ledger reports. Reads only, no side effects.
type Service interface {
	UsageSummary(ctx context.Context, input UsageSummaryInput) ([]UsageSummaryRow, error)
	PaymentHistory(ctx context.Context, input PaymentHistoryInput) (*PaymentHistoryPage, error)
}

type service struct {
	repo Repository
}

// UsageSummaryInput bounds the usage report.
type UsageSummaryInput struct {
	CompanyID uuid.UUID
	From      *time.Time
	To        *time.Time
}

// UsageSummaryRow aggregates one purchase's consumption on one calendar day.
type UsageSummaryRow struct {
	PurchaseID     uuid.UUID         `json:"purchase_id"`
	Day            string            `json:"day"`
	ProductType    enums.ProductType `json:"product_type"`
	UsageCount     int               `json:"usage_count"`
	MinRemaining   int               `json:"min_remaining_after"`
	ExpirationDate time.Time         `json:"expiration_date"`
}

// PaymentHistoryInput configures the payment listing.
type PaymentHistoryInput struct {
	CompanyID uuid.UUID
	Limit     int
	Cursor    string
}

// PaymentRecord is one purchase projected with its receipt and refund state.
type PaymentRecord struct {
	PurchaseID        uuid.UUID           `json:"purchase_id"`
	ProductType       enums.ProductType   `json:"product_type"`
	Cost              decimal.Decimal     `json:"cost"`
	PaymentType       enums.PaymentType   `json:"payment_type"`
	RemainingTimes    int                 `json:"remaining_times"`
	ExpirationDate    time.Time           `json:"expiration_date"`
	Completed         bool                `json:"completed"`
	PurchasedAt       time.Time           `json:"purchased_at"`
	RefundStatus      *enums.RefundStatus `json:"refund_status,omitempty"`
	TaxBillIssued     bool                `json:"tax_bill_issued"`
	CardReceiptIssued bool                `json:"card_receipt_issued"`
}

// PaymentHistoryPage is one cursor page of payment records.
type PaymentHistoryPage struct {
	Records    []PaymentRecord `json:"records"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// NewService wires a reporting service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reporting repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) UsageSummary(ctx context.Context, input UsageSummaryInput) ([]UsageSummaryRow, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report window is inverted")
	}

	records, err := s.repo.ListUsageRecords(ctx, UsageRecordsQuery{
		CompanyID: input.CompanyID,
		From:      input.From,
		To:        input.To,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list usage records")
	}

	type groupKey struct {
		purchaseID uuid.UUID
		day        string
	}
	grouped := make(map[groupKey]*UsageSummaryRow)
	for _, record := range records {
		key := groupKey{purchaseID: record.PurchaseID, day: record.CreatedAt.UTC().Format("2006-01-02")}
		row, ok := grouped[key]
		if !ok {
			grouped[key] = &UsageSummaryRow{
				PurchaseID:     record.PurchaseID,
				Day:            key.day,
				ProductType:    record.ProductType,
				UsageCount:     1,
				MinRemaining:   record.RemainingAfter,
				ExpirationDate: record.ExpirationDateSnapshot,
			}
			continue
		}
		row.UsageCount++
		if record.RemainingAfter < row.MinRemaining {
			row.MinRemaining = record.RemainingAfter
		}
		if record.ExpirationDateSnapshot.Before(row.ExpirationDate) {
			row.ExpirationDate = record.ExpirationDateSnapshot
		}
	}

	rows := make([]UsageSummaryRow, 0, len(grouped))
	for _, row := range grouped {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Day != rows[j].Day {
			return rows[i].Day < rows[j].Day
		}
		return rows[i].PurchaseID.String() < rows[j].PurchaseID.String()
	})
	return rows, nil
}

func (s *service) PaymentHistory(ctx context.Context, input PaymentHistoryInput) (*PaymentHistoryPage, error) {
	if input.CompanyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company identity missing")
	}
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	purchases, next, err := s.repo.ListPurchases(ctx, PurchasesQuery{
		CompanyID: input.CompanyID,
		Limit:     input.Limit,
		Cursor:    cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}

	page := &PaymentHistoryPage{Records: make([]PaymentRecord, 0, len(purchases))}
	for _, purchase := range purchases {
		record := PaymentRecord{
			PurchaseID:     purchase.ID,
			Cost:           purchase.Cost,
			PaymentType:    purchase.PaymentType,
			RemainingTimes: purchase.RemainingTimes,
			ExpirationDate: purchase.ExpirationDate,
			Completed:      purchase.Completed,
			PurchasedAt:    purchase.CreatedAt,
		}
		if purchase.Product != nil {
			record.ProductType = purchase.Product.ProductType
		}
		if purchase.Refund != nil {
			status := purchase.Refund.Status
			record.RefundStatus = &status
		}
		if purchase.TaxBill != nil {
			record.TaxBillIssued = purchase.TaxBill.Issued
		}
		if purchase.CardReceipt != nil {
			record.CardReceiptIssued = purchase.CardReceipt.Issued
		}
		page.Records = append(page.Records, record)
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}
