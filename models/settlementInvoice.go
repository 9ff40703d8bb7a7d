package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementInvoice is the immutable payout batch document. TotalAmount is
// fixed at creation time and is the source of truth for "amount paid" even if
// the underlying orders are edited later. There is no update or delete path.
type SettlementInvoice struct {
	ID             int                      `gorm:"primary_key" json:"id"`
	InvoiceNumber  string                   `gorm:"size:255;not null;unique" json:"invoice_number"`
	SequenceNo     int64                    `gorm:"not null" json:"sequence_no"`
	EmployeeId     int                      `gorm:"index;not null" json:"employee_id"`
	EmployeeCode   string                   `gorm:"size:20" json:"employee_code"`
	TotalAmount    decimal.Decimal          `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	SettlementDate time.Time                `gorm:"not null;index" json:"settlement_date"`
	CreatedBy      int                      `gorm:"not null" json:"created_by"`
	Status         SettlementInvoiceStatus  `gorm:"type:enum('completed');not null;default:completed" json:"status"`
	Orders         []SettlementInvoiceOrder `gorm:"foreignKey:InvoiceId" json:"orders"`
	CreatedAt      time.Time                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time                `gorm:"autoUpdateTime" json:"updated_at"`
}

// SettlementInvoiceOrder joins an invoice to one settled order. The unique
// index on order_id makes "an order's commission is claimed by at most one
// invoice, ever" a schema-level guarantee, not just workflow discipline.
type SettlementInvoiceOrder struct {
	ID             int             `gorm:"primary_key" json:"id"`
	InvoiceId      int             `gorm:"index;not null" json:"invoice_id"`
	OrderId        int             `gorm:"uniqueIndex;not null" json:"order_id"`
	EmployeeProfit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"employee_profit"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (inv *SettlementInvoice) OrderIds() []int {
	ids := make([]int, 0, len(inv.Orders))
	for _, o := range inv.Orders {
		ids = append(ids, o.OrderId)
	}
	return ids
}

// SettlementNumberSeries issues gapless sequence numbers for invoice numbers.
// The row is locked for update inside the settlement transaction.
type SettlementNumberSeries struct {
	ID         int    `gorm:"primary_key" json:"id"`
	ModuleName string `gorm:"size:50;not null;unique" json:"module_name"`
	Prefix     string `gorm:"size:10;not null" json:"prefix"`
	NextSeq    int64  `gorm:"not null;default:1" json:"next_seq"`
}

const settlementInvoiceModule = "SettlementInvoice"

// NextSettlementInvoiceNumber reserves the next invoice number within tx.
func NextSettlementInvoiceNumber(tx *gorm.DB) (string, int64, error) {
	var series SettlementNumberSeries
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("module_name = ?", settlementInvoiceModule).
		First(&series).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		series = SettlementNumberSeries{ModuleName: settlementInvoiceModule, Prefix: "STL-", NextSeq: 1}
		if err := tx.Create(&series).Error; err != nil {
			return "", 0, err
		}
	} else if err != nil {
		return "", 0, err
	}

	seq := series.NextSeq
	if err := tx.Model(&SettlementNumberSeries{}).
		Where("id = ?", series.ID).
		Update("next_seq", seq+1).Error; err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%s%06d", series.Prefix, seq), seq, nil
}

// GetSettlementInvoiceById serves from the entity cache when possible;
// invoices are immutable so a cached copy can never be stale.
func GetSettlementInvoiceById(ctx context.Context, id int) (*SettlementInvoice, error) {
	if cached, err := utils.FetchRedis[SettlementInvoice](id); err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var invoice SettlementInvoice
	err := db.WithContext(ctx).Preload("Orders").First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &utils.NotFoundError{Resource: "settlement invoice", Id: id}
	}
	if err != nil {
		return nil, err
	}
	_ = utils.StoreRedis[SettlementInvoice](&invoice, id)
	return &invoice, nil
}

// ListSettlementInvoices queries the append-only ledger by employee (0 = all)
// and settlement date range.
func ListSettlementInvoices(ctx context.Context, employeeId int, dateRange utils.DateRange) ([]SettlementInvoice, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Preload("Orders").Model(&SettlementInvoice{})
	if employeeId > 0 {
		query = query.Where("employee_id = ?", employeeId)
	}
	if dateRange.From != nil {
		query = query.Where("settlement_date >= ?", *dateRange.From)
	}
	if dateRange.To != nil {
		query = query.Where("settlement_date <= ?", *dateRange.To)
	}
	var invoices []SettlementInvoice
	if err := query.Order("settlement_date DESC, id DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetInvoiceOrders resolves an invoice's order ids to full order snapshots for
// display/printing. Orders edited since settlement show their current state;
// the invoice's TotalAmount remains the authoritative paid amount.
func GetInvoiceOrders(ctx context.Context, invoiceId int) ([]Order, error) {
	invoice, err := GetSettlementInvoiceById(ctx, invoiceId)
	if err != nil {
		return nil, err
	}
	return GetOrdersByIds(ctx, invoice.OrderIds())
}
