package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProfitRecord is the per-order commission ledger row, one per (order,
// employee) pair. The unique index on order_id backs the at-most-once
// settlement guarantee at the schema level.
//
// The pending|settled state is tagged: SettledAt is set iff Status is settled.
// MarkSettled is the only place that flips both together.
type ProfitRecord struct {
	ID             int             `gorm:"primary_key" json:"id"`
	OrderId        int             `gorm:"uniqueIndex;not null" json:"order_id"`
	EmployeeId     int             `gorm:"index;not null" json:"employee_id"`
	ProfitAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"profit_amount"`
	EmployeeProfit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"employee_profit"`
	Status         ProfitStatus    `gorm:"type:enum('pending','settled');not null;default:pending;index" json:"status"`
	SettledAt      *time.Time      `json:"settled_at"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *ProfitRecord) IsPending() bool {
	return r.Status == ProfitStatusPending && r.SettledAt == nil
}

func (r *ProfitRecord) MarkSettled(at time.Time) error {
	if !r.IsPending() {
		return utils.NewConflictError("profit record is not pending", []int{r.OrderId})
	}
	r.Status = ProfitStatusSettled
	r.SettledAt = &at
	return nil
}

func GetProfitRecordByOrderId(ctx context.Context, orderId int) (*ProfitRecord, error) {
	db := config.GetDB()
	var record ProfitRecord
	err := db.WithContext(ctx).Where("order_id = ?", orderId).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func GetProfitRecordsByOrderIds(ctx context.Context, orderIds []int) ([]ProfitRecord, error) {
	if len(orderIds) == 0 {
		return nil, nil
	}
	db := config.GetDB()
	var records []ProfitRecord
	err := db.WithContext(ctx).Where("order_id IN ?", utils.UniqueSlice(orderIds)).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListProfitRecords returns records for an employee (0 = all employees),
// optionally restricted to one status.
func ListProfitRecords(ctx context.Context, employeeId int, status ProfitStatus) ([]ProfitRecord, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&ProfitRecord{})
	if employeeId > 0 {
		query = query.Where("employee_id = ?", employeeId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var records []ProfitRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListSettledProfitRecords returns settled records whose settlement time falls
// in the range. Used by the ledger reconciliation cross-check.
func ListSettledProfitRecords(ctx context.Context, employeeId int, dateRange utils.DateRange) ([]ProfitRecord, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Where("status = ?", ProfitStatusSettled)
	if employeeId > 0 {
		query = query.Where("employee_id = ?", employeeId)
	}
	if dateRange.From != nil {
		query = query.Where("settled_at >= ?", *dateRange.From)
	}
	if dateRange.To != nil {
		query = query.Where("settled_at <= ?", *dateRange.To)
	}
	var records []ProfitRecord
	if err := query.Order("settled_at").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureProfitRecord materializes the pending ledger row for an eligible order
// if it does not exist yet. Orders without a row are still aggregated through
// the calculator fallback; settlement needs the row so the status flip has a
// durable target.
func EnsureProfitRecord(tx *gorm.DB, order *Order, employee *User) (*ProfitRecord, error) {
	var record ProfitRecord
	err := tx.Where("order_id = ?", order.ID).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if !order.IsEligibleForProfit() {
		return nil, utils.NewValidationError("order %d is not eligible for profit settlement", order.ID)
	}

	profit := ComputeOrderProfit(*order, employee.CommissionRule())
	record = ProfitRecord{
		OrderId:        order.ID,
		EmployeeId:     employee.ID,
		ProfitAmount:   profit.TotalProfit,
		EmployeeProfit: profit.EmployeeShare,
		Status:         ProfitStatusPending,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
