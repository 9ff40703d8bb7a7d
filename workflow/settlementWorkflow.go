package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/models/reports"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/bsm/redislock"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// The settlement flow has exactly two entry points:
//
//	RequestSettlement        pending records -> reviewable request (no state flip)
//	ApproveAndIssueInvoice   request -> invoice + settled records + dues expense
//
// Approval is the only mutation and runs as one DB transaction under a
// per-employee lock: the invoice row, the N profit-record flips and the
// expense mirror either all commit or none do.

func isDuplicateKeyErr(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}

func correlationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := utils.GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}

// RequestSettlement validates a payout batch and persists the review
// artifact. Profit records missing for eligible orders are materialized as
// pending here so approval has durable rows to flip.
func RequestSettlement(ctx context.Context, logger *logrus.Logger, employeeId int, orderIds []int) (*models.SettlementRequest, error) {
	if len(orderIds) == 0 {
		return nil, utils.NewValidationError("order ids must not be empty")
	}
	orderIds = utils.UniqueSlice(orderIds)

	employee, err := models.GetUserById(ctx, employeeId)
	if err != nil {
		return nil, err
	}

	orders, err := models.GetOrdersByIds(ctx, orderIds)
	if err != nil {
		return nil, err
	}
	if len(orders) != len(orderIds) {
		found := make(map[int]bool, len(orders))
		for _, o := range orders {
			found[o.ID] = true
		}
		for _, id := range orderIds {
			if !found[id] {
				return nil, &utils.NotFoundError{Resource: "order", Id: id}
			}
		}
	}

	for _, order := range orders {
		if order.CreatedBy != employeeId {
			return nil, utils.NewValidationError("order %d was not created by employee %d; mixed-employee batches are rejected", order.ID, employeeId)
		}
		if !order.IsEligibleForProfit() {
			return nil, utils.NewValidationError("order %d is not eligible for settlement", order.ID)
		}
	}

	requestedBy, _ := utils.GetUserIdFromContext(ctx)
	var request *models.SettlementRequest

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		amount := decimal.Zero
		var settledOrderIds []int
		for i := range orders {
			record, err := models.EnsureProfitRecord(tx, &orders[i], employee)
			if err != nil {
				return err
			}
			if !record.IsPending() {
				settledOrderIds = append(settledOrderIds, record.OrderId)
				continue
			}
			amount = amount.Add(record.EmployeeProfit)
		}
		if len(settledOrderIds) > 0 {
			return utils.NewConflictError("settlement request includes already-settled orders", settledOrderIds)
		}

		request = &models.SettlementRequest{
			EmployeeId:  employeeId,
			OrderIds:    models.IntSlice(orderIds),
			Amount:      amount,
			Status:      models.SettlementRequestStatusOpen,
			RequestedBy: requestedBy,
		}
		return tx.Create(request).Error
	})
	if err != nil {
		if utils.IsValidationError(err) || utils.IsConflictError(err) || utils.IsNotFoundError(err) {
			return nil, err
		}
		config.LogError(logger, "settlementWorkflow.go", "RequestSettlement", "Transaction", orderIds, err)
		return nil, utils.NewPersistenceError("request settlement", err)
	}
	return request, nil
}

// settlementApprovalLockTTL bounds how long an approval may hold the redis
// lock. An approval that cannot obtain the lock fails closed: no invoice is
// created and no silent retry happens, so a stuck peer can never cause a
// duplicate payout.
const settlementApprovalLockTTL = 30 * time.Second

func acquireApprovalLock(employeeId int) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		// No redis: the MySQL advisory lock inside the transaction still
		// serializes approvals per employee.
		return nil, nil
	}
	lock, err := locker.Obtain(config.GetRedisContext(),
		fmt.Sprintf("settlement:approve:%d", employeeId), settlementApprovalLockTTL, nil)
	if err == redislock.ErrNotObtained {
		return nil, utils.NewConflictError("another settlement approval is in progress for this employee", nil)
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// RejectSettlementRequest closes an open request without touching any profit
// record. Rejected requests keep their order ids so the employee can re-submit
// a corrected batch.
func RejectSettlementRequest(ctx context.Context, logger *logrus.Logger, requestId int, notes string) (*models.SettlementRequest, error) {
	role, _ := utils.GetUserRoleFromContext(ctx)
	if !models.UserRole(role).CanApproveSettlement() {
		return nil, utils.NewValidationError("role %q may not reject settlements", role)
	}

	request, err := models.GetSettlementRequestById(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status != models.SettlementRequestStatusOpen {
		return nil, utils.NewValidationError("settlement request %d is %s, not open", request.ID, request.Status)
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&models.SettlementRequest{}).
		Where("id = ? AND status = ?", request.ID, models.SettlementRequestStatusOpen).
		Updates(map[string]interface{}{
			"status": models.SettlementRequestStatusRejected,
			"notes":  notes,
		}).Error
	if err != nil {
		config.LogError(logger, "settlementWorkflow.go", "RejectSettlementRequest", "Update", requestId, err)
		return nil, utils.NewPersistenceError("reject settlement request", err)
	}
	request.Status = models.SettlementRequestStatusRejected
	request.Notes = notes
	return request, nil
}

// ApproveAndIssueInvoice settles an open request: it re-checks that every
// referenced profit record is still pending, creates the immutable invoice,
// flips the records and appends the employee_dues expense in one transaction.
// Any already-settled order refuses the whole batch with a ConflictError
// naming the offending orders; nothing is partially applied.
func ApproveAndIssueInvoice(ctx context.Context, logger *logrus.Logger, requestId int) (*models.SettlementInvoice, error) {
	role, _ := utils.GetUserRoleFromContext(ctx)
	if !models.UserRole(role).CanApproveSettlement() {
		return nil, utils.NewValidationError("role %q may not approve settlements", role)
	}
	approvedBy, _ := utils.GetUserIdFromContext(ctx)

	request, err := models.GetSettlementRequestById(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.Status != models.SettlementRequestStatusOpen {
		return nil, utils.NewValidationError("settlement request %d is %s, not open", request.ID, request.Status)
	}

	lock, err := acquireApprovalLock(request.EmployeeId)
	if err != nil {
		return nil, err
	}
	if lock != nil {
		defer lock.Release(config.GetRedisContext())
	}

	employee, err := models.GetUserById(ctx, request.EmployeeId)
	if err != nil {
		return nil, err
	}

	correlationId := correlationIdFromContextOrNew(ctx)
	now := time.Now().UTC()
	orderIds := []int(request.OrderIds)
	var invoice *models.SettlementInvoice

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireSettlementPostingLock(tx, request.EmployeeId); err != nil {
			return err
		}
		defer ReleaseSettlementPostingLock(tx, request.EmployeeId)

		// Re-check under the lock: a concurrent approval may have settled
		// some of these orders after the request was created.
		var records []models.ProfitRecord
		if err := tx.Where("order_id IN ?", orderIds).Find(&records).Error; err != nil {
			return err
		}
		recordsByOrder := make(map[int]*models.ProfitRecord, len(records))
		for i := range records {
			recordsByOrder[records[i].OrderId] = &records[i]
		}

		var settledOrderIds []int
		total := decimal.Zero
		invoiceOrders := make([]models.SettlementInvoiceOrder, 0, len(orderIds))
		for _, orderId := range orderIds {
			record := recordsByOrder[orderId]
			if record == nil {
				return &utils.NotFoundError{Resource: "profit record for order", Id: orderId}
			}
			if !record.IsPending() {
				settledOrderIds = append(settledOrderIds, orderId)
				continue
			}
			total = total.Add(record.EmployeeProfit)
			invoiceOrders = append(invoiceOrders, models.SettlementInvoiceOrder{
				OrderId:        orderId,
				EmployeeProfit: record.EmployeeProfit,
			})
		}
		if len(settledOrderIds) > 0 {
			return utils.NewConflictError("settlement batch refused", settledOrderIds)
		}

		// Compare-and-swap: flip only rows that are still pending. A row
		// count short of the batch means somebody raced us between the read
		// above and this update; refuse the whole batch.
		flip := tx.Model(&models.ProfitRecord{}).
			Where("order_id IN ? AND status = ?", orderIds, models.ProfitStatusPending).
			Updates(map[string]interface{}{"status": models.ProfitStatusSettled, "settled_at": now})
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected != int64(len(orderIds)) {
			return utils.NewConflictError("profit records changed during approval", orderIds)
		}

		invoiceNumber, seq, err := models.NextSettlementInvoiceNumber(tx)
		if err != nil {
			return err
		}
		invoice = &models.SettlementInvoice{
			InvoiceNumber:  invoiceNumber,
			SequenceNo:     seq,
			EmployeeId:     request.EmployeeId,
			EmployeeCode:   employee.EmployeeCode,
			TotalAmount:    total,
			SettlementDate: now,
			CreatedBy:      approvedBy,
			Status:         models.SettlementInvoiceStatusCompleted,
			Orders:         invoiceOrders,
		}
		if err := tx.Create(invoice).Error; err != nil {
			// The unique index on settlement_invoice_orders.order_id is the
			// last line of defense against double settlement.
			if isDuplicateKeyErr(err) {
				return utils.NewConflictError("order already claimed by another invoice", orderIds)
			}
			return err
		}

		if _, err := models.AppendEmployeeDuesExpense(tx, invoice); err != nil {
			return err
		}

		return tx.Model(&models.SettlementRequest{}).
			Where("id = ?", request.ID).
			Update("status", models.SettlementRequestStatusApproved).Error
	})
	if err != nil {
		if utils.IsValidationError(err) || utils.IsConflictError(err) || utils.IsNotFoundError(err) {
			return nil, err
		}
		config.LogError(logger, "settlementWorkflow.go", "ApproveAndIssueInvoice", "Transaction", requestId, err)
		return nil, utils.NewPersistenceError("approve settlement", err)
	}

	if err := reports.InvalidateFinancialCaches(); err != nil {
		config.LogError(logger, "settlementWorkflow.go", "ApproveAndIssueInvoice", "InvalidateFinancialCaches", invoice.InvoiceNumber, err)
	}

	logger.WithFields(logrus.Fields{
		"module":         "settlementWorkflow.go",
		"invoice_number": invoice.InvoiceNumber,
		"employee_id":    invoice.EmployeeId,
		"total_amount":   invoice.TotalAmount.String(),
		"order_count":    len(invoice.Orders),
		"correlation_id": correlationId,
	}).Info("settlement invoice issued")

	return invoice, nil
}
