package reports

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// EmployeeProfitTotals is one employee's pending/settled commission split.
type EmployeeProfitTotals struct {
	EmployeeId   int             `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Pending      decimal.Decimal `json:"pending"`
	Settled      decimal.Decimal `json:"settled"`
	OrderCount   int             `json:"order_count"`
}

type OrderProfitAggregate struct {
	PerEmployee  map[int]*EmployeeProfitTotals `json:"per_employee"`
	TotalPending decimal.Decimal               `json:"total_pending"`
	TotalSettled decimal.Decimal               `json:"total_settled"`
	ManagerShare decimal.Decimal               `json:"manager_share"`
}

type resolvedOrderProfit struct {
	EmployeeShare decimal.Decimal
	Pending       bool
}

// resolveOrderProfit is the single fallback path for orders without a
// materialized profit record: the ledger row wins when present, otherwise the
// share is recomputed from items and treated as implicitly pending. Every
// aggregation path goes through here so dashboards cannot drift apart.
func resolveOrderProfit(order models.Order, record *models.ProfitRecord, creator *models.User) resolvedOrderProfit {
	if record != nil {
		return resolvedOrderProfit{
			EmployeeShare: record.EmployeeProfit,
			Pending:       record.SettledAt == nil,
		}
	}
	var rule models.CommissionRule
	if creator != nil {
		rule = creator.CommissionRule()
	}
	profit := models.ComputeOrderProfit(order, rule)
	return resolvedOrderProfit{EmployeeShare: profit.EmployeeShare, Pending: true}
}

// AggregateOrderProfits is the pure reduction over an order set. Sums are
// associative and commutative: aggregating two disjoint subsets and adding the
// results equals aggregating the full set.
func AggregateOrderProfits(orders []models.Order, records []models.ProfitRecord, employees []models.User, dateRange utils.DateRange) *OrderProfitAggregate {
	recordsByOrder := make(map[int]*models.ProfitRecord, len(records))
	for i := range records {
		recordsByOrder[records[i].OrderId] = &records[i]
	}
	employeesById := make(map[int]*models.User, len(employees))
	for i := range employees {
		employeesById[employees[i].ID] = &employees[i]
	}

	aggregate := &OrderProfitAggregate{
		PerEmployee: make(map[int]*EmployeeProfitTotals),
	}

	for _, order := range orders {
		if !order.IsEligibleForProfit() {
			continue
		}
		if !dateRange.Contains(order.CreatedAt) {
			continue
		}

		creator := employeesById[order.CreatedBy]
		resolved := resolveOrderProfit(order, recordsByOrder[order.ID], creator)

		totals := aggregate.PerEmployee[order.CreatedBy]
		if totals == nil {
			totals = &EmployeeProfitTotals{EmployeeId: order.CreatedBy}
			if creator != nil {
				totals.EmployeeName = creator.Name
			}
			aggregate.PerEmployee[order.CreatedBy] = totals
		}
		totals.OrderCount++

		if resolved.Pending {
			totals.Pending = totals.Pending.Add(resolved.EmployeeShare)
			aggregate.TotalPending = aggregate.TotalPending.Add(resolved.EmployeeShare)
		} else {
			totals.Settled = totals.Settled.Add(resolved.EmployeeShare)
			aggregate.TotalSettled = aggregate.TotalSettled.Add(resolved.EmployeeShare)
		}

		if creator != nil && creator.Role.IsEmployeeClass() {
			aggregate.ManagerShare = aggregate.ManagerShare.Add(
				models.ComputeManagerShare(order, creator.CommissionRule()))
		}
	}

	return aggregate
}

// GetEmployeeProfitReport loads the order/profit/employee state and runs the
// aggregation, cached per (employee, range).
func GetEmployeeProfitReport(ctx context.Context, dateRange utils.DateRange, employeeId int) (*OrderProfitAggregate, error) {
	started := time.Now()
	cacheKey := fmt.Sprintf("%s%d:%s", employeeProfitCachePrefix, employeeId, dateRange.CacheKey())

	if reportCacheEnabled() {
		var cached OrderProfitAggregate
		if found, err := cacheGet(cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	orders, err := models.ListEligibleOrders(ctx, dateRange, employeeId)
	if err != nil {
		return nil, err
	}
	orderIds := make([]int, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
	}
	records, err := models.GetProfitRecordsByOrderIds(ctx, orderIds)
	if err != nil {
		return nil, err
	}
	employees, err := models.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	aggregate := AggregateOrderProfits(orders, records, employees, dateRange)

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, aggregate, reportCacheTTL())
	}
	logSlowReport(ctx, "employee_profit_report", started, map[string]any{"employee_id": employeeId})
	return aggregate, nil
}
