package reports

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// FinancialSummary is the canonical money view every dashboard and report
// renders. NetProfit is computed here and nowhere else.
type FinancialSummary struct {
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	DeliveryFees         decimal.Decimal `json:"delivery_fees"`
	SalesWithoutDelivery decimal.Decimal `json:"sales_without_delivery"`
	Cogs                 decimal.Decimal `json:"cogs"`
	GrossProfit          decimal.Decimal `json:"gross_profit"`
	GeneralExpenses      decimal.Decimal `json:"general_expenses"`
	EmployeeSettledDues  decimal.Decimal `json:"employee_settled_dues"`
	EmployeePendingDues  decimal.Decimal `json:"employee_pending_dues"`
	NetProfit            decimal.Decimal `json:"net_profit"`
}

// ComputeFinancialSummary is the pure reduction behind GetFinancialSummary.
//
// Order figures (revenue, cogs, pending dues) are keyed by when the eligible
// order was created; settled dues are keyed by the invoice settlement date.
// A payout made this month counts this month even for an older order.
func ComputeFinancialSummary(
	orders []models.Order,
	expenses []models.Expense,
	records []models.ProfitRecord,
	invoices []models.SettlementInvoice,
	employees []models.User,
	dateRange utils.DateRange,
) *FinancialSummary {

	summary := &FinancialSummary{}

	recordsByOrder := make(map[int]*models.ProfitRecord, len(records))
	for i := range records {
		recordsByOrder[records[i].OrderId] = &records[i]
	}
	employeesById := make(map[int]*models.User, len(employees))
	for i := range employees {
		employeesById[employees[i].ID] = &employees[i]
	}

	for _, order := range orders {
		if !order.IsEligibleForProfit() {
			continue
		}
		if !dateRange.Contains(order.CreatedAt) {
			continue
		}

		summary.TotalRevenue = summary.TotalRevenue.Add(order.FinalAmount)
		summary.DeliveryFees = summary.DeliveryFees.Add(order.DeliveryFee)
		summary.Cogs = summary.Cogs.Add(order.Cogs())

		resolved := resolveOrderProfit(order, recordsByOrder[order.ID], employeesById[order.CreatedBy])
		if resolved.Pending {
			summary.EmployeePendingDues = summary.EmployeePendingDues.Add(resolved.EmployeeShare)
		}
	}

	for _, expense := range expenses {
		if !expense.Category.IsGeneralDeduction() {
			continue
		}
		if !dateRange.Contains(expense.TransactionDate) {
			continue
		}
		summary.GeneralExpenses = summary.GeneralExpenses.Add(expense.Amount)
	}

	for _, invoice := range invoices {
		if !dateRange.Contains(invoice.SettlementDate) {
			continue
		}
		summary.EmployeeSettledDues = summary.EmployeeSettledDues.Add(invoice.TotalAmount)
	}

	summary.SalesWithoutDelivery = summary.TotalRevenue.Sub(summary.DeliveryFees)
	summary.GrossProfit = summary.SalesWithoutDelivery.Sub(summary.Cogs)
	summary.NetProfit = summary.GrossProfit.Sub(summary.GeneralExpenses).Sub(summary.EmployeeSettledDues)

	return summary
}

// GetFinancialSummary computes the summary over a dashboard window, cached per
// range and invalidated on settlement.
func GetFinancialSummary(ctx context.Context, dateRange utils.DateRange) (*FinancialSummary, error) {
	started := time.Now()
	cacheKey := financialSummaryCachePrefix + dateRange.CacheKey()

	if reportCacheEnabled() {
		var cached FinancialSummary
		if found, err := cacheGet(cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	orders, err := models.ListEligibleOrders(ctx, dateRange, 0)
	if err != nil {
		return nil, err
	}
	orderIds := make([]int, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
	}
	var records []models.ProfitRecord
	if len(orderIds) > 0 {
		records, err = models.GetProfitRecordsByOrderIds(ctx, orderIds)
		if err != nil {
			return nil, err
		}
	}
	expenses, err := models.ListExpenses(ctx, "", dateRange)
	if err != nil {
		return nil, err
	}
	invoices, err := models.ListSettlementInvoices(ctx, 0, dateRange)
	if err != nil {
		return nil, err
	}
	employees, err := models.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}

	summary := ComputeFinancialSummary(orders, expenses, records, invoices, employees, dateRange)

	if reportCacheEnabled() {
		_ = cacheSet(cacheKey, summary, reportCacheTTL())
	}
	logSlowReport(ctx, "financial_summary", started, nil)
	return summary, nil
}

// GetFinancialSummaryForWindow resolves a dashboard preset (today/week/month/
// year/all) and delegates to GetFinancialSummary.
func GetFinancialSummaryForWindow(ctx context.Context, window string) (*FinancialSummary, error) {
	return GetFinancialSummary(ctx, utils.WindowDateRange(window, time.Now()))
}
