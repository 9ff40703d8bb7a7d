package workflow

import (
	"context"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
)

// ReconciliationReport compares the two sides of the settlement ledger for an
// employee and range. InvoiceTotal and SettledRecordTotal must always match;
// a mismatch means an invariant was broken and needs manual investigation.
type ReconciliationReport struct {
	EmployeeId         int             `json:"employee_id"`
	InvoiceCount       int             `json:"invoice_count"`
	InvoiceTotal       decimal.Decimal `json:"invoice_total"`
	SettledRecordCount int             `json:"settled_record_count"`
	SettledRecordTotal decimal.Decimal `json:"settled_record_total"`
	Balanced           bool            `json:"balanced"`
}

// CheckSettlementReconciliation cross-checks invoice totals against the settled
// profit records they claim, per employee (0 = all) over a settlement-date
// range.
func CheckSettlementReconciliation(ctx context.Context, employeeId int, dateRange utils.DateRange) (*ReconciliationReport, error) {
	invoices, err := models.ListSettlementInvoices(ctx, employeeId, dateRange)
	if err != nil {
		return nil, err
	}
	records, err := models.ListSettledProfitRecords(ctx, employeeId, dateRange)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{EmployeeId: employeeId}
	for _, inv := range invoices {
		report.InvoiceCount++
		report.InvoiceTotal = report.InvoiceTotal.Add(inv.TotalAmount)
	}
	for _, rec := range records {
		report.SettledRecordCount++
		report.SettledRecordTotal = report.SettledRecordTotal.Add(rec.EmployeeProfit)
	}
	report.Balanced = report.InvoiceTotal.Equal(report.SettledRecordTotal)
	return report, nil
}
