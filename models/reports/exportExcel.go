package reports

import (
	"context"
	"fmt"
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/xuri/excelize/v2"
)

// ExportSettlementInvoicesExcel streams the invoice ledger as an xlsx
// attachment for accounting handover.
func ExportSettlementInvoicesExcel(ctx context.Context, w http.ResponseWriter, employeeId int, dateRange utils.DateRange) error {
	invoices, err := models.ListSettlementInvoices(ctx, employeeId, dateRange)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet("Sheet1"); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue("Sheet1", "A1", "InvoiceNumber")
	f.SetCellValue("Sheet1", "B1", "EmployeeCode")
	f.SetCellValue("Sheet1", "C1", "SettlementDate")
	f.SetCellValue("Sheet1", "D1", "OrderCount")
	f.SetCellValue("Sheet1", "E1", "TotalAmount")

	// Add data
	for i, inv := range invoices {
		row := fmt.Sprint(i + 2)
		f.SetCellValue("Sheet1", "A"+row, inv.InvoiceNumber)
		f.SetCellValue("Sheet1", "B"+row, inv.EmployeeCode)
		f.SetCellValue("Sheet1", "C"+row, inv.SettlementDate.Format("2006-01-02"))
		f.SetCellValue("Sheet1", "D"+row, len(inv.Orders))
		f.SetCellValue("Sheet1", "E"+row, inv.TotalAmount.String())
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=settlement_invoices.xlsx")
	return f.Write(w)
}

// ExportFinancialSummaryExcel streams the canonical summary for one window.
func ExportFinancialSummaryExcel(ctx context.Context, w http.ResponseWriter, dateRange utils.DateRange) error {
	summary, err := GetFinancialSummary(ctx, dateRange)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	if _, err := f.NewSheet("Sheet1"); err != nil {
		return err
	}

	rows := [][2]string{
		{"TotalRevenue", summary.TotalRevenue.String()},
		{"DeliveryFees", summary.DeliveryFees.String()},
		{"SalesWithoutDelivery", summary.SalesWithoutDelivery.String()},
		{"Cogs", summary.Cogs.String()},
		{"GrossProfit", summary.GrossProfit.String()},
		{"GeneralExpenses", summary.GeneralExpenses.String()},
		{"EmployeeSettledDues", summary.EmployeeSettledDues.String()},
		{"EmployeePendingDues", summary.EmployeePendingDues.String()},
		{"NetProfit", summary.NetProfit.String()},
	}
	for i, r := range rows {
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(i+1), r[0])
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(i+1), r[1])
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=financial_summary.xlsx")
	return f.Write(w)
}
