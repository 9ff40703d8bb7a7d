package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
)

// Two delivered orders of one employee in the same month:
//
//	A: final 100,000 / delivery 10,000 / cost 40,000 / commission 20,000
//	B: final  50,000 / delivery      0 / cost 20,000 / commission 10,000
func summaryScenario() ([]models.Order, []models.ProfitRecord, []models.User) {
	employees := []models.User{employee(1, models.UserRoleEmployee, 40)}

	orderA := receivedOrder(1, 1, jan, models.OrderItem{Qty: d(1), UnitPrice: d(90000), UnitCost: d(40000)})
	orderA.FinalAmount = d(100000)
	orderA.DeliveryFee = d(10000)

	orderB := receivedOrder(2, 1, jan.Add(time.Hour), models.OrderItem{Qty: d(1), UnitPrice: d(50000), UnitCost: d(20000)})
	orderB.FinalAmount = d(50000)

	records := []models.ProfitRecord{
		{OrderId: 1, EmployeeId: 1, ProfitAmount: d(50000), EmployeeProfit: d(20000), Status: models.ProfitStatusPending},
		{OrderId: 2, EmployeeId: 1, ProfitAmount: d(30000), EmployeeProfit: d(10000), Status: models.ProfitStatusPending},
	}

	return []models.Order{orderA, orderB}, records, employees
}

func monthRange() utils.DateRange {
	return utils.NewDateRange(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	)
}

func TestComputeFinancialSummary_BeforeSettlement(t *testing.T) {
	orders, records, employees := summaryScenario()

	got := ComputeFinancialSummary(orders, nil, records, nil, employees, monthRange())

	checks := []struct {
		name string
		got  string
		want int64
	}{
		{"TotalRevenue", got.TotalRevenue.String(), 150000},
		{"DeliveryFees", got.DeliveryFees.String(), 10000},
		{"SalesWithoutDelivery", got.SalesWithoutDelivery.String(), 140000},
		{"Cogs", got.Cogs.String(), 60000},
		{"GrossProfit", got.GrossProfit.String(), 80000},
		{"EmployeePendingDues", got.EmployeePendingDues.String(), 30000},
		{"EmployeeSettledDues", got.EmployeeSettledDues.String(), 0},
		{"NetProfit", got.NetProfit.String(), 80000},
	}
	for _, c := range checks {
		if c.got != d(c.want).String() {
			t.Errorf("%s = %s, want %d", c.name, c.got, c.want)
		}
	}
}

func TestComputeFinancialSummary_AfterSettlement(t *testing.T) {
	orders, records, employees := summaryScenario()

	settledAt := jan.Add(48 * time.Hour)
	for i := range records {
		if err := records[i].MarkSettled(settledAt); err != nil {
			t.Fatalf("mark settled: %v", err)
		}
	}
	invoices := []models.SettlementInvoice{{
		ID:             1,
		InvoiceNumber:  "STL-000001",
		EmployeeId:     1,
		TotalAmount:    d(30000),
		SettlementDate: settledAt,
	}}

	got := ComputeFinancialSummary(orders, nil, records, invoices, employees, monthRange())

	if !got.EmployeePendingDues.IsZero() {
		t.Fatalf("pending dues = %s, want 0 after settlement", got.EmployeePendingDues)
	}
	if !got.EmployeeSettledDues.Equal(d(30000)) {
		t.Fatalf("settled dues = %s, want 30000", got.EmployeeSettledDues)
	}
	if !got.NetProfit.Equal(d(50000)) {
		t.Fatalf("net profit = %s, want 50000 (80000 gross - 30000 dues)", got.NetProfit)
	}
}

// Settled dues are keyed by settlement date, not by when the orders were
// created: a payout made this month counts this month even for old orders.
func TestComputeFinancialSummary_SettledDuesKeyedBySettlementDate(t *testing.T) {
	orders, records, employees := summaryScenario()

	settledAt := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC) // next month
	for i := range records {
		if err := records[i].MarkSettled(settledAt); err != nil {
			t.Fatalf("mark settled: %v", err)
		}
	}
	invoices := []models.SettlementInvoice{{
		ID: 1, EmployeeId: 1, TotalAmount: d(30000), SettlementDate: settledAt,
	}}

	january := ComputeFinancialSummary(orders, nil, records, invoices, employees, monthRange())
	if !january.EmployeeSettledDues.IsZero() {
		t.Fatalf("january settled dues = %s, want 0 (payout happened in february)", january.EmployeeSettledDues)
	}

	february := ComputeFinancialSummary(orders, nil, records, invoices, employees, utils.NewDateRange(
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC),
	))
	if !february.EmployeeSettledDues.Equal(d(30000)) {
		t.Fatalf("february settled dues = %s, want 30000", february.EmployeeSettledDues)
	}
}

func TestComputeFinancialSummary_GeneralExpensesExcludeDuesAndPurchases(t *testing.T) {
	orders, records, employees := summaryScenario()
	expenses := []models.Expense{
		{Category: models.ExpenseCategoryGeneral, Amount: d(5000), TransactionDate: jan},
		{Category: models.ExpenseCategoryEmployeeDues, Amount: d(30000), TransactionDate: jan},
		{Category: models.ExpenseCategoryPurchaseCost, Amount: d(99999), TransactionDate: jan},
		{Category: models.ExpenseCategorySystem, Amount: d(1), TransactionDate: jan},
	}

	got := ComputeFinancialSummary(orders, expenses, records, nil, employees, monthRange())

	if !got.GeneralExpenses.Equal(d(5000)) {
		t.Fatalf("general expenses = %s, want 5000", got.GeneralExpenses)
	}
	if !got.NetProfit.Equal(d(75000)) {
		t.Fatalf("net profit = %s, want 75000", got.NetProfit)
	}
}

func TestComputeFinancialSummary_Deterministic(t *testing.T) {
	orders, records, employees := summaryScenario()

	first := ComputeFinancialSummary(orders, nil, records, nil, employees, monthRange())
	for i := 0; i < 100; i++ {
		got := ComputeFinancialSummary(orders, nil, records, nil, employees, monthRange())
		if got.NetProfit.String() != first.NetProfit.String() {
			t.Fatalf("run %d: net profit %s != %s", i, got.NetProfit, first.NetProfit)
		}
	}
}
