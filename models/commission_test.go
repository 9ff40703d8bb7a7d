package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestComputeItemProfit_PercentageRule(t *testing.T) {
	item := OrderItem{Qty: d(2), UnitPrice: d(50000), UnitCost: d(30000)}
	rule := CommissionRule{Type: CommissionTypePercentage, Value: d(40)}

	got := ComputeItemProfit(item, rule)

	if !got.TotalProfit.Equal(d(40000)) {
		t.Fatalf("total profit = %s, want 40000", got.TotalProfit)
	}
	if !got.EmployeeShare.Equal(d(16000)) {
		t.Fatalf("employee share = %s, want 16000", got.EmployeeShare)
	}
}

func TestComputeItemProfit_FixedRulePerUnit(t *testing.T) {
	item := OrderItem{Qty: d(3), UnitPrice: d(20000), UnitCost: d(15000)}
	rule := CommissionRule{Type: CommissionTypeFixed, Value: d(4000)}

	got := ComputeItemProfit(item, rule)

	if !got.TotalProfit.Equal(d(15000)) {
		t.Fatalf("total profit = %s, want 15000", got.TotalProfit)
	}
	if !got.EmployeeShare.Equal(d(12000)) {
		t.Fatalf("employee share = %s, want 12000", got.EmployeeShare)
	}
}

func TestComputeItemProfit_NegativeMarginPassesThrough(t *testing.T) {
	// Selling below cost is recorded as-is, no clamping.
	item := OrderItem{Qty: d(1), UnitPrice: d(10000), UnitCost: d(12000)}
	rule := CommissionRule{Type: CommissionTypePercentage, Value: d(50)}

	got := ComputeItemProfit(item, rule)

	if !got.TotalProfit.Equal(d(-2000)) {
		t.Fatalf("total profit = %s, want -2000", got.TotalProfit)
	}
	if !got.EmployeeShare.Equal(d(-1000)) {
		t.Fatalf("employee share = %s, want -1000", got.EmployeeShare)
	}
}

func TestComputeManagerShare_NegativeResidual(t *testing.T) {
	// A fixed commission above the item margin yields a negative residual;
	// that is a recorded outcome, not an error.
	order := Order{Items: []OrderItem{
		{Qty: d(1), UnitPrice: d(10000), UnitCost: d(9000)},
	}}
	rule := CommissionRule{Type: CommissionTypeFixed, Value: d(3000)}

	residual := ComputeManagerShare(order, rule)

	if !residual.Equal(d(-2000)) {
		t.Fatalf("manager share = %s, want -2000", residual)
	}
}

func TestComputeOrderProfit_SumsItems(t *testing.T) {
	order := Order{Items: []OrderItem{
		{Qty: d(1), UnitPrice: d(100000), UnitCost: d(40000)},
		{Qty: d(2), UnitPrice: d(25000), UnitCost: d(10000)},
	}}
	rule := CommissionRule{Type: CommissionTypePercentage, Value: d(25)}

	got := ComputeOrderProfit(order, rule)

	if !got.TotalProfit.Equal(d(90000)) {
		t.Fatalf("total profit = %s, want 90000", got.TotalProfit)
	}
	if !got.EmployeeShare.Equal(d(22500)) {
		t.Fatalf("employee share = %s, want 22500", got.EmployeeShare)
	}
}

func TestComputeItemProfit_Deterministic(t *testing.T) {
	item := OrderItem{Qty: d(7), UnitPrice: decimal.NewFromFloat(3333.33), UnitCost: decimal.NewFromFloat(1111.11)}
	rule := CommissionRule{Type: CommissionTypePercentage, Value: decimal.NewFromFloat(12.5)}

	first := ComputeItemProfit(item, rule)
	for i := 0; i < 1000; i++ {
		got := ComputeItemProfit(item, rule)
		if !got.TotalProfit.Equal(first.TotalProfit) || !got.EmployeeShare.Equal(first.EmployeeShare) {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}
