package models

import (
	"github.com/shopspring/decimal"
)

// CommissionRule is the per-employee payout rule resolved from the employee
// directory. Percentage rules take a cut of item margin; fixed rules pay a
// flat amount per unit sold.
type CommissionRule struct {
	Type  CommissionType  `json:"type"`
	Value decimal.Decimal `json:"value"`
}

type ItemProfit struct {
	EmployeeShare decimal.Decimal `json:"employee_share"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

type OrderProfit struct {
	EmployeeShare decimal.Decimal `json:"employee_share"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

var oneHundred = decimal.NewFromInt(100)

// ComputeItemProfit derives one line item's total margin and the employee's
// share of it. Pure and deterministic: every dashboard, report and settlement
// path must agree with this function, so nothing else may re-derive item
// profit.
//
// Negative margins pass through unchanged; no clamping. The employee share is
// whatever the rule yields, even when it exceeds the item margin.
func ComputeItemProfit(item OrderItem, rule CommissionRule) ItemProfit {
	totalProfit := item.UnitPrice.Sub(item.UnitCost).Mul(item.Qty)

	var employeeShare decimal.Decimal
	switch rule.Type {
	case CommissionTypeFixed:
		employeeShare = rule.Value.Mul(item.Qty)
	default:
		employeeShare = totalProfit.Mul(rule.Value).Div(oneHundred)
	}

	return ItemProfit{
		EmployeeShare: employeeShare,
		TotalProfit:   totalProfit,
	}
}

// ComputeOrderProfit sums ComputeItemProfit over the order's items.
func ComputeOrderProfit(order Order, rule CommissionRule) OrderProfit {
	var profit OrderProfit
	for _, item := range order.Items {
		itemProfit := ComputeItemProfit(item, rule)
		profit.EmployeeShare = profit.EmployeeShare.Add(itemProfit.EmployeeShare)
		profit.TotalProfit = profit.TotalProfit.Add(itemProfit.TotalProfit)
	}
	return profit
}

// ComputeManagerShare is the residual order margin not attributed to the
// creating employee. A fixed commission larger than the item margin makes
// this negative; that is recorded as-is, not treated as an error.
func ComputeManagerShare(order Order, rule CommissionRule) decimal.Decimal {
	profit := ComputeOrderProfit(order, rule)
	return profit.TotalProfit.Sub(profit.EmployeeShare)
}
