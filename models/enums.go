package models

// Enum columns are stored as MySQL enum strings; the typed constants below are
// the single source for the accepted values.

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOwner    UserRole = "owner"
	UserRoleEmployee UserRole = "employee"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleOwner, UserRoleEmployee:
		return true
	}
	return false
}

// IsEmployeeClass reports whether orders created by this role count toward the
// manager/system residual aggregate. The owner's own orders are excluded by
// policy.
func (r UserRole) IsEmployeeClass() bool {
	return r == UserRoleEmployee
}

// CanApproveSettlement gates the invoice-issuing side of the settlement flow.
func (r UserRole) CanApproveSettlement() bool {
	return r == UserRoleAdmin || r == UserRoleOwner
}

type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFixed      CommissionType = "fixed"
)

func (t CommissionType) IsValid() bool {
	return t == CommissionTypePercentage || t == CommissionTypeFixed
}

type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivery        OrderStatus = "delivery"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusReturned        OrderStatus = "returned"
	OrderStatusReturnedInStock OrderStatus = "returned_in_stock"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivery,
		OrderStatusDelivered, OrderStatusCompleted, OrderStatusReturned,
		OrderStatusReturnedInStock, OrderStatusCancelled:
		return true
	}
	return false
}

// CountsTowardProfit is half of the order eligibility rule; the other half is
// Order.ReceiptReceived.
func (s OrderStatus) CountsTowardProfit() bool {
	return s == OrderStatusDelivered || s == OrderStatusCompleted
}

type ProfitStatus string

const (
	ProfitStatusPending ProfitStatus = "pending"
	ProfitStatusSettled ProfitStatus = "settled"
)

type SettlementRequestStatus string

const (
	SettlementRequestStatusOpen     SettlementRequestStatus = "open"
	SettlementRequestStatusApproved SettlementRequestStatus = "approved"
	SettlementRequestStatusRejected SettlementRequestStatus = "rejected"
)

type SettlementInvoiceStatus string

const (
	SettlementInvoiceStatusCompleted SettlementInvoiceStatus = "completed"
)

type ExpenseCategory string

const (
	ExpenseCategoryGeneral      ExpenseCategory = "general"
	ExpenseCategoryEmployeeDues ExpenseCategory = "employee_dues"
	ExpenseCategoryPurchaseCost ExpenseCategory = "purchase_cost"
	ExpenseCategorySystem       ExpenseCategory = "system"
)

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryGeneral, ExpenseCategoryEmployeeDues, ExpenseCategoryPurchaseCost, ExpenseCategorySystem:
		return true
	}
	return false
}

// IsGeneralDeduction reports whether the category counts as a general expense
// in net profit. Employee dues, purchase cost and system entries are tracked
// separately and must not be double-deducted.
func (c ExpenseCategory) IsGeneralDeduction() bool {
	return c != ExpenseCategoryEmployeeDues && c != ExpenseCategoryPurchaseCost && c != ExpenseCategorySystem
}
