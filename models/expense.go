package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is the shared expense ledger. employee_dues rows mirror settlement
// invoices 1:1 (InvoiceId set); general rows feed the net-profit deduction.
type Expense struct {
	ID              int             `gorm:"primary_key" json:"id"`
	Category        ExpenseCategory `gorm:"type:enum('general','employee_dues','purchase_cost','system');not null;index" json:"category"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	Description     string          `gorm:"size:255" json:"description"`
	InvoiceId       *int            `gorm:"uniqueIndex" json:"invoice_id"`
	EmployeeId      int             `gorm:"index" json:"employee_id"`
	CreatedBy       int             `json:"created_by"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	Category        ExpenseCategory `json:"category" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Description     string          `json:"description"`
}

func (input *NewExpense) validate() error {
	if !input.Category.IsValid() {
		return utils.NewValidationError("invalid expense category %q", input.Category)
	}
	if input.Category == ExpenseCategoryEmployeeDues {
		return utils.NewValidationError("employee_dues expenses are created by settlement approval only")
	}
	if input.Amount.IsNegative() {
		return utils.NewValidationError("expense amount must not be negative")
	}
	return nil
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	createdBy, _ := utils.GetUserIdFromContext(ctx)
	expense := Expense{
		Category:        input.Category,
		Amount:          input.Amount,
		TransactionDate: input.TransactionDate,
		Description:     input.Description,
		CreatedBy:       createdBy,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// AppendEmployeeDuesExpense writes the expense-ledger mirror of a settlement
// invoice inside the settlement transaction. One row per invoice, enforced by
// the unique index on invoice_id.
func AppendEmployeeDuesExpense(tx *gorm.DB, invoice *SettlementInvoice) (*Expense, error) {
	expense := Expense{
		Category:        ExpenseCategoryEmployeeDues,
		Amount:          invoice.TotalAmount,
		TransactionDate: invoice.SettlementDate,
		Description:     "Employee dues settlement " + invoice.InvoiceNumber,
		InvoiceId:       &invoice.ID,
		EmployeeId:      invoice.EmployeeId,
		CreatedBy:       invoice.CreatedBy,
	}
	if err := tx.Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns expenses in range, optionally restricted to a category.
func ListExpenses(ctx context.Context, category ExpenseCategory, dateRange utils.DateRange) ([]Expense, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&Expense{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if dateRange.From != nil {
		query = query.Where("transaction_date >= ?", *dateRange.From)
	}
	if dateRange.To != nil {
		query = query.Where("transaction_date <= ?", *dateRange.To)
	}
	var expenses []Expense
	if err := query.Order("transaction_date").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
