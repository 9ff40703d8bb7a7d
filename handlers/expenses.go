package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"github.com/gin-gonic/gin"
)

// CreateExpenseHandler records a manual expense. employee_dues rows are
// rejected here; they only ever come from settlement approval.
func CreateExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewExpense
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		expense, err := models.CreateExpense(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, expense)
	}
}

func ListExpensesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		category := models.ExpenseCategory(c.Query("category"))
		expenses, err := models.ListExpenses(c.Request.Context(), category, dateRange)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, expenses)
	}
}
