package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/workflow"
	"github.com/gin-gonic/gin"
)

func ListProfitRecordsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := models.ProfitStatus(c.Query("status"))
		records, err := models.ListProfitRecords(c.Request.Context(), intQuery(c, "employee_id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// ReconciliationHandler cross-checks invoice totals against settled profit
// records; a non-balanced report is an operator alarm, not a client error.
func ReconciliationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		report, err := workflow.CheckSettlementReconciliation(c.Request.Context(), intQuery(c, "employee_id"), dateRange)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
