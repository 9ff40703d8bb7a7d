package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/models/reports"
	"github.com/gin-gonic/gin"
)

// FinancialSummaryHandler serves the canonical summary; every dashboard
// renders this output instead of recomputing its own figures.
func FinancialSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		summary, err := reports.GetFinancialSummary(c.Request.Context(), dateRange)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func EmployeeProfitReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		aggregate, err := reports.GetEmployeeProfitReport(c.Request.Context(), dateRange, intQuery(c, "employee_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, aggregate)
	}
}

func ExportFinancialSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := reports.ExportFinancialSummaryExcel(c.Request.Context(), c.Writer, dateRange); err != nil {
			respondError(c, err)
		}
	}
}
