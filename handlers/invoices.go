package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func ListInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		invoices, err := models.ListSettlementInvoices(c.Request.Context(), intQuery(c, "employee_id"), dateRange)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoices)
	}
}

func GetInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		invoice, err := models.GetSettlementInvoiceById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}

// GetInvoiceOrdersHandler resolves an invoice to order snapshots for display;
// the invoice total stays the source of truth for the paid amount.
func GetInvoiceOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		orders, err := models.GetInvoiceOrders(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func ExportInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := reports.ExportSettlementInvoicesExcel(c.Request.Context(), c.Writer, intQuery(c, "employee_id"), dateRange); err != nil {
			respondError(c, err)
		}
	}
}
