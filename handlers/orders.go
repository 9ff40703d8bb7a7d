package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/gin-gonic/gin"
)

// ListEligibleOrdersHandler feeds the settlement picker: profit-eligible
// orders in range, optionally one employee's.
func ListEligibleOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			respondError(c, err)
			return
		}
		orders, err := models.ListEligibleOrders(c.Request.Context(), dateRange, intQuery(c, "employee_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderHandler returns one order with its profit record state, when a
// record has been materialized.
func GetOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		order, err := models.GetOrderById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		record, err := models.GetProfitRecordByOrderId(c.Request.Context(), id)
		if err != nil && !utils.IsNotFoundError(err) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order, "profit_record": record})
	}
}

type archiveOrdersInput struct {
	OrderIds []int `json:"order_ids" validate:"required,min=1,dive,gt=0"`
	Archived *bool `json:"archived" validate:"required"`
}

// ArchiveOrdersHandler flips is_archived after settlement-adjacent bulk
// actions; the only order write this service performs.
func ArchiveOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input archiveOrdersInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := models.ArchiveOrders(c.Request.Context(), input.OrderIds, *input.Archived); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"archived": *input.Archived, "order_count": len(input.OrderIds)})
	}
}
