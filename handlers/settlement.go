package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/workflow"
	"github.com/gin-gonic/gin"
)

type settlementRequestInput struct {
	EmployeeId int   `json:"employee_id" validate:"required,gt=0"`
	OrderIds   []int `json:"order_ids" validate:"required,min=1,dive,gt=0"`
}

// RequestSettlementHandler creates the review artifact; no profit record is
// flipped here.
func RequestSettlementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input settlementRequestInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		request, err := workflow.RequestSettlement(c.Request.Context(), config.GetLogger(), input.EmployeeId, input.OrderIds)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, request)
	}
}

// ApproveSettlementHandler issues the invoice for an open request. Role
// checks live in the workflow so no other call path can skip them.
func ApproveSettlementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		invoice, err := workflow.ApproveAndIssueInvoice(c.Request.Context(), config.GetLogger(), requestId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, invoice)
	}
}

type rejectSettlementInput struct {
	Notes string `json:"notes"`
}

func RejectSettlementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId, err := intParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		// Notes are optional; an empty body is fine.
		var input rejectSettlementInput
		_ = c.ShouldBindJSON(&input)
		request, err := workflow.RejectSettlementRequest(c.Request.Context(), config.GetLogger(), requestId, input.Notes)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, request)
	}
}

func ListSettlementRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := models.SettlementRequestStatus(c.Query("status"))
		requests, err := models.ListSettlementRequests(c.Request.Context(), intQuery(c, "employee_id"), status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}
