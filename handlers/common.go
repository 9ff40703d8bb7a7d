package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// respondError maps the error taxonomy onto HTTP statuses. Conflicts carry
// the already-settled order ids so the client can show which orders were
// claimed by someone else, not a generic failure.
func respondError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case utils.IsConflictError(err):
		var settled []int
		if ce, ok := err.(*utils.ConflictError); ok {
			settled = ce.SettledOrderIds
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "settled_order_ids": settled})
	case utils.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// dateRangeFromQuery reads either a window preset (?window=month) or explicit
// ?from=2006-01-02&to=2006-01-02 bounds. Defaults to all time.
func dateRangeFromQuery(c *gin.Context) (utils.DateRange, error) {
	if window := c.Query("window"); window != "" {
		return utils.WindowDateRange(window, time.Now()), nil
	}

	var dateRange utils.DateRange
	layout := "2006-01-02"
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(layout, from)
		if err != nil {
			return dateRange, utils.NewValidationError("invalid from date %q", from)
		}
		dateRange.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(layout, to)
		if err != nil {
			return dateRange, utils.NewValidationError("invalid to date %q", to)
		}
		end := t.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
		dateRange.To = &end
	}
	return dateRange, nil
}

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, utils.NewValidationError("invalid %s", name)
	}
	return v, nil
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
