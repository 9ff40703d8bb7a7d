package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IntSlice stores an id list as a JSON column.
type IntSlice []int

func (a *IntSlice) Scan(value interface{}) error {
	if value == nil {
		*a = IntSlice{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan IntSlice: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a IntSlice) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// SettlementRequest is the review artifact between an employee asking for a
// payout and the approval that issues the invoice. Creating one does not flip
// any profit record; the amount is a quote recomputed at approval time.
type SettlementRequest struct {
	ID          int                     `gorm:"primary_key" json:"id"`
	EmployeeId  int                     `gorm:"index;not null" json:"employee_id"`
	OrderIds    IntSlice                `gorm:"type:json;not null" json:"order_ids"`
	Amount      decimal.Decimal         `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Status      SettlementRequestStatus `gorm:"type:enum('open','approved','rejected');not null;default:open;index" json:"status"`
	RequestedBy int                     `gorm:"not null" json:"requested_by"`
	Notes       string                  `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time               `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetSettlementRequestById(ctx context.Context, id int) (*SettlementRequest, error) {
	db := config.GetDB()
	var request SettlementRequest
	err := db.WithContext(ctx).First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &utils.NotFoundError{Resource: "settlement request", Id: id}
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func ListSettlementRequests(ctx context.Context, employeeId int, status SettlementRequestStatus) ([]SettlementRequest, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Model(&SettlementRequest{})
	if employeeId > 0 {
		query = query.Where("employee_id = ?", employeeId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var requests []SettlementRequest
	if err := query.Order("id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
