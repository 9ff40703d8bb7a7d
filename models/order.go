package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is consumed read-only from the order feed; the settlement core only
// ever writes the IsArchived flag.
type Order struct {
	ID              int             `gorm:"primary_key" json:"id"`
	OrderNumber     string          `gorm:"size:255;not null" json:"order_number"`
	CurrentStatus   OrderStatus     `gorm:"type:enum('pending','shipped','delivery','delivered','completed','returned','returned_in_stock','cancelled');not null;index" json:"current_status"`
	CreatedBy       int             `gorm:"index;not null" json:"created_by"`
	ReceiptReceived *bool           `gorm:"not null;default:false" json:"receipt_received"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"delivery_fee"`
	FinalAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"final_amount"`
	IsArchived      *bool           `gorm:"not null;default:false" json:"is_archived"`
	Items           []OrderItem     `gorm:"foreignKey:OrderId" json:"items"`
	CreatedAt       time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type OrderItem struct {
	ID               int             `gorm:"primary_key" json:"id"`
	OrderId          int             `gorm:"index;not null" json:"order_id"`
	ProductVariantId int             `gorm:"index;not null" json:"product_variant_id"`
	ProductName      string          `gorm:"size:255" json:"product_name"`
	Qty              decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_cost"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsEligibleForProfit is the single eligibility rule every aggregation path
// shares: delivered/completed with the cash receipt confirmed back.
func (o *Order) IsEligibleForProfit() bool {
	return o.CurrentStatus.CountsTowardProfit() && utils.DereferencePtr(o.ReceiptReceived)
}

// Cogs is the cost of goods sold of this order's items.
func (o *Order) Cogs() decimal.Decimal {
	cogs := decimal.Zero
	for _, item := range o.Items {
		cogs = cogs.Add(item.UnitCost.Mul(item.Qty))
	}
	return cogs
}

func GetOrderById(ctx context.Context, id int) (*Order, error) {
	db := config.GetDB()
	var order Order
	err := db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &utils.NotFoundError{Resource: "order", Id: id}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByIds loads full order snapshots, preserving only orders that still
// exist. Callers resolving invoice order_ids tolerate missing rows.
func GetOrdersByIds(ctx context.Context, ids []int) ([]Order, error) {
	db := config.GetDB()
	var orders []Order
	err := db.WithContext(ctx).Preload("Items").Where("id IN ?", utils.UniqueSlice(ids)).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListEligibleOrders returns profit-eligible orders within the range.
// An unbounded range applies no date filter.
func ListEligibleOrders(ctx context.Context, dateRange utils.DateRange, createdBy int) ([]Order, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Preload("Items").
		Where("current_status IN ?", []OrderStatus{OrderStatusDelivered, OrderStatusCompleted}).
		Where("receipt_received = ?", true)
	if dateRange.From != nil {
		query = query.Where("created_at >= ?", *dateRange.From)
	}
	if dateRange.To != nil {
		query = query.Where("created_at <= ?", *dateRange.To)
	}
	if createdBy > 0 {
		query = query.Where("created_by = ?", createdBy)
	}
	var orders []Order
	if err := query.Order("created_at").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ArchiveOrders flips is_archived after settlement-adjacent bulk actions.
func ArchiveOrders(ctx context.Context, orderIds []int, archived bool) error {
	if len(orderIds) == 0 {
		return utils.NewValidationError("order ids must not be empty")
	}
	if err := utils.ValidateResourcesId[Order](ctx, orderIds); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&Order{}).
		Where("id IN ?", utils.UniqueSlice(orderIds)).
		Update("is_archived", archived).Error
}
