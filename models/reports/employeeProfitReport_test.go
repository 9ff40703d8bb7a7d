package reports

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/models"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func receivedOrder(id, createdBy int, createdAt time.Time, items ...models.OrderItem) models.Order {
	return models.Order{
		ID:              id,
		CurrentStatus:   models.OrderStatusCompleted,
		CreatedBy:       createdBy,
		ReceiptReceived: utils.NewTrue(),
		Items:           items,
		CreatedAt:       createdAt,
	}
}

func employee(id int, role models.UserRole, pct int64) models.User {
	return models.User{
		ID:              id,
		Name:            "emp",
		Role:            role,
		CommissionType:  models.CommissionTypePercentage,
		CommissionValue: d(pct),
	}
}

var jan = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func TestAggregateOrderProfits_EligibilityFilter(t *testing.T) {
	employees := []models.User{employee(1, models.UserRoleEmployee, 50)}
	item := models.OrderItem{Qty: d(1), UnitPrice: d(10000), UnitCost: d(6000)}

	noReceipt := receivedOrder(2, 1, jan, item)
	noReceipt.ReceiptReceived = utils.NewFalse()
	shipped := receivedOrder(3, 1, jan, item)
	shipped.CurrentStatus = models.OrderStatusShipped

	orders := []models.Order{
		receivedOrder(1, 1, jan, item),
		noReceipt,
		shipped,
	}

	got := AggregateOrderProfits(orders, nil, employees, utils.DateRange{})

	if !got.TotalPending.Equal(d(2000)) {
		t.Fatalf("total pending = %s, want 2000 (only the delivered+receipt order counts)", got.TotalPending)
	}
	if got.PerEmployee[1].OrderCount != 1 {
		t.Fatalf("order count = %d, want 1", got.PerEmployee[1].OrderCount)
	}
}

func TestAggregateOrderProfits_RecordWinsOverFallback(t *testing.T) {
	employees := []models.User{employee(1, models.UserRoleEmployee, 50)}
	item := models.OrderItem{Qty: d(1), UnitPrice: d(10000), UnitCost: d(6000)}
	orders := []models.Order{
		receivedOrder(1, 1, jan, item), // has a ledger row
		receivedOrder(2, 1, jan, item), // fallback path
	}
	settledAt := jan.Add(24 * time.Hour)
	records := []models.ProfitRecord{
		{OrderId: 1, EmployeeId: 1, EmployeeProfit: d(1500), Status: models.ProfitStatusSettled, SettledAt: &settledAt},
	}

	got := AggregateOrderProfits(orders, records, employees, utils.DateRange{})

	if !got.TotalSettled.Equal(d(1500)) {
		t.Fatalf("total settled = %s, want 1500 (the record amount, not a recompute)", got.TotalSettled)
	}
	if !got.TotalPending.Equal(d(2000)) {
		t.Fatalf("total pending = %s, want 2000 from the fallback computation", got.TotalPending)
	}
}

func TestAggregateOrderProfits_ManagerShareExcludesOwnerOrders(t *testing.T) {
	employees := []models.User{
		employee(1, models.UserRoleEmployee, 50),
		employee(2, models.UserRoleOwner, 0),
	}
	item := models.OrderItem{Qty: d(1), UnitPrice: d(10000), UnitCost: d(6000)}
	orders := []models.Order{
		receivedOrder(1, 1, jan, item),
		receivedOrder(2, 2, jan, item), // owner's own order
	}

	got := AggregateOrderProfits(orders, nil, employees, utils.DateRange{})

	if !got.ManagerShare.Equal(d(2000)) {
		t.Fatalf("manager share = %s, want 2000 (owner order excluded)", got.ManagerShare)
	}
}

func TestAggregateOrderProfits_DateRangeInclusive(t *testing.T) {
	employees := []models.User{employee(1, models.UserRoleEmployee, 50)}
	item := models.OrderItem{Qty: d(1), UnitPrice: d(10000), UnitCost: d(6000)}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	orders := []models.Order{
		receivedOrder(1, 1, from, item),                            // on the lower bound
		receivedOrder(2, 1, to, item),                              // on the upper bound
		receivedOrder(3, 1, to.Add(time.Second), item),             // outside
		receivedOrder(4, 1, from.Add(-time.Second), item),          // outside
		receivedOrder(5, 1, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), item),
	}

	got := AggregateOrderProfits(orders, nil, employees, utils.NewDateRange(from, to))

	if got.PerEmployee[1].OrderCount != 3 {
		t.Fatalf("order count = %d, want 3 (bounds are inclusive)", got.PerEmployee[1].OrderCount)
	}
}

// Splitting an order set into disjoint subsets and summing the aggregates must
// equal aggregating the full set.
func TestAggregateOrderProfits_Associativity(t *testing.T) {
	employees := []models.User{
		employee(1, models.UserRoleEmployee, 30),
		employee(2, models.UserRoleEmployee, 45),
	}

	var orders []models.Order
	for i := 1; i <= 40; i++ {
		creator := 1 + i%2
		item := models.OrderItem{
			Qty:       d(int64(1 + i%3)),
			UnitPrice: d(int64(10000 + 137*i)),
			UnitCost:  d(int64(7000 + 91*i)),
		}
		orders = append(orders, receivedOrder(i, creator, jan.Add(time.Duration(i)*time.Hour), item))
	}
	var records []models.ProfitRecord
	settledAt := jan.Add(90 * 24 * time.Hour)
	for i := 1; i <= 40; i += 4 {
		records = append(records, models.ProfitRecord{
			OrderId: i, EmployeeId: 1 + i%2, EmployeeProfit: d(int64(500 * i)),
			Status: models.ProfitStatusSettled, SettledAt: &settledAt,
		})
	}

	full := AggregateOrderProfits(orders, records, employees, utils.DateRange{})

	for split := 1; split < len(orders); split += 7 {
		left := AggregateOrderProfits(orders[:split], records, employees, utils.DateRange{})
		right := AggregateOrderProfits(orders[split:], records, employees, utils.DateRange{})

		pending := left.TotalPending.Add(right.TotalPending)
		settled := left.TotalSettled.Add(right.TotalSettled)
		manager := left.ManagerShare.Add(right.ManagerShare)

		if !pending.Equal(full.TotalPending) {
			t.Fatalf("split %d: pending %s + %s != %s", split, left.TotalPending, right.TotalPending, full.TotalPending)
		}
		if !settled.Equal(full.TotalSettled) {
			t.Fatalf("split %d: settled %s != %s", split, settled, full.TotalSettled)
		}
		if !manager.Equal(full.ManagerShare) {
			t.Fatalf("split %d: manager %s != %s", split, manager, full.ManagerShare)
		}
	}
}
