package enums

import "fmt"

// OrderStatus tracks an order through its service lifecycle.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusClosed    OrderStatus = "closed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusOpen,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusServed,
	OrderStatusClosed,
	OrderStatusCancelled,
}

// orderStatusRanks orders the service states so transitions only move
// forward. Closed and cancelled are terminal and sit outside the ranking.
var orderStatusRanks = map[OrderStatus]int{
	OrderStatusOpen:      0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusServed:    3,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the order lifecycle.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusClosed || o == OrderStatusCancelled
}

// Rank returns the position of an in-service status, or -1 for terminal or
// unknown values.
func (o OrderStatus) Rank() int {
	if rank, ok := orderStatusRanks[o]; ok {
		return rank
	}
	return -1
}

// CanAdvanceTo reports whether moving from the receiver to target is a legal
// forward service transition. Terminal states never advance, and closed is
// only reachable through settlement, never through a status update.
func (o OrderStatus) CanAdvanceTo(target OrderStatus) bool {
	if o.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	from, to := o.Rank(), target.Rank()
	if from < 0 || to < 0 {
		return false
	}
	return to >= from
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
