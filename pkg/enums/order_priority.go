package enums

import "fmt"

// OrderPriority drives ticket ordering on the kitchen display.
type OrderPriority string

const (
	OrderPriorityLow    OrderPriority = "low"
	OrderPriorityNormal OrderPriority = "normal"
	OrderPriorityHigh   OrderPriority = "high"
	OrderPriorityUrgent OrderPriority = "urgent"
)

var validOrderPriorities = []OrderPriority{
	OrderPriorityLow,
	OrderPriorityNormal,
	OrderPriorityHigh,
	OrderPriorityUrgent,
}

// String implements fmt.Stringer.
func (o OrderPriority) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPriority.
func (o OrderPriority) IsValid() bool {
	for _, candidate := range validOrderPriorities {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPriority converts raw input into an OrderPriority.
func ParseOrderPriority(value string) (OrderPriority, error) {
	for _, candidate := range validOrderPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order priority %q", value)
}
