package enums

import "fmt"

// AlertType classifies an inventory alert condition.
type AlertType string

const (
	AlertTypeLowStock  AlertType = "low_stock"
	AlertTypeExpiring  AlertType = "expiring"
	AlertTypeExpired   AlertType = "expired"
	AlertTypeOverstock AlertType = "overstock"
)

var validAlertTypes = []AlertType{
	AlertTypeLowStock,
	AlertTypeExpiring,
	AlertTypeExpired,
	AlertTypeOverstock,
}

// String implements fmt.Stringer.
func (a AlertType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AlertType.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw input into an AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}
