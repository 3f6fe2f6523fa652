package enums

import "fmt"

// InventoryTransactionType classifies a stock movement.
type InventoryTransactionType string

const (
	InventoryTransactionTypeRestock    InventoryTransactionType = "restock"
	InventoryTransactionTypeSale       InventoryTransactionType = "sale"
	InventoryTransactionTypeWaste      InventoryTransactionType = "waste"
	InventoryTransactionTypeAdjustment InventoryTransactionType = "adjustment"
)

var validInventoryTransactionTypes = []InventoryTransactionType{
	InventoryTransactionTypeRestock,
	InventoryTransactionTypeSale,
	InventoryTransactionTypeWaste,
	InventoryTransactionTypeAdjustment,
}

// String implements fmt.Stringer.
func (i InventoryTransactionType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InventoryTransactionType.
func (i InventoryTransactionType) IsValid() bool {
	for _, candidate := range validInventoryTransactionTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// IsDeduction reports whether the movement removes stock.
func (i InventoryTransactionType) IsDeduction() bool {
	return i == InventoryTransactionTypeSale || i == InventoryTransactionTypeWaste
}

// ParseInventoryTransactionType converts raw input into an InventoryTransactionType.
func ParseInventoryTransactionType(value string) (InventoryTransactionType, error) {
	for _, candidate := range validInventoryTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory transaction type %q", value)
}
