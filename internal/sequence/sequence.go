package sequence

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Counter names backed by the counters table.
const (
	OrderNumber   = "order_number"
	TicketNumber  = "ticket_number"
	ReceiptNumber = "receipt_number"
)

// Next advances the named counter atomically inside the caller's transaction
// and returns the new value. The row-level lock taken by the UPDATE
// serializes concurrent allocations, so two orders can never share a number.
func Next(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction handle required")
	}
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("counter name required")
	}

	var value int64
	err := tx.WithContext(ctx).
		Raw("UPDATE counters SET value = value + 1 WHERE name = ? RETURNING value", name).
		Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("advancing counter %s: %w", name, err)
	}
	if value == 0 {
		return 0, fmt.Errorf("counter %s is not seeded", name)
	}
	return value, nil
}
