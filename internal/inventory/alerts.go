package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// expiringWindowDays is how far ahead of expiry the expiring alert fires.
const expiringWindowDays = 3

// BuildAlerts derives the full alert set for the given items. The result
// replaces whatever was previously stored; alerts are never updated in place.
func BuildAlerts(items []models.InventoryItem, now time.Time) []models.InventoryAlert {
	var alerts []models.InventoryAlert
	for i := range items {
		alerts = append(alerts, alertsForItem(&items[i], now)...)
	}
	return alerts
}

func alertsForItem(item *models.InventoryItem, now time.Time) []models.InventoryAlert {
	var alerts []models.InventoryAlert

	if item.CurrentStock.LessThanOrEqual(item.MinStock) {
		severity := enums.AlertSeverityMedium
		if item.CurrentStock.IsZero() || item.CurrentStock.IsNegative() {
			severity = enums.AlertSeverityHigh
		}
		alerts = append(alerts, models.InventoryAlert{
			OrganizationID:  item.OrganizationID,
			InventoryItemID: item.ID,
			Type:            enums.AlertTypeLowStock,
			Severity:        severity,
			Message:         fmt.Sprintf("%s is low on stock (%s %s remaining)", item.Name, item.CurrentStock.String(), item.Unit),
		})
	}

	if item.ExpiryDate != nil {
		days := daysUntil(*item.ExpiryDate, now)
		switch {
		case days <= 0:
			alerts = append(alerts, models.InventoryAlert{
				OrganizationID:  item.OrganizationID,
				InventoryItemID: item.ID,
				Type:            enums.AlertTypeExpired,
				Severity:        enums.AlertSeverityHigh,
				Message:         fmt.Sprintf("%s has expired", item.Name),
			})
		case days <= expiringWindowDays:
			severity := enums.AlertSeverityMedium
			if days == 1 {
				severity = enums.AlertSeverityHigh
			}
			alerts = append(alerts, models.InventoryAlert{
				OrganizationID:  item.OrganizationID,
				InventoryItemID: item.ID,
				Type:            enums.AlertTypeExpiring,
				Severity:        severity,
				Message:         fmt.Sprintf("%s expires in %d day(s)", item.Name, days),
			})
		}
	}

	if item.MaxStock.IsPositive() && item.CurrentStock.GreaterThan(item.MaxStock) {
		alerts = append(alerts, models.InventoryAlert{
			OrganizationID:  item.OrganizationID,
			InventoryItemID: item.ID,
			Type:            enums.AlertTypeOverstock,
			Severity:        enums.AlertSeverityLow,
			Message:         fmt.Sprintf("%s is overstocked (%s %s on hand, max %s)", item.Name, item.CurrentStock.String(), item.Unit, item.MaxStock.String()),
		})
	}

	return alerts
}

// daysUntil rounds partial days up so an item expiring tomorrow morning still
// counts as one day out.
func daysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
