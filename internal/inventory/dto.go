package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// InventoryItemDTO exposes stock data in API responses.
type InventoryItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	Supplier     *string         `json:"supplier,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TransactionDTO exposes one stock movement in API responses.
type TransactionDTO struct {
	ID              uuid.UUID                      `json:"id"`
	InventoryItemID uuid.UUID                      `json:"inventory_item_id"`
	Type            enums.InventoryTransactionType `json:"type"`
	Quantity        decimal.Decimal                `json:"quantity"`
	StockAfter      decimal.Decimal                `json:"stock_after"`
	Reason          *string                        `json:"reason,omitempty"`
	Reference       *string                        `json:"reference,omitempty"`
	EmployeeID      *uuid.UUID                     `json:"employee_id,omitempty"`
	CreatedAt       time.Time                      `json:"created_at"`
}

// AlertDTO exposes one stock alert in API responses.
type AlertDTO struct {
	ID              uuid.UUID           `json:"id"`
	InventoryItemID uuid.UUID           `json:"inventory_item_id"`
	Type            enums.AlertType     `json:"type"`
	Severity        enums.AlertSeverity `json:"severity"`
	Message         string              `json:"message"`
	CreatedAt       time.Time           `json:"created_at"`
}

// FromModel maps the persisted inventory item into a DTO.
func FromModel(m *models.InventoryItem) *InventoryItemDTO {
	if m == nil {
		return nil
	}
	return &InventoryItemDTO{
		ID:           m.ID,
		Name:         m.Name,
		Unit:         m.Unit,
		CurrentStock: m.CurrentStock,
		MinStock:     m.MinStock,
		MaxStock:     m.MaxStock,
		CostPerUnit:  m.CostPerUnit,
		ExpiryDate:   m.ExpiryDate,
		Supplier:     m.Supplier,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromModels maps a list of inventory items into DTOs.
func FromModels(items []models.InventoryItem) []InventoryItemDTO {
	dtos := make([]InventoryItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}

// TransactionsFromModels maps stock movements into DTOs.
func TransactionsFromModels(txns []models.InventoryTransaction) []TransactionDTO {
	dtos := make([]TransactionDTO, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		dtos = append(dtos, TransactionDTO{
			ID:              t.ID,
			InventoryItemID: t.InventoryItemID,
			Type:            t.Type,
			Quantity:        t.Quantity,
			StockAfter:      t.StockAfter,
			Reason:          t.Reason,
			Reference:       t.Reference,
			EmployeeID:      t.EmployeeID,
			CreatedAt:       t.CreatedAt,
		})
	}
	return dtos
}

// AlertsFromModels maps alerts into DTOs.
func AlertsFromModels(alerts []models.InventoryAlert) []AlertDTO {
	dtos := make([]AlertDTO, 0, len(alerts))
	for i := range alerts {
		a := &alerts[i]
		dtos = append(dtos, AlertDTO{
			ID:              a.ID,
			InventoryItemID: a.InventoryItemID,
			Type:            a.Type,
			Severity:        a.Severity,
			Message:         a.Message,
			CreatedAt:       a.CreatedAt,
		})
	}
	return dtos
}

// ItemValuation is one item's stock priced at cost.
type ItemValuation struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	Value           decimal.Decimal `json:"value"`
}

// Valuation totals the stock on hand at cost across the organization.
type Valuation struct {
	TotalValue decimal.Decimal `json:"total_value"`
	ItemCount  int             `json:"item_count"`
	Items      []ItemValuation `json:"items"`
}

// CreateInput carries everything needed to create an inventory item.
type CreateInput struct {
	Name         string
	Unit         string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	MaxStock     decimal.Decimal
	CostPerUnit  decimal.Decimal
	ExpiryDate   *time.Time
	Supplier     *string
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Unit        *string
	MinStock    *decimal.Decimal
	MaxStock    *decimal.Decimal
	CostPerUnit *decimal.Decimal
	ExpiryDate  *time.Time
	ClearExpiry bool
	Supplier    *string
}
