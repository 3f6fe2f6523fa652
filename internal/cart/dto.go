package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// AddItemInput carries one line to add to the session cart.
type AddItemInput struct {
	MenuItemID     uuid.UUID
	Quantity       int
	Modifications  []string
	Customizations map[string]string
	Note           *string
	EmployeeID     *uuid.UUID
}

// CartDTO exposes the session cart with running totals.
type CartDTO struct {
	ID        uuid.UUID        `json:"id"`
	SessionID string           `json:"session_id"`
	Status    enums.CartStatus `json:"status"`
	Items     []CartItemDTO    `json:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Tax       decimal.Decimal  `json:"tax"`
	Total     decimal.Decimal  `json:"total"`
}

// CartItemDTO exposes one cart line in API responses.
type CartItemDTO struct {
	ID             uuid.UUID         `json:"id"`
	MenuItemID     uuid.UUID         `json:"menu_item_id"`
	Name           string            `json:"name"`
	UnitPrice      decimal.Decimal   `json:"unit_price"`
	Quantity       int               `json:"quantity"`
	LineSubtotal   decimal.Decimal   `json:"line_subtotal"`
	Modifications  []string          `json:"modifications,omitempty"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Note           *string           `json:"note,omitempty"`
}

// FromModel maps the persisted cart into a DTO, computing totals at the
// provided tax rate.
func FromModel(m *models.CartRecord, taxRate decimal.Decimal) *CartDTO {
	if m == nil {
		return nil
	}
	dto := &CartDTO{
		ID:        m.ID,
		SessionID: m.SessionID,
		Status:    m.Status,
		Items:     make([]CartItemDTO, 0, len(m.Items)),
	}
	subtotal := decimal.Zero
	for i := range m.Items {
		item := &m.Items[i]
		lineSubtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineSubtotal)
		dto.Items = append(dto.Items, CartItemDTO{
			ID:             item.ID,
			MenuItemID:     item.MenuItemID,
			Name:           item.Name,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			LineSubtotal:   lineSubtotal,
			Modifications:  item.Modifications,
			Customizations: item.Customizations,
			Note:           item.Note,
		})
	}
	dto.Subtotal = subtotal
	dto.Tax = subtotal.Mul(taxRate).Round(2)
	dto.Total = dto.Subtotal.Add(dto.Tax)
	return dto
}
