package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	"github.com/barbackhq/pos-backend/pkg/types"
)

// CardDetails carries the card fields collected at the terminal. Only the
// last four digits ever reach storage.
type CardDetails struct {
	Number      string
	CVV         string
	HolderName  string
	ExpiryYear  int
	ExpiryMonth int
}

// SplitRequest is one leg of a split settlement.
type SplitRequest struct {
	Method       enums.PaymentMethod
	Amount       decimal.Decimal
	Card         *CardDetails
	CashTendered *decimal.Decimal
	GuestLabel   string
}

// SettleRequest asks the processor to capture the full amount due.
type SettleRequest struct {
	Method       enums.PaymentMethod
	AmountDue    decimal.Decimal
	Card         *CardDetails
	CashTendered *decimal.Decimal
	Splits       []SplitRequest
}

// SettleOutcome reports a successful capture.
type SettleOutcome struct {
	CashTendered *decimal.Decimal
	ChangeDue    *decimal.Decimal
	CardLast4    *string
	AuthCode     *string
	Splits       types.PaymentSplits
}

// RefundInput captures a refund request against a settled payment.
type RefundInput struct {
	Reason *string
}

// PaymentDTO exposes a settlement record in API responses.
type PaymentDTO struct {
	ID           uuid.UUID           `json:"id"`
	OrderID      uuid.UUID           `json:"order_id"`
	Method       enums.PaymentMethod `json:"method"`
	Status       enums.PaymentStatus `json:"status"`
	Amount       decimal.Decimal     `json:"amount"`
	TipAmount    decimal.Decimal     `json:"tip_amount"`
	CashTendered *decimal.Decimal    `json:"cash_tendered,omitempty"`
	ChangeDue    *decimal.Decimal    `json:"change_due,omitempty"`
	CardLast4    *string             `json:"card_last4,omitempty"`
	AuthCode     *string             `json:"auth_code,omitempty"`
	Splits       types.PaymentSplits `json:"splits,omitempty"`
	ProcessedAt  *time.Time          `json:"processed_at,omitempty"`
	RefundedAt   *time.Time          `json:"refunded_at,omitempty"`
	RefundReason *string             `json:"refund_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ReceiptDTO exposes the settlement receipt in API responses.
type ReceiptDTO struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	PaymentID       uuid.UUID       `json:"payment_id"`
	ReceiptNumber   int64           `json:"receipt_number"`
	BusinessName    string          `json:"business_name"`
	BusinessAddress string          `json:"business_address"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Tip             decimal.Decimal `json:"tip"`
	Total           decimal.Decimal `json:"total"`
	IssuedAt        time.Time       `json:"issued_at"`
}

// FromModel maps the persisted payment into a DTO.
func FromModel(m *models.Payment) *PaymentDTO {
	if m == nil {
		return nil
	}
	return &PaymentDTO{
		ID:           m.ID,
		OrderID:      m.OrderID,
		Method:       m.Method,
		Status:       m.Status,
		Amount:       m.Amount,
		TipAmount:    m.TipAmount,
		CashTendered: m.CashTendered,
		ChangeDue:    m.ChangeDue,
		CardLast4:    m.CardLast4,
		AuthCode:     m.AuthCode,
		Splits:       m.Splits,
		ProcessedAt:  m.ProcessedAt,
		RefundedAt:   m.RefundedAt,
		RefundReason: m.RefundReason,
		CreatedAt:    m.CreatedAt,
	}
}

// FromModels maps a list of payments into DTOs.
func FromModels(payments []models.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, 0, len(payments))
	for i := range payments {
		dtos = append(dtos, *FromModel(&payments[i]))
	}
	return dtos
}

// ReceiptFromModel maps the persisted receipt into a DTO.
func ReceiptFromModel(m *models.Receipt) *ReceiptDTO {
	if m == nil {
		return nil
	}
	return &ReceiptDTO{
		ID:              m.ID,
		OrderID:         m.OrderID,
		PaymentID:       m.PaymentID,
		ReceiptNumber:   m.ReceiptNumber,
		BusinessName:    m.BusinessName,
		BusinessAddress: m.BusinessAddress,
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		Tip:             m.Tip,
		Total:           m.Total,
		IssuedAt:        m.IssuedAt,
	}
}
