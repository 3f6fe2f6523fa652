package types

import "github.com/shopspring/decimal"

// StringList is a JSON-serialized list column, used for line item
// modifications where order matters.
type StringList []string

// StringMap is a JSON-serialized map column, used for free-form
// customizations keyed by option name.
type StringMap map[string]string

// PaymentSplit is one leg of a split settlement.
type PaymentSplit struct {
	Method     string          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	CardLast4  string          `json:"cardLast4,omitempty"`
	AuthCode   string          `json:"authCode,omitempty"`
	GuestLabel string          `json:"guestLabel,omitempty"`
}

// PaymentSplits is the JSON column holding every leg of a split payment.
type PaymentSplits []PaymentSplit
