package payments

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testProcessor() *Processor {
	p := NewProcessor(config.PaymentsConfig{SimulateLatency: false})
	p.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func validCard() *CardDetails {
	return &CardDetails{
		Number:      "4242424242424242",
		CVV:         "123",
		HolderName:  "Ada Lovelace",
		ExpiryYear:  2028,
		ExpiryMonth: 6,
	}
}

func TestValidateCard(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*CardDetails)
		valid  bool
	}{
		{name: "valid", mutate: func(c *CardDetails) {}, valid: true},
		{name: "valid with spaces", mutate: func(c *CardDetails) { c.Number = "4242 4242 4242 4242" }, valid: true},
		{name: "valid 13 digits", mutate: func(c *CardDetails) { c.Number = "4222222222222" }, valid: true},
		{name: "valid 19 digits", mutate: func(c *CardDetails) { c.Number = "4242424242424242424" }, valid: true},
		{name: "too short", mutate: func(c *CardDetails) { c.Number = "424242424242" }},
		{name: "too long", mutate: func(c *CardDetails) { c.Number = "42424242424242424242" }},
		{name: "letters in number", mutate: func(c *CardDetails) { c.Number = "4242abcd42424242" }},
		{name: "cvv too short", mutate: func(c *CardDetails) { c.CVV = "12" }},
		{name: "cvv too long", mutate: func(c *CardDetails) { c.CVV = "12345" }},
		{name: "four digit cvv", mutate: func(c *CardDetails) { c.CVV = "1234" }, valid: true},
		{name: "blank holder", mutate: func(c *CardDetails) { c.HolderName = "   " }},
		{name: "month zero", mutate: func(c *CardDetails) { c.ExpiryMonth = 0 }},
		{name: "month thirteen", mutate: func(c *CardDetails) { c.ExpiryMonth = 13 }},
		{name: "expired year", mutate: func(c *CardDetails) { c.ExpiryYear = 2025 }},
		{name: "year too far out", mutate: func(c *CardDetails) { c.ExpiryYear = 2037 }},
		{name: "expired month this year", mutate: func(c *CardDetails) { c.ExpiryYear = 2026; c.ExpiryMonth = 7 }},
		{name: "current month this year", mutate: func(c *CardDetails) { c.ExpiryYear = 2026; c.ExpiryMonth = 8 }, valid: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := validCard()
			tc.mutate(card)
			err := ValidateCard(card, now)
			if tc.valid && err != nil {
				t.Fatalf("expected valid got %v", err)
			}
			if !tc.valid {
				typed := pkgerrors.As(err)
				if typed == nil || typed.Code() != pkgerrors.CodeInvalidCard {
					t.Fatalf("expected invalid card error got %v", err)
				}
			}
		})
	}
}

func TestSettleCash(t *testing.T) {
	p := testProcessor()

	tendered := dec("25.00")
	outcome, err := p.Settle(context.Background(), SettleRequest{
		Method:       enums.PaymentMethodCash,
		AmountDue:    dec("20.00"),
		CashTendered: &tendered,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome.ChangeDue == nil || !outcome.ChangeDue.Equal(dec("5.00")) {
		t.Fatalf("expected change 5.00 got %v", outcome.ChangeDue)
	}
}

func TestSettleCashInsufficientTender(t *testing.T) {
	p := testProcessor()

	tendered := dec("15.00")
	_, err := p.Settle(context.Background(), SettleRequest{
		Method:       enums.PaymentMethodCash,
		AmountDue:    dec("20.00"),
		CashTendered: &tendered,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientTender {
		t.Fatalf("expected insufficient tender got %v", err)
	}
}

func TestSettleCard(t *testing.T) {
	p := testProcessor()

	outcome, err := p.Settle(context.Background(), SettleRequest{
		Method:    enums.PaymentMethodCard,
		AmountDue: dec("31.31"),
		Card:      validCard(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if outcome.CardLast4 == nil || *outcome.CardLast4 != "4242" {
		t.Fatalf("expected last4 4242 got %v", outcome.CardLast4)
	}
	if outcome.AuthCode == nil || *outcome.AuthCode == "" {
		t.Fatal("expected auth code")
	}
}

func TestSettleSplit(t *testing.T) {
	p := testProcessor()

	tendered := dec("10.00")
	outcome, err := p.Settle(context.Background(), SettleRequest{
		Method:    enums.PaymentMethodSplit,
		AmountDue: dec("30.00"),
		Splits: []SplitRequest{
			{Method: enums.PaymentMethodCash, Amount: dec("10.00"), CashTendered: &tendered, GuestLabel: "guest 1"},
			{Method: enums.PaymentMethodCard, Amount: dec("20.00"), Card: validCard(), GuestLabel: "guest 2"},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(outcome.Splits) != 2 {
		t.Fatalf("expected 2 legs got %d", len(outcome.Splits))
	}
	if outcome.Splits[1].CardLast4 != "4242" {
		t.Fatal("expected card leg to record last4")
	}
}

func TestSettleSplitUnderpaymentRejected(t *testing.T) {
	p := testProcessor()

	tendered := dec("10.00")
	_, err := p.Settle(context.Background(), SettleRequest{
		Method:    enums.PaymentMethodSplit,
		AmountDue: dec("30.00"),
		Splits: []SplitRequest{
			{Method: enums.PaymentMethodCash, Amount: dec("10.00"), CashTendered: &tendered},
			{Method: enums.PaymentMethodCard, Amount: dec("15.00"), Card: validCard()},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSettleSplitOverpaymentAccepted(t *testing.T) {
	p := testProcessor()

	tendered := dec("20.00")
	outcome, err := p.Settle(context.Background(), SettleRequest{
		Method:    enums.PaymentMethodSplit,
		AmountDue: dec("31.31"),
		Splits: []SplitRequest{
			{Method: enums.PaymentMethodCash, Amount: dec("20.00"), CashTendered: &tendered, GuestLabel: "guest 1"},
			{Method: enums.PaymentMethodCard, Amount: dec("12.00"), Card: validCard(), GuestLabel: "guest 2"},
		},
	})
	if err != nil {
		t.Fatalf("expected covering split to settle got %v", err)
	}
	if len(outcome.Splits) != 2 {
		t.Fatalf("expected 2 legs got %d", len(outcome.Splits))
	}
}

func TestSettleSplitBadLegFailsWhole(t *testing.T) {
	p := testProcessor()

	badCard := validCard()
	badCard.CVV = "1"
	tendered := dec("10.00")
	_, err := p.Settle(context.Background(), SettleRequest{
		Method:    enums.PaymentMethodSplit,
		AmountDue: dec("30.00"),
		Splits: []SplitRequest{
			{Method: enums.PaymentMethodCash, Amount: dec("10.00"), CashTendered: &tendered},
			{Method: enums.PaymentMethodCard, Amount: dec("20.00"), Card: badCard},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInvalidCard {
		t.Fatalf("expected invalid card got %v", err)
	}
}

func TestSettleSplitSingleLegRejected(t *testing.T) {
	p := testProcessor()

	_, err := p.Settle(context.Background(), SettleRequest{
		Method:    enums.PaymentMethodSplit,
		AmountDue: dec("30.00"),
		Splits: []SplitRequest{
			{Method: enums.PaymentMethodCard, Amount: dec("30.00"), Card: validCard()},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}
