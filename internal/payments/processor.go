package payments

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/types"
)

const cardExpiryHorizonYears = 10

// Processor simulates the payment terminal. Card-present methods sleep for a
// configurable latency to mimic real authorization round-trips; cash settles
// synchronously.
type Processor struct {
	cfg   config.PaymentsConfig
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewProcessor builds a processor from the payments configuration.
func NewProcessor(cfg config.PaymentsConfig) *Processor {
	return &Processor{
		cfg:   cfg,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Settle captures the amount due using the requested method. Split requests
// are all-or-nothing: every leg is validated before any is captured.
func (p *Processor) Settle(ctx context.Context, req SettleRequest) (*SettleOutcome, error) {
	if !req.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if !req.AmountDue.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount due must be positive")
	}

	switch req.Method {
	case enums.PaymentMethodCash:
		return p.settleCash(req.AmountDue, req.CashTendered)
	case enums.PaymentMethodCard:
		return p.settleCard(ctx, req.Card, p.cfg.CardLatency)
	case enums.PaymentMethodContactless:
		return p.settleCardless(ctx, p.cfg.ContactlessLatency)
	case enums.PaymentMethodMobile:
		return p.settleCardless(ctx, p.cfg.MobileLatency)
	case enums.PaymentMethodSplit:
		return p.settleSplit(ctx, req.AmountDue, req.Splits)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
}

// SimulateRefund applies the refund latency. The caller flips the payment
// record afterwards.
func (p *Processor) SimulateRefund(ctx context.Context) error {
	if !p.cfg.SimulateLatency {
		return nil
	}
	return p.sleep(ctx, p.cfg.RefundLatency)
}

func (p *Processor) settleCash(due decimal.Decimal, tendered *decimal.Decimal) (*SettleOutcome, error) {
	if tendered == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash tendered is required")
	}
	if tendered.LessThan(due) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientTender, "tendered amount does not cover the total").
			WithDetails(map[string]string{
				"due":      due.StringFixed(2),
				"tendered": tendered.StringFixed(2),
			})
	}
	change := tendered.Sub(due)
	return &SettleOutcome{CashTendered: tendered, ChangeDue: &change}, nil
}

func (p *Processor) settleCard(ctx context.Context, card *CardDetails, latency time.Duration) (*SettleOutcome, error) {
	if err := ValidateCard(card, p.now()); err != nil {
		return nil, err
	}
	if p.cfg.SimulateLatency {
		if err := p.sleep(ctx, latency); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "card authorization interrupted")
		}
	}
	last4 := cardLast4(card.Number)
	auth := newAuthCode()
	return &SettleOutcome{CardLast4: &last4, AuthCode: &auth}, nil
}

func (p *Processor) settleCardless(ctx context.Context, latency time.Duration) (*SettleOutcome, error) {
	if p.cfg.SimulateLatency {
		if err := p.sleep(ctx, latency); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "authorization interrupted")
		}
	}
	auth := newAuthCode()
	return &SettleOutcome{AuthCode: &auth}, nil
}

func (p *Processor) settleSplit(ctx context.Context, due decimal.Decimal, legs []SplitRequest) (*SettleOutcome, error) {
	if len(legs) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "split payment needs at least two legs")
	}

	sum := decimal.Zero
	for i := range legs {
		leg := &legs[i]
		if leg.Method == enums.PaymentMethodSplit {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "split legs cannot nest")
		}
		if !leg.Method.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method in split leg")
		}
		if !leg.Amount.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "split leg amount must be positive")
		}
		sum = sum.Add(leg.Amount)
	}
	// Legs may over-shoot the total (the excess comes back as change on a
	// cash leg); they just cannot fall short of it.
	if sum.LessThan(due) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "split legs do not cover the amount due").
			WithDetails(map[string]string{
				"due": due.StringFixed(2),
				"sum": sum.StringFixed(2),
			})
	}

	// Validate every leg before capturing any so a bad leg fails the whole
	// settlement.
	now := p.now()
	for i := range legs {
		leg := &legs[i]
		switch leg.Method {
		case enums.PaymentMethodCard:
			if err := ValidateCard(leg.Card, now); err != nil {
				return nil, err
			}
		case enums.PaymentMethodCash:
			if leg.CashTendered == nil || leg.CashTendered.LessThan(leg.Amount) {
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientTender, "cash leg does not cover its share")
			}
		}
	}

	outcome := &SettleOutcome{}
	for i := range legs {
		leg := &legs[i]
		if p.cfg.SimulateLatency && leg.Method != enums.PaymentMethodCash {
			if err := p.sleep(ctx, p.cfg.SplitLegLatency); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "split authorization interrupted")
			}
		}
		split := types.PaymentSplit{
			Method:     leg.Method.String(),
			Amount:     leg.Amount,
			GuestLabel: leg.GuestLabel,
		}
		switch leg.Method {
		case enums.PaymentMethodCard:
			split.CardLast4 = cardLast4(leg.Card.Number)
			split.AuthCode = newAuthCode()
		case enums.PaymentMethodContactless, enums.PaymentMethodMobile:
			split.AuthCode = newAuthCode()
		}
		outcome.Splits = append(outcome.Splits, split)
	}
	return outcome, nil
}

// ValidateCard checks terminal-collected card fields. The number is length
// checked only; this processor never talks to a real network.
func ValidateCard(card *CardDetails, now time.Time) error {
	if card == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "card details are required")
	}

	number := strings.ReplaceAll(strings.ReplaceAll(card.Number, " ", ""), "-", "")
	if len(number) < 13 || len(number) > 19 || !allDigits(number) {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "card number must be 13 to 19 digits")
	}
	if len(card.CVV) < 3 || len(card.CVV) > 4 || !allDigits(card.CVV) {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "security code must be 3 or 4 digits")
	}
	if strings.TrimSpace(card.HolderName) == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "cardholder name is required")
	}
	if card.ExpiryMonth < 1 || card.ExpiryMonth > 12 {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "expiry month must be between 1 and 12")
	}
	year := now.Year()
	if card.ExpiryYear < year || card.ExpiryYear > year+cardExpiryHorizonYears {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "expiry year is out of range")
	}
	if card.ExpiryYear == year && card.ExpiryMonth < int(now.Month()) {
		return pkgerrors.New(pkgerrors.CodeInvalidCard, "card has expired")
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func cardLast4(number string) string {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
	if len(cleaned) < 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}

func newAuthCode() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("AUTH%d", time.Now().UnixNano()%1_000_000)
	}
	return "AUTH" + strings.ToUpper(hex.EncodeToString(buf))
}
