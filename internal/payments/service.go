package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	processor *Processor
	tx        txRunner
	now       func() time.Time
}

// NewService builds a payments service with the required dependencies.
func NewService(repo Repository, processor *Processor, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if processor == nil {
		return nil, fmt.Errorf("payment processor required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, processor: processor, tx: tx, now: time.Now}, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	payments, err := s.repo.FindPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}
	return payments, nil
}

func (s *service) GetReceiptByOrder(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error) {
	receipt, err := s.repo.FindReceiptByOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading receipt")
	}
	return receipt, nil
}

// Refund reverses a completed payment. The order keeps its closed state; the
// refund is visible on the payment record and in reporting.
func (s *service) Refund(ctx context.Context, organizationID, paymentID uuid.UUID, input RefundInput) (*models.Payment, error) {
	payment, err := s.repo.FindPaymentForOrg(ctx, organizationID, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
	}

	switch payment.Status {
	case enums.PaymentStatusCompleted:
	case enums.PaymentStatusRefunded:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment is already refunded")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only completed payments can be refunded")
	}

	if err := s.processor.SimulateRefund(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refund interrupted")
	}

	refundedAt := s.now()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).UpdatePayment(ctx, payment.ID, map[string]any{
			"status":        enums.PaymentStatusRefunded.String(),
			"refunded_at":   refundedAt,
			"refund_reason": input.Reason,
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording refund")
	}

	payment.Status = enums.PaymentStatusRefunded
	payment.RefundedAt = &refundedAt
	payment.RefundReason = input.Reason
	return payment, nil
}
