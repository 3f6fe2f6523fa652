package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

// Repository defines persistence operations for payment and receipt tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindPaymentForOrg(ctx context.Context, organizationID, paymentID uuid.UUID) (*models.Payment, error)
	FindPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error
	CreateReceipt(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error)
	FindReceiptByOrder(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error)
}

// Settler captures an amount due; implemented by the simulated Processor.
type Settler interface {
	Settle(ctx context.Context, req SettleRequest) (*SettleOutcome, error)
}

// Service exposes payment reads and the refund operation.
type Service interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
	GetReceiptByOrder(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error)
	Refund(ctx context.Context, organizationID, paymentID uuid.UUID, input RefundInput) (*models.Payment, error)
}
