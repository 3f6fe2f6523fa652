package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds an inventory service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.InventoryItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item name is required")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item unit is required")
	}
	if input.CurrentStock.IsNegative() || input.MinStock.IsNegative() || input.MaxStock.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock levels must not be negative")
	}
	if input.MaxStock.IsPositive() && input.MinStock.GreaterThan(input.MaxStock) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock must not exceed max stock")
	}

	item := &models.InventoryItem{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(input.Name),
		Unit:           strings.TrimSpace(input.Unit),
		CurrentStock:   input.CurrentStock,
		MinStock:       input.MinStock,
		MaxStock:       input.MaxStock,
		CostPerUnit:    input.CostPerUnit,
		ExpiryDate:     input.ExpiryDate,
		Supplier:       input.Supplier,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating inventory item")
		}
		item = created
		return s.rebuildAlerts(ctx, repo, organizationID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, organizationID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.InventoryItem, error) {
	filters.Query = strings.ToLower(strings.TrimSpace(filters.Query))
	if filters.ExpiringWithinDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiring window must not be negative")
	}
	if filters.ExpiringWithinDays > 0 {
		cutoff := s.now().AddDate(0, 0, filters.ExpiringWithinDays)
		filters.ExpiringBefore = &cutoff
	}
	items, err := s.repo.List(ctx, organizationID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory items")
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, organizationID, itemID uuid.UUID, input UpdateInput) (*models.InventoryItem, error) {
	if _, err := s.Get(ctx, organizationID, itemID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory item name is required")
		}
		updates["name"] = name
	}
	if input.Unit != nil {
		updates["unit"] = strings.TrimSpace(*input.Unit)
	}
	if input.MinStock != nil {
		if input.MinStock.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock must not be negative")
		}
		updates["min_stock"] = *input.MinStock
	}
	if input.MaxStock != nil {
		if input.MaxStock.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max stock must not be negative")
		}
		updates["max_stock"] = *input.MaxStock
	}
	if input.CostPerUnit != nil {
		updates["cost_per_unit"] = *input.CostPerUnit
	}
	if input.ClearExpiry {
		updates["expiry_date"] = nil
	} else if input.ExpiryDate != nil {
		updates["expiry_date"] = *input.ExpiryDate
	}
	if input.Supplier != nil {
		updates["supplier"] = *input.Supplier
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(updates) > 0 {
			if err := repo.Update(ctx, organizationID, itemID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating inventory item")
			}
		}
		return s.rebuildAlerts(ctx, repo, organizationID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, organizationID, itemID)
}

func (s *service) Delete(ctx context.Context, organizationID, itemID uuid.UUID) error {
	if _, err := s.Get(ctx, organizationID, itemID); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Delete(ctx, organizationID, itemID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting inventory item")
		}
		return s.rebuildAlerts(ctx, repo, organizationID)
	})
}

// Adjust applies a manual stock movement. Sales flow through DeductForSale
// instead so they ride the settlement transaction.
func (s *service) Adjust(ctx context.Context, organizationID uuid.UUID, input AdjustInput) (*models.InventoryItem, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type")
	}
	if input.Type == enums.InventoryTransactionTypeSale {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale movements are recorded by order settlement")
	}
	if input.Quantity.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be zero")
	}

	item, err := s.Get(ctx, organizationID, input.InventoryItemID)
	if err != nil {
		return nil, err
	}

	delta := input.Quantity
	if input.Type.IsDeduction() && delta.IsPositive() {
		delta = delta.Neg()
	}

	newStock := item.CurrentStock.Add(delta)
	if newStock.IsNegative() {
		newStock = decimal.Zero
		delta = item.CurrentStock.Neg()
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SetStock(ctx, item.ID, newStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock")
		}
		txn := &models.InventoryTransaction{
			OrganizationID:  organizationID,
			InventoryItemID: item.ID,
			Type:            input.Type,
			Quantity:        delta,
			StockAfter:      newStock,
			Reason:          input.Reason,
			EmployeeID:      input.EmployeeID,
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording stock movement")
		}
		return s.rebuildAlerts(ctx, repo, organizationID)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, organizationID, input.InventoryItemID)
}

// DeductForSale draws down stock for a settled order inside the caller's
// transaction. Stock never goes below zero; the recorded movement reflects
// the clamped quantity.
func (s *service) DeductForSale(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID, deductions []SaleDeduction, reference string, employeeID *uuid.UUID) error {
	if len(deductions) == 0 {
		return nil
	}
	repo := s.repo.WithTx(tx)

	merged := map[uuid.UUID]decimal.Decimal{}
	order := make([]uuid.UUID, 0, len(deductions))
	for _, deduction := range deductions {
		if !deduction.Quantity.IsPositive() {
			continue
		}
		if _, seen := merged[deduction.InventoryItemID]; !seen {
			order = append(order, deduction.InventoryItemID)
		}
		merged[deduction.InventoryItemID] = merged[deduction.InventoryItemID].Add(deduction.Quantity)
	}

	for _, itemID := range order {
		item, err := repo.FindByID(ctx, organizationID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading inventory item")
		}

		requested := merged[itemID]
		applied := requested
		newStock := item.CurrentStock.Sub(requested)
		if newStock.IsNegative() {
			applied = item.CurrentStock
			newStock = decimal.Zero
		}

		if err := repo.SetStock(ctx, item.ID, newStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating stock")
		}
		ref := reference
		txn := &models.InventoryTransaction{
			OrganizationID:  organizationID,
			InventoryItemID: item.ID,
			Type:            enums.InventoryTransactionTypeSale,
			Quantity:        applied.Neg(),
			StockAfter:      newStock,
			Reference:       &ref,
			EmployeeID:      employeeID,
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording sale movement")
		}
	}

	return s.rebuildAlerts(ctx, repo, organizationID)
}

func (s *service) ListTransactions(ctx context.Context, organizationID uuid.UUID, itemID *uuid.UUID, limit int) ([]models.InventoryTransaction, error) {
	txns, err := s.repo.ListTransactions(ctx, organizationID, itemID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing stock movements")
	}
	return txns, nil
}

func (s *service) ListAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error) {
	alerts, err := s.repo.ListAlerts(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing alerts")
	}
	return alerts, nil
}

// Valuation prices the stock on hand at cost. Items without a cost per unit
// contribute zero but still count.
func (s *service) Valuation(ctx context.Context, organizationID uuid.UUID) (*Valuation, error) {
	items, err := s.repo.List(ctx, organizationID, ListFilters{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing inventory items")
	}

	valuation := &Valuation{
		TotalValue: decimal.Zero,
		ItemCount:  len(items),
		Items:      make([]ItemValuation, 0, len(items)),
	}
	for i := range items {
		item := &items[i]
		value := item.CurrentStock.Mul(item.CostPerUnit).Round(2)
		valuation.TotalValue = valuation.TotalValue.Add(value)
		valuation.Items = append(valuation.Items, ItemValuation{
			InventoryItemID: item.ID,
			Name:            item.Name,
			Unit:            item.Unit,
			CurrentStock:    item.CurrentStock,
			CostPerUnit:     item.CostPerUnit,
			Value:           value,
		})
	}
	return valuation, nil
}

func (s *service) RecomputeAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.rebuildAlerts(ctx, s.repo.WithTx(tx), organizationID)
	})
	if err != nil {
		return nil, err
	}
	return s.ListAlerts(ctx, organizationID)
}

// rebuildAlerts recomputes the whole alert set from current item state and
// swaps it in. Keeping this a full rebuild means no alert can go stale.
func (s *service) rebuildAlerts(ctx context.Context, repo Repository, organizationID uuid.UUID) error {
	items, err := repo.List(ctx, organizationID, ListFilters{})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading items for alert rebuild")
	}
	alerts := BuildAlerts(items, s.now())
	if err := repo.ReplaceAlerts(ctx, organizationID, alerts); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing alerts")
	}
	return nil
}
