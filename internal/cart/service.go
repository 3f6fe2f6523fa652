package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/internal/menu"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MenuReader resolves menu items when lines are added to a cart.
type MenuReader interface {
	Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error)
}

type service struct {
	repo Repository
	menu MenuReader
	tx   txRunner
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, menuReader MenuReader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if menuReader == nil {
		return nil, fmt.Errorf("menu reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, menu: menuReader, tx: tx}, nil
}

// Get returns the active cart for the session, creating an empty one when
// none exists yet.
func (s *service) Get(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	cart, err := s.repo.FindActiveBySession(ctx, organizationID, sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	created, err := s.repo.CreateCart(ctx, &models.CartRecord{
		OrganizationID: organizationID,
		SessionID:      sessionID,
		Status:         enums.CartStatusActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}

func (s *service) AddItem(ctx context.Context, organizationID uuid.UUID, sessionID string, input AddItemInput) (*models.CartRecord, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	menuItem, err := s.menu.Get(ctx, organizationID, input.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !menuItem.Available {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "menu item is not available")
	}

	cart, err := s.Get(ctx, organizationID, sessionID)
	if err != nil {
		return nil, err
	}

	key := keyFor(input.MenuItemID, input.Modifications, input.Customizations, input.Note)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Identical lines merge by bumping quantity instead of duplicating.
		if target := findMergeTarget(cart.Items, key); target != nil {
			return repo.UpdateItem(ctx, target.ID, map[string]any{
				"quantity": target.Quantity + input.Quantity,
			})
		}

		item := &models.CartItem{
			CartID:         cart.ID,
			MenuItemID:     menuItem.ID,
			Name:           menuItem.Name,
			UnitPrice:      menuItem.Price,
			Quantity:       input.Quantity,
			Modifications:  input.Modifications,
			Customizations: input.Customizations,
			Note:           input.Note,
		}
		return repo.CreateItem(ctx, item)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	if input.EmployeeID != nil {
		if err := s.repo.UpdateCart(ctx, cart.ID, map[string]any{"employee_id": *input.EmployeeID}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording cart employee")
		}
	}

	return s.Get(ctx, organizationID, sessionID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, organizationID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	cart, err := s.Get(ctx, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if !cartHasItem(cart, itemID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, organizationID, sessionID, itemID)
	}

	if err := s.repo.UpdateItem(ctx, itemID, map[string]any{"quantity": quantity}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item")
	}
	return s.Get(ctx, organizationID, sessionID)
}

// UpdateItemNote rewrites a line's kitchen note. A nil note clears it. The
// note is not part of the merge key once the line exists, so edits never
// split or merge lines.
func (s *service) UpdateItemNote(ctx context.Context, organizationID uuid.UUID, sessionID string, itemID uuid.UUID, note *string) (*models.CartRecord, error) {
	cart, err := s.Get(ctx, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if !cartHasItem(cart, itemID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.repo.UpdateItem(ctx, itemID, map[string]any{"note": note}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart item note")
	}
	return s.Get(ctx, organizationID, sessionID)
}

func (s *service) RemoveItem(ctx context.Context, organizationID uuid.UUID, sessionID string, itemID uuid.UUID) (*models.CartRecord, error) {
	cart, err := s.Get(ctx, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if !cartHasItem(cart, itemID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return s.Get(ctx, organizationID, sessionID)
}

func (s *service) Clear(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	cart, err := s.Get(ctx, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return s.Get(ctx, organizationID, sessionID)
}

// MarkCheckedOut flips the cart out of the active state inside the checkout
// transaction so the session gets a fresh cart afterwards.
func (s *service) MarkCheckedOut(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	return s.repo.WithTx(tx).UpdateCart(ctx, cartID, map[string]any{
		"status": enums.CartStatusCheckedOut.String(),
	})
}

func cartHasItem(cart *models.CartRecord, itemID uuid.UUID) bool {
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			return true
		}
	}
	return false
}

var _ MenuReader = (menu.Service)(nil)
