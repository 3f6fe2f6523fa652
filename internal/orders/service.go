package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/internal/inventory"
	"github.com/barbackhq/pos-backend/internal/payments"
	"github.com/barbackhq/pos-backend/internal/sequence"
	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TaxResolver returns the tax rate for an order given its location.
type TaxResolver interface {
	RateFor(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) decimal.Decimal
}

type service struct {
	repo      Repository
	cart      CartReader
	menu      MenuReader
	inventory InventoryDeductor
	payRepo   payments.Repository
	settler   payments.Settler
	taxes     TaxResolver
	tx        txRunner
	routing   enums.TicketRouting
	receipts  config.PaymentsConfig
	now       func() time.Time
	nextSeq   func(ctx context.Context, tx *gorm.DB, name string) (int64, error)
}

// NewService builds the order lifecycle service.
func NewService(
	repo Repository,
	cartReader CartReader,
	menuReader MenuReader,
	deductor InventoryDeductor,
	payRepo payments.Repository,
	settler payments.Settler,
	taxes TaxResolver,
	tx txRunner,
	routing enums.TicketRouting,
	receiptCfg config.PaymentsConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if cartReader == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if menuReader == nil {
		return nil, fmt.Errorf("menu reader required")
	}
	if deductor == nil {
		return nil, fmt.Errorf("inventory deductor required")
	}
	if payRepo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if settler == nil {
		return nil, fmt.Errorf("payment settler required")
	}
	if taxes == nil {
		return nil, fmt.Errorf("tax resolver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if !routing.IsValid() {
		routing = enums.TicketRoutingAuto
	}
	return &service{
		repo:      repo,
		cart:      cartReader,
		menu:      menuReader,
		inventory: deductor,
		payRepo:   payRepo,
		settler:   settler,
		taxes:     taxes,
		tx:        tx,
		routing:   routing,
		receipts:  receiptCfg,
		now:       time.Now,
		nextSeq:   sequence.Next,
	}, nil
}

// Checkout converts the active session cart into an open order with frozen
// line snapshots, allocating the order number and raising the prep ticket in
// the same transaction.
func (s *service) Checkout(ctx context.Context, organizationID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if input.Type.RequiresTable() && input.TableID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dine-in orders need a table")
	}
	if input.EmployeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	priority := enums.OrderPriorityNormal
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order priority")
		}
		priority = *input.Priority
	}
	guestCount := input.GuestCount
	if guestCount <= 0 {
		guestCount = 1
	}

	cartRecord, err := s.cart.Get(ctx, organizationID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if len(cartRecord.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cannot checkout an empty cart")
	}

	menuByID, err := s.menuIndex(ctx, organizationID, cartRecord.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	lineItems, prepMinutes := buildLineItems(cartRecord.Items, menuByID)
	estimatedReady := now.Add(time.Duration(prepMinutes) * time.Minute)

	order := &models.Order{
		OrganizationID:   organizationID,
		LocationID:       input.LocationID,
		Type:             input.Type,
		Status:           enums.OrderStatusOpen,
		Priority:         priority,
		TableID:          input.TableID,
		EmployeeID:       input.EmployeeID,
		GuestCount:       guestCount,
		Note:             input.Note,
		TaxRate:          s.taxes.RateFor(ctx, organizationID, input.LocationID),
		EstimatedReadyAt: &estimatedReady,
	}

	err = s.persistNewOrder(ctx, order, lineItems, func(tx *gorm.DB) error {
		if err := s.cart.MarkCheckedOut(ctx, tx, cartRecord.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing out cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, organizationID, order.ID)
}

// Create opens an order directly from inline line items, bypassing the cart.
func (s *service) Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.Order, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if input.Type.RequiresTable() && input.TableID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dine-in orders need a table")
	}
	if input.EmployeeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "employee id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	priority := enums.OrderPriorityNormal
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order priority")
		}
		priority = *input.Priority
	}
	guestCount := input.GuestCount
	if guestCount <= 0 {
		guestCount = 1
	}

	lineItems, prepMinutes, err := s.resolveLines(ctx, organizationID, input.Items)
	if err != nil {
		return nil, err
	}

	now := s.now()
	estimatedReady := now.Add(time.Duration(prepMinutes) * time.Minute)
	order := &models.Order{
		OrganizationID:   organizationID,
		LocationID:       input.LocationID,
		Type:             input.Type,
		Status:           enums.OrderStatusOpen,
		Priority:         priority,
		TableID:          input.TableID,
		EmployeeID:       input.EmployeeID,
		GuestCount:       guestCount,
		Note:             input.Note,
		TaxRate:          s.taxes.RateFor(ctx, organizationID, input.LocationID),
		EstimatedReadyAt: &estimatedReady,
	}

	if err := s.persistNewOrder(ctx, order, lineItems, nil); err != nil {
		return nil, err
	}
	return s.Get(ctx, organizationID, order.ID)
}

// AddItems appends snapshot lines to an order that is still open.
func (s *service) AddItems(ctx context.Context, organizationID, orderID uuid.UUID, items []LineInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items to add")
	}

	order, err := s.Get(ctx, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusOpen {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "items can only be added to open orders")
	}

	lineItems, prepMinutes, err := s.resolveLines(ctx, organizationID, items)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for i := range lineItems {
			lineItems[i].OrderID = order.ID
		}
		if err := repo.CreateLineItems(ctx, lineItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding line items")
		}
		if order.EstimatedReadyAt != nil && prepMinutes > 0 {
			extended := order.EstimatedReadyAt.Add(time.Duration(prepMinutes) * time.Minute)
			if err := repo.UpdateOrder(ctx, order.ID, map[string]any{"estimated_ready_at": extended}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "extending ready estimate")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, organizationID, orderID)
}

// persistNewOrder allocates the order number, writes the order with its lines
// and prep ticket, and runs any extra step inside the same transaction.
func (s *service) persistNewOrder(ctx context.Context, order *models.Order, lineItems []models.OrderLineItem, extra func(tx *gorm.DB) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := s.nextSeq(ctx, tx, sequence.OrderNumber)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating order number")
		}
		order.OrderNumber = number

		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		*order = *created

		for i := range lineItems {
			lineItems[i].OrderID = order.ID
		}
		if err := repo.CreateLineItems(ctx, lineItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating line items")
		}

		if station, wanted := s.ticketStation(order.Type, lineItems); wanted {
			ticketNumber, err := s.nextSeq(ctx, tx, sequence.TicketNumber)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating ticket number")
			}
			ticket := &models.KitchenTicket{
				OrderID:      order.ID,
				TicketNumber: ticketNumber,
				Station:      station,
				Status:       enums.TicketStatusNew,
				Priority:     order.Priority,
			}
			if err := repo.CreateTicket(ctx, ticket); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating prep ticket")
			}
		}

		if extra != nil {
			return extra(tx)
		}
		return nil
	})
}

// resolveLines snapshots menu items into order lines. Unknown items are
// NotFound; items pulled from sale are Conflict.
func (s *service) resolveLines(ctx context.Context, organizationID uuid.UUID, items []LineInput) ([]models.OrderLineItem, int, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		ids = append(ids, items[i].MenuItemID)
	}
	menuItems, err := s.menu.FindByIDs(ctx, organizationID, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu items")
	}
	index := make(map[uuid.UUID]*models.MenuItem, len(menuItems))
	for i := range menuItems {
		index[menuItems[i].ID] = &menuItems[i]
	}

	lineItems := make([]models.OrderLineItem, 0, len(items))
	prepMinutes := 0
	for i := range items {
		item := &items[i]
		menuItem, ok := index[item.MenuItemID]
		if !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		if !menuItem.Available {
			return nil, 0, pkgerrors.New(pkgerrors.CodeConflict, "menu item is not available")
		}
		prepMinutes += menuItem.PrepTimeMinutes * item.Quantity
		lineItems = append(lineItems, models.OrderLineItem{
			MenuItemID:      menuItem.ID,
			Name:            menuItem.Name,
			Category:        menuItem.Category,
			UnitPrice:       menuItem.Price,
			Quantity:        item.Quantity,
			LineTotal:       menuItem.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			PrepTimeMinutes: menuItem.PrepTimeMinutes,
			Modifications:   types.StringList(item.Modifications),
			Customizations:  types.StringMap(item.Customizations),
			Note:            item.Note,
		})
	}
	return lineItems, prepMinutes, nil
}

func (s *service) Get(ctx context.Context, organizationID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, organizationID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.Order, error) {
	orders, err := s.repo.List(ctx, organizationID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return orders, nil
}

// UpdateStatus moves an order forward through its service states. Closing
// happens only through settlement and is rejected here.
func (s *service) UpdateStatus(ctx context.Context, organizationID, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if status == enums.OrderStatusClosed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "orders close through settlement")
	}
	if status == enums.OrderStatusCancelled {
		return s.Cancel(ctx, organizationID, orderID, nil)
	}

	order, err := s.Get(ctx, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanAdvanceTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status cannot move backwards").
			WithDetails(map[string]string{
				"from": order.Status.String(),
				"to":   status.String(),
			})
	}

	if err := s.repo.UpdateOrder(ctx, orderID, map[string]any{"status": status.String()}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	return s.Get(ctx, organizationID, orderID)
}

// Cancel voids an order from any non-terminal state. Inventory is untouched
// because stock is only drawn at settlement.
func (s *service) Cancel(ctx context.Context, organizationID, orderID uuid.UUID, reason *string) (*models.Order, error) {
	order, err := s.Get(ctx, organizationID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already finalized")
	}

	updates := map[string]any{
		"status":       enums.OrderStatusCancelled.String(),
		"cancelled_at": s.now(),
	}
	if reason != nil {
		updates["cancel_reason"] = *reason
	}
	if err := s.repo.UpdateOrder(ctx, orderID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}
	return s.Get(ctx, organizationID, orderID)
}

// Close settles and finalizes an order. Totals, payment capture, inventory
// deduction, receipt issuance and the status flip all commit together; any
// failure rolls the whole settlement back.
func (s *service) Close(ctx context.Context, organizationID, orderID uuid.UUID, input CloseInput) (*CloseResult, error) {
	if input.Tip.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tip must not be negative")
	}
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be between 0 and 1")
		}
	}

	var result CloseResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, organizationID, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already finalized")
		}
		if len(order.LineItems) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no line items")
		}

		subtotal := decimal.Zero
		for i := range order.LineItems {
			subtotal = subtotal.Add(order.LineItems[i].LineTotal)
		}
		taxRate := order.TaxRate
		if input.TaxRate != nil {
			taxRate = *input.TaxRate
		}
		tax := subtotal.Mul(taxRate).Round(2)
		total := subtotal.Add(tax).Add(input.Tip)

		settleReq := input.Payment
		settleReq.AmountDue = total
		outcome, err := s.settler.Settle(ctx, settleReq)
		if err != nil {
			return err
		}

		now := s.now()
		payment := &models.Payment{
			OrderID:      order.ID,
			Method:       settleReq.Method,
			Status:       enums.PaymentStatusCompleted,
			Amount:       total,
			TipAmount:    input.Tip,
			CashTendered: outcome.CashTendered,
			ChangeDue:    outcome.ChangeDue,
			CardLast4:    outcome.CardLast4,
			AuthCode:     outcome.AuthCode,
			Splits:       outcome.Splits,
			ProcessedAt:  &now,
		}
		payRepo := s.payRepo.WithTx(tx)
		payment, err = payRepo.CreatePayment(ctx, payment)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording payment")
		}

		deductions, err := s.recipeDeductions(ctx, organizationID, order.LineItems)
		if err != nil {
			return err
		}
		reference := fmt.Sprintf("order-%d", order.OrderNumber)
		employeeID := order.EmployeeID
		if err := s.inventory.DeductForSale(ctx, tx, organizationID, deductions, reference, &employeeID); err != nil {
			return err
		}

		receiptNumber, err := s.nextSeq(ctx, tx, sequence.ReceiptNumber)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating receipt number")
		}
		receipt := &models.Receipt{
			OrderID:         order.ID,
			PaymentID:       payment.ID,
			ReceiptNumber:   receiptNumber,
			BusinessName:    s.receipts.BusinessName,
			BusinessAddress: s.receipts.BusinessAddress,
			Subtotal:        subtotal,
			Tax:             tax,
			Tip:             input.Tip,
			Total:           total,
			IssuedAt:        now,
		}
		receipt, err = payRepo.CreateReceipt(ctx, receipt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issuing receipt")
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":    enums.OrderStatusClosed.String(),
			"tax_rate":  taxRate,
			"subtotal":  subtotal,
			"tax":       tax,
			"tip":       input.Tip,
			"total":     total,
			"closed_at": now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing order")
		}

		order.Status = enums.OrderStatusClosed
		order.TaxRate = taxRate
		order.Subtotal = subtotal
		order.Tax = tax
		order.Tip = input.Tip
		order.Total = total
		order.ClosedAt = &now

		result = CloseResult{Order: order, Payment: payment, Receipt: receipt}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) menuIndex(ctx context.Context, organizationID uuid.UUID, items []models.CartItem) (map[uuid.UUID]*models.MenuItem, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].MenuItemID)
	}
	menuItems, err := s.menu.FindByIDs(ctx, organizationID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu items")
	}
	index := make(map[uuid.UUID]*models.MenuItem, len(menuItems))
	for i := range menuItems {
		index[menuItems[i].ID] = &menuItems[i]
	}
	return index, nil
}

// buildLineItems freezes cart lines into order snapshots and sums prep time.
// Ready-time estimation is additive across lines; parallel kitchen capacity
// is intentionally not modeled.
func buildLineItems(cartItems []models.CartItem, menuByID map[uuid.UUID]*models.MenuItem) ([]models.OrderLineItem, int) {
	lineItems := make([]models.OrderLineItem, 0, len(cartItems))
	prepMinutes := 0
	for i := range cartItems {
		ci := &cartItems[i]
		category := enums.MenuCategoryEntree
		prep := 0
		if menuItem, ok := menuByID[ci.MenuItemID]; ok {
			category = menuItem.Category
			prep = menuItem.PrepTimeMinutes
		}
		prepMinutes += prep * ci.Quantity
		lineItems = append(lineItems, models.OrderLineItem{
			MenuItemID:      ci.MenuItemID,
			Name:            ci.Name,
			Category:        category,
			UnitPrice:       ci.UnitPrice,
			Quantity:        ci.Quantity,
			LineTotal:       ci.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity))),
			PrepTimeMinutes: prep,
			Modifications:   ci.Modifications,
			Customizations:  ci.Customizations,
			Note:            ci.Note,
		})
	}
	return lineItems, prepMinutes
}

// ticketStation decides whether checkout raises a prep ticket and where it
// goes. Takeout bypasses the display entirely.
func (s *service) ticketStation(orderType enums.OrderType, lineItems []models.OrderLineItem) (enums.TicketStation, bool) {
	if orderType == enums.OrderTypeTakeout {
		return "", false
	}
	switch s.routing {
	case enums.TicketRoutingSkip:
		return "", false
	case enums.TicketRoutingKitchen:
		return enums.TicketStationKitchen, true
	case enums.TicketRoutingBar:
		return enums.TicketStationBar, true
	}

	// Auto routing sends the ticket to the bar only when every line is a
	// bar-prepared category.
	allBar := len(lineItems) > 0
	for i := range lineItems {
		if lineItems[i].Category.Station() != enums.TicketStationBar {
			allBar = false
			break
		}
	}
	if allBar {
		return enums.TicketStationBar, true
	}
	return enums.TicketStationKitchen, true
}

func (s *service) recipeDeductions(ctx context.Context, organizationID uuid.UUID, lineItems []models.OrderLineItem) ([]inventory.SaleDeduction, error) {
	ids := make([]uuid.UUID, 0, len(lineItems))
	for i := range lineItems {
		ids = append(ids, lineItems[i].MenuItemID)
	}
	menuItems, err := s.menu.FindByIDs(ctx, organizationID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recipes")
	}
	recipeByMenuItem := make(map[uuid.UUID][]models.RecipeComponent, len(menuItems))
	for i := range menuItems {
		recipeByMenuItem[menuItems[i].ID] = menuItems[i].RecipeComponents
	}

	var deductions []inventory.SaleDeduction
	for i := range lineItems {
		li := &lineItems[i]
		qty := decimal.NewFromInt(int64(li.Quantity))
		for _, component := range recipeByMenuItem[li.MenuItemID] {
			deductions = append(deductions, inventory.SaleDeduction{
				InventoryItemID: component.InventoryItemID,
				Quantity:        component.QuantityPerUnit.Mul(qty),
			})
		}
	}
	return deductions, nil
}
