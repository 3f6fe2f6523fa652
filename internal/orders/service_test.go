package orders

import (
	"context"
	"testing"
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
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

type stubOrdersRepo struct {
	orders  map[uuid.UUID]*models.Order
	tickets []*models.KitchenTicket
	updates map[uuid.UUID]map[string]any
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders:  map[uuid.UUID]*models.Order{},
		updates: map[uuid.UUID]map[string]any{},
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	order, ok := s.orders[items[0].OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.LineItems = append(order.LineItems, items...)
	return nil
}

func (s *stubOrdersRepo) CreateTicket(ctx context.Context, ticket *models.KitchenTicket) error {
	s.tickets = append(s.tickets, ticket)
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, organizationID, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok || order.OrganizationID != organizationID {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.Order, error) {
	var found []models.Order
	for _, order := range s.orders {
		if order.OrganizationID == organizationID {
			found = append(found, *order)
		}
	}
	return found, nil
}

func (s *stubOrdersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates[orderID] = updates
	if v, ok := updates["status"].(string); ok {
		order.Status = enums.OrderStatus(v)
	}
	if v, ok := updates["cancel_reason"].(string); ok {
		order.CancelReason = &v
	}
	return nil
}

type stubCartReader struct {
	cart       *models.CartRecord
	checkedOut bool
}

func (s *stubCartReader) Get(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	return s.cart, nil
}

func (s *stubCartReader) MarkCheckedOut(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	s.checkedOut = true
	return nil
}

type stubMenuReader struct {
	items []models.MenuItem
}

func (s *stubMenuReader) FindByIDs(ctx context.Context, organizationID uuid.UUID, itemIDs []uuid.UUID) ([]models.MenuItem, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var found []models.MenuItem
	for i := range s.items {
		if wanted[s.items[i].ID] {
			found = append(found, s.items[i])
		}
	}
	return found, nil
}

type stubDeductor struct {
	deductions []inventory.SaleDeduction
	reference  string
	calls      int
}

func (s *stubDeductor) DeductForSale(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID, deductions []inventory.SaleDeduction, reference string, employeeID *uuid.UUID) error {
	s.deductions = deductions
	s.reference = reference
	s.calls++
	return nil
}

type stubPayRepo struct {
	payments []*models.Payment
	receipts []*models.Receipt
}

func (s *stubPayRepo) WithTx(tx *gorm.DB) payments.Repository { return s }

func (s *stubPayRepo) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	s.payments = append(s.payments, payment)
	return payment, nil
}

func (s *stubPayRepo) FindPaymentForOrg(ctx context.Context, organizationID, paymentID uuid.UUID) (*models.Payment, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPayRepo) FindPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	return nil, nil
}

func (s *stubPayRepo) UpdatePayment(ctx context.Context, paymentID uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubPayRepo) CreateReceipt(ctx context.Context, receipt *models.Receipt) (*models.Receipt, error) {
	s.receipts = append(s.receipts, receipt)
	return receipt, nil
}

func (s *stubPayRepo) FindReceiptByOrder(ctx context.Context, orderID uuid.UUID) (*models.Receipt, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fixedTaxResolver struct {
	rate decimal.Decimal
}

func (f fixedTaxResolver) RateFor(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) decimal.Decimal {
	return f.rate
}

type fixture struct {
	svc      *service
	repo     *stubOrdersRepo
	cart     *stubCartReader
	menu     *stubMenuReader
	deductor *stubDeductor
	payRepo  *stubPayRepo
	orgID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newStubOrdersRepo()
	cartReader := &stubCartReader{cart: &models.CartRecord{ID: uuid.New(), Status: enums.CartStatusActive}}
	menuReader := &stubMenuReader{}
	deductor := &stubDeductor{}
	payRepo := &stubPayRepo{}

	svc, err := NewService(
		repo,
		cartReader,
		menuReader,
		deductor,
		payRepo,
		payments.NewProcessor(config.PaymentsConfig{SimulateLatency: false}),
		fixedTaxResolver{rate: dec("0.08875")},
		stubTxRunner{},
		enums.TicketRoutingAuto,
		config.PaymentsConfig{BusinessName: "Barback Pro", BusinessAddress: "123 Bar St"},
	)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	impl := svc.(*service)
	counters := map[string]int64{
		sequence.OrderNumber:   1000,
		sequence.TicketNumber:  5000,
		sequence.ReceiptNumber: 10000,
	}
	impl.nextSeq = func(ctx context.Context, tx *gorm.DB, name string) (int64, error) {
		counters[name]++
		return counters[name], nil
	}
	impl.now = func() time.Time {
		return time.Date(2026, time.August, 28, 19, 0, 0, 0, time.UTC)
	}

	return &fixture{
		svc:      impl,
		repo:     repo,
		cart:     cartReader,
		menu:     menuReader,
		deductor: deductor,
		payRepo:  payRepo,
		orgID:    uuid.New(),
	}
}

func (f *fixture) addMenuItem(name string, category enums.MenuCategory, price string, prepMinutes int, components ...models.RecipeComponent) models.MenuItem {
	item := models.MenuItem{
		ID:               uuid.New(),
		OrganizationID:   f.orgID,
		Name:             name,
		Category:         category,
		Price:            dec(price),
		PrepTimeMinutes:  prepMinutes,
		Available:        true,
		RecipeComponents: components,
	}
	f.menu.items = append(f.menu.items, item)
	return item
}

func (f *fixture) addCartLine(item models.MenuItem, quantity int) {
	f.cart.cart.Items = append(f.cart.cart.Items, models.CartItem{
		ID:         uuid.New(),
		CartID:     f.cart.cart.ID,
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   quantity,
	})
}

func TestCheckoutSnapshotsCartAndRaisesTicket(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem("Smash Burger", enums.MenuCategoryEntree, "14.00", 12)
	fries := f.addMenuItem("Truffle Fries", enums.MenuCategoryAppetizer, "6.00", 8)
	f.addCartLine(burger, 1)
	f.addCartLine(fries, 2)

	tableID := uuid.New()
	order, err := f.svc.Checkout(context.Background(), f.orgID, CheckoutInput{
		SessionID:  "term-1",
		Type:       enums.OrderTypeDineIn,
		TableID:    &tableID,
		GuestCount: 2,
		EmployeeID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}

	if order.OrderNumber != 1001 {
		t.Fatalf("expected order number 1001 got %d", order.OrderNumber)
	}
	if order.Status != enums.OrderStatusOpen {
		t.Fatalf("expected open got %s", order.Status)
	}
	if len(order.LineItems) != 2 {
		t.Fatalf("expected 2 line items got %d", len(order.LineItems))
	}
	if !order.LineItems[1].LineTotal.Equal(dec("12.00")) {
		t.Fatalf("expected line total 12.00 got %s", order.LineItems[1].LineTotal)
	}
	if !order.TaxRate.Equal(dec("0.08875")) {
		t.Fatalf("expected default tax rate got %s", order.TaxRate)
	}

	// 12 + 2*8 minutes of prep from a frozen clock.
	wantReady := time.Date(2026, time.August, 28, 19, 28, 0, 0, time.UTC)
	if order.EstimatedReadyAt == nil || !order.EstimatedReadyAt.Equal(wantReady) {
		t.Fatalf("expected ready at %s got %v", wantReady, order.EstimatedReadyAt)
	}

	if len(f.repo.tickets) != 1 {
		t.Fatalf("expected 1 ticket got %d", len(f.repo.tickets))
	}
	ticket := f.repo.tickets[0]
	if ticket.TicketNumber != 5001 {
		t.Fatalf("expected ticket number 5001 got %d", ticket.TicketNumber)
	}
	if ticket.Station != enums.TicketStationKitchen {
		t.Fatalf("expected kitchen station got %s", ticket.Station)
	}
	if ticket.Status != enums.TicketStatusNew {
		t.Fatalf("expected new ticket got %s", ticket.Status)
	}
	if !f.cart.checkedOut {
		t.Fatal("expected cart to be checked out")
	}
}

func TestCheckoutAllBarLinesRouteToBar(t *testing.T) {
	f := newFixture(t)
	oldFashioned := f.addMenuItem("Old Fashioned", enums.MenuCategoryCocktail, "15.00", 5)
	f.addCartLine(oldFashioned, 2)

	tableID := uuid.New()
	_, err := f.svc.Checkout(context.Background(), f.orgID, CheckoutInput{
		SessionID:  "term-1",
		Type:       enums.OrderTypeDineIn,
		TableID:    &tableID,
		EmployeeID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(f.repo.tickets) != 1 || f.repo.tickets[0].Station != enums.TicketStationBar {
		t.Fatalf("expected bar ticket got %+v", f.repo.tickets)
	}
}

func TestCheckoutTakeoutSkipsTicket(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem("Smash Burger", enums.MenuCategoryEntree, "14.00", 12)
	f.addCartLine(burger, 1)

	_, err := f.svc.Checkout(context.Background(), f.orgID, CheckoutInput{
		SessionID:  "term-1",
		Type:       enums.OrderTypeTakeout,
		EmployeeID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(f.repo.tickets) != 0 {
		t.Fatalf("expected no tickets got %d", len(f.repo.tickets))
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), f.orgID, CheckoutInput{
		SessionID:  "term-1",
		Type:       enums.OrderTypeTakeout,
		EmployeeID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeEmptyCart {
		t.Fatalf("expected empty cart error got %v", err)
	}
}

func TestCheckoutDineInNeedsTable(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem("Smash Burger", enums.MenuCategoryEntree, "14.00", 12)
	f.addCartLine(burger, 1)

	_, err := f.svc.Checkout(context.Background(), f.orgID, CheckoutInput{
		SessionID:  "term-1",
		Type:       enums.OrderTypeDineIn,
		EmployeeID: uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateWithInlineItems(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem("Smash Burger", enums.MenuCategoryEntree, "14.00", 12)

	order, err := f.svc.Create(context.Background(), f.orgID, CreateInput{
		Type:       enums.OrderTypeTakeout,
		EmployeeID: uuid.New(),
		Items:      []LineInput{{MenuItemID: burger.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(order.LineItems) != 1 || !order.LineItems[0].LineTotal.Equal(dec("28.00")) {
		t.Fatalf("expected snapshot line 28.00 got %+v", order.LineItems)
	}
}

func TestCreateUnknownItemRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.orgID, CreateInput{
		Type:       enums.OrderTypeTakeout,
		EmployeeID: uuid.New(),
		Items:      []LineInput{{MenuItemID: uuid.New(), Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestAddItemsOnlyWhileOpen(t *testing.T) {
	f := newFixture(t)
	burger := f.addMenuItem("Smash Burger", enums.MenuCategoryEntree, "14.00", 12)

	open := f.seedOrder(enums.OrderStatusOpen)
	updated, err := f.svc.AddItems(context.Background(), f.orgID, open.ID, []LineInput{
		{MenuItemID: burger.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(updated.LineItems) != 1 {
		t.Fatalf("expected 1 line got %d", len(updated.LineItems))
	}

	preparing := f.seedOrder(enums.OrderStatusPreparing)
	_, err = f.svc.AddItems(context.Background(), f.orgID, preparing.ID, []LineInput{
		{MenuItemID: burger.ID, Quantity: 1},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func (f *fixture) seedOrder(status enums.OrderStatus, lines ...models.OrderLineItem) *models.Order {
	order := &models.Order{
		ID:             uuid.New(),
		OrganizationID: f.orgID,
		OrderNumber:    1001,
		Type:           enums.OrderTypeDineIn,
		Status:         status,
		Priority:       enums.OrderPriorityNormal,
		EmployeeID:     uuid.New(),
		TaxRate:        dec("0.08875"),
		LineItems:      lines,
	}
	f.repo.orders[order.ID] = order
	return order
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusReady)

	_, err := f.svc.UpdateStatus(context.Background(), f.orgID, order.ID, enums.OrderStatusPreparing)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}

	updated, err := f.svc.UpdateStatus(context.Background(), f.orgID, order.ID, enums.OrderStatusServed)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.OrderStatusServed {
		t.Fatalf("expected served got %s", updated.Status)
	}
}

func TestUpdateStatusCannotClose(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusServed)

	_, err := f.svc.UpdateStatus(context.Background(), f.orgID, order.ID, enums.OrderStatusClosed)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestCancelFromAnyActiveState(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusPreparing)

	reason := "guest walked out"
	cancelled, err := f.svc.Cancel(context.Background(), f.orgID, order.ID, &reason)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled got %s", cancelled.Status)
	}
	if cancelled.CancelReason == nil || *cancelled.CancelReason != reason {
		t.Fatalf("expected cancel reason recorded got %v", cancelled.CancelReason)
	}
	if f.deductor.calls != 0 {
		t.Fatal("cancel must not touch inventory")
	}
}

func TestCancelTerminalRejected(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusClosed)

	_, err := f.svc.Cancel(context.Background(), f.orgID, order.ID, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func closeLines(f *fixture) []models.OrderLineItem {
	ginID := uuid.New()
	burger := f.addMenuItem("Smash Burger", enums.MenuCategoryEntree, "14.00", 12)
	gimlet := f.addMenuItem("Gimlet", enums.MenuCategoryCocktail, "12.00", 4, models.RecipeComponent{
		ID:              uuid.New(),
		InventoryItemID: ginID,
		QuantityPerUnit: dec("2.000"),
	})
	return []models.OrderLineItem{
		{
			ID:         uuid.New(),
			MenuItemID: burger.ID,
			Name:       burger.Name,
			UnitPrice:  dec("14.00"),
			Quantity:   1,
			LineTotal:  dec("14.00"),
		},
		{
			ID:         uuid.New(),
			MenuItemID: gimlet.ID,
			Name:       gimlet.Name,
			UnitPrice:  dec("12.00"),
			Quantity:   1,
			LineTotal:  dec("12.00"),
		},
	}
}

func TestCloseSettlesCashAndIssuesReceipt(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusServed, closeLines(f)...)

	tendered := dec("40.00")
	result, err := f.svc.Close(context.Background(), f.orgID, order.ID, CloseInput{
		Tip: dec("3.00"),
		Payment: payments.SettleRequest{
			Method:       enums.PaymentMethodCash,
			CashTendered: &tendered,
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}

	// 26.00 subtotal, 8.875% tax rounds to 2.31, 3.00 tip.
	if !result.Order.Subtotal.Equal(dec("26.00")) {
		t.Fatalf("expected subtotal 26.00 got %s", result.Order.Subtotal)
	}
	if !result.Order.Tax.Equal(dec("2.31")) {
		t.Fatalf("expected tax 2.31 got %s", result.Order.Tax)
	}
	if !result.Order.Total.Equal(dec("31.31")) {
		t.Fatalf("expected total 31.31 got %s", result.Order.Total)
	}
	if result.Order.Status != enums.OrderStatusClosed {
		t.Fatalf("expected closed got %s", result.Order.Status)
	}

	if result.Payment.Status != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed payment got %s", result.Payment.Status)
	}
	if result.Payment.ChangeDue == nil || !result.Payment.ChangeDue.Equal(dec("8.69")) {
		t.Fatalf("expected change 8.69 got %v", result.Payment.ChangeDue)
	}

	if result.Receipt.ReceiptNumber != 10001 {
		t.Fatalf("expected receipt number 10001 got %d", result.Receipt.ReceiptNumber)
	}
	if result.Receipt.BusinessName != "Barback Pro" {
		t.Fatalf("expected business name on receipt got %q", result.Receipt.BusinessName)
	}
	if !result.Receipt.Total.Equal(dec("31.31")) {
		t.Fatalf("expected receipt total 31.31 got %s", result.Receipt.Total)
	}

	if f.deductor.reference != "order-1001" {
		t.Fatalf("expected deduction reference order-1001 got %q", f.deductor.reference)
	}
	if len(f.deductor.deductions) != 1 || !f.deductor.deductions[0].Quantity.Equal(dec("2.000")) {
		t.Fatalf("expected one deduction of 2.000 got %+v", f.deductor.deductions)
	}
}

func TestCloseTaxRateOverride(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusServed, closeLines(f)...)

	override := dec("0.10")
	tendered := dec("40.00")
	result, err := f.svc.Close(context.Background(), f.orgID, order.ID, CloseInput{
		TaxRate: &override,
		Payment: payments.SettleRequest{
			Method:       enums.PaymentMethodCash,
			CashTendered: &tendered,
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}

	// 26.00 subtotal at the 10% override instead of the captured 8.875%.
	if !result.Order.Tax.Equal(dec("2.60")) {
		t.Fatalf("expected tax 2.60 got %s", result.Order.Tax)
	}
	if !result.Order.Total.Equal(dec("28.60")) {
		t.Fatalf("expected total 28.60 got %s", result.Order.Total)
	}
	if !result.Order.TaxRate.Equal(override) {
		t.Fatalf("expected tax rate 0.10 got %s", result.Order.TaxRate)
	}
}

func TestCloseTaxRateOutOfRange(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusServed, closeLines(f)...)

	override := dec("1.5")
	tendered := dec("40.00")
	_, err := f.svc.Close(context.Background(), f.orgID, order.ID, CloseInput{
		TaxRate: &override,
		Payment: payments.SettleRequest{
			Method:       enums.PaymentMethodCash,
			CashTendered: &tendered,
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	if len(f.payRepo.payments) != 0 {
		t.Fatal("expected no payment captured")
	}
}

func TestCloseInsufficientCashLeavesOrderOpen(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusServed, closeLines(f)...)

	tendered := dec("20.00")
	_, err := f.svc.Close(context.Background(), f.orgID, order.ID, CloseInput{
		Payment: payments.SettleRequest{
			Method:       enums.PaymentMethodCash,
			CashTendered: &tendered,
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientTender {
		t.Fatalf("expected insufficient tender got %v", err)
	}
	if len(f.payRepo.payments) != 0 {
		t.Fatal("expected no payment captured")
	}
	if f.deductor.calls != 0 {
		t.Fatal("expected no inventory drawn")
	}
	if f.repo.orders[order.ID].Status != enums.OrderStatusServed {
		t.Fatalf("expected order untouched got %s", f.repo.orders[order.ID].Status)
	}
}

func TestCloseAlreadyClosedRejected(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusClosed, closeLines(f)...)

	tendered := dec("40.00")
	_, err := f.svc.Close(context.Background(), f.orgID, order.ID, CloseInput{
		Payment: payments.SettleRequest{
			Method:       enums.PaymentMethodCash,
			CashTendered: &tendered,
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestCloseSplitMismatchRollsBack(t *testing.T) {
	f := newFixture(t)
	order := f.seedOrder(enums.OrderStatusServed, closeLines(f)...)

	tendered := dec("20.00")
	_, err := f.svc.Close(context.Background(), f.orgID, order.ID, CloseInput{
		Payment: payments.SettleRequest{
			Method: enums.PaymentMethodSplit,
			Splits: []payments.SplitRequest{
				{Method: enums.PaymentMethodCash, Amount: dec("10.00"), CashTendered: &tendered},
				{Method: enums.PaymentMethodCash, Amount: dec("10.00"), CashTendered: &tendered},
			},
		},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	if len(f.payRepo.payments) != 0 {
		t.Fatal("expected no payment captured")
	}
}
