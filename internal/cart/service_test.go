package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type stubCartRepo struct {
	carts         map[uuid.UUID]*models.CartRecord
	items         map[uuid.UUID]*models.CartItem
	updateCartErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts: map[uuid.UUID]*models.CartRecord{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) CreateCart(ctx context.Context, cart *models.CartRecord) (*models.CartRecord, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	s.carts[cart.ID] = cart
	return cart, nil
}

func (s *stubCartRepo) FindActiveBySession(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	for _, cart := range s.carts {
		if cart.OrganizationID == organizationID && cart.SessionID == sessionID && cart.Status == enums.CartStatusActive {
			return s.loaded(cart), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindByID(ctx context.Context, organizationID, cartID uuid.UUID) (*models.CartRecord, error) {
	cart, ok := s.carts[cartID]
	if !ok || cart.OrganizationID != organizationID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.loaded(cart), nil
}

func (s *stubCartRepo) loaded(cart *models.CartRecord) *models.CartRecord {
	copied := *cart
	copied.Items = nil
	for _, item := range s.items {
		if item.CartID == cart.ID {
			copied.Items = append(copied.Items, *item)
		}
	}
	return &copied
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	item, ok := s.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["quantity"].(int); ok {
		item.Quantity = v
	}
	if v, ok := updates["note"].(*string); ok {
		item.Note = v
	}
	return nil
}

func (s *stubCartRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	delete(s.items, itemID)
	return nil
}

func (s *stubCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range s.items {
		if item.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubCartRepo) UpdateCart(ctx context.Context, cartID uuid.UUID, updates map[string]any) error {
	if s.updateCartErr != nil {
		return s.updateCartErr
	}
	cart, ok := s.carts[cartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(string); ok {
		cart.Status = enums.CartStatus(v)
	}
	if v, ok := updates["employee_id"].(uuid.UUID); ok {
		cart.EmployeeID = &v
	}
	return nil
}

type stubMenuReader struct {
	items map[uuid.UUID]*models.MenuItem
}

func (s *stubMenuReader) Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return item, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testMenuItem(orgID uuid.UUID, name, price string) *models.MenuItem {
	return &models.MenuItem{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		Category:       enums.MenuCategoryCocktail,
		Price:          decimal.RequireFromString(price),
		Available:      true,
	}
}

func TestAddItemCreatesCart(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Negroni", "15.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, err := NewService(newStubCartRepo(), menuReader, stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	cart, err := svc.AddItem(context.Background(), orgID, "tab-12", AddItemInput{
		MenuItemID: item.ID,
		Quantity:   2,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart contents %+v", cart.Items)
	}
	if !cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("15.00")) {
		t.Fatal("expected price snapshot from menu item")
	}
}

func TestAddItemMergesIdenticalLines(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Margarita", "13.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	note := "no salt"
	input := AddItemInput{
		MenuItemID:     item.ID,
		Quantity:       1,
		Modifications:  []string{"rocks"},
		Customizations: map[string]string{"tequila": "reposado"},
		Note:           &note,
	}
	if _, err := svc.AddItem(context.Background(), orgID, "tab-3", input); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), orgID, "tab-3", input)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected lines to merge, got %d items", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 got %d", cart.Items[0].Quantity)
	}
}

func TestAddItemDistinctModificationOrder(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Martini", "16.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	if _, err := svc.AddItem(context.Background(), orgID, "tab-4", AddItemInput{
		MenuItemID: item.ID, Quantity: 1, Modifications: []string{"dirty", "shaken"},
	}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), orgID, "tab-4", AddItemInput{
		MenuItemID: item.ID, Quantity: 1, Modifications: []string{"shaken", "dirty"},
	})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	// Modification order is meaningful, so these stay separate lines.
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 distinct lines got %d", len(cart.Items))
	}
}

func TestAddItemCustomizationOrderInsensitive(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Highball", "11.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	if _, err := svc.AddItem(context.Background(), orgID, "tab-5", AddItemInput{
		MenuItemID: item.ID, Quantity: 1,
		Customizations: map[string]string{"whisky": "toki", "soda": "yuzu"},
	}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	cart, err := svc.AddItem(context.Background(), orgID, "tab-5", AddItemInput{
		MenuItemID: item.ID, Quantity: 1,
		Customizations: map[string]string{"soda": "yuzu", "whisky": "toki"},
	})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("expected merged line with quantity 2, got %+v", cart.Items)
	}
}

func TestAddUnavailableItem(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Seasonal Sour", "14.00")
	item.Available = false
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	_, err := svc.AddItem(context.Background(), orgID, "tab-6", AddItemInput{MenuItemID: item.ID, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Paloma", "12.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	cart, err := svc.AddItem(context.Background(), orgID, "tab-7", AddItemInput{MenuItemID: item.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	updated, err := svc.UpdateItemQuantity(context.Background(), orgID, "tab-7", cart.Items[0].ID, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Fatalf("expected empty cart got %d items", len(updated.Items))
	}
}

func TestUpdateItemNote(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Mezcal Mule", "14.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	cart, err := svc.AddItem(context.Background(), orgID, "tab-9", AddItemInput{MenuItemID: item.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	note := "extra ginger"
	updated, err := svc.UpdateItemNote(context.Background(), orgID, "tab-9", cart.Items[0].ID, &note)
	if err != nil {
		t.Fatalf("note update failed: %v", err)
	}
	if updated.Items[0].Note == nil || *updated.Items[0].Note != "extra ginger" {
		t.Fatalf("expected note on line got %v", updated.Items[0].Note)
	}

	cleared, err := svc.UpdateItemNote(context.Background(), orgID, "tab-9", cart.Items[0].ID, nil)
	if err != nil {
		t.Fatalf("note clear failed: %v", err)
	}
	if cleared.Items[0].Note != nil {
		t.Fatalf("expected cleared note got %v", cleared.Items[0].Note)
	}
}

func TestUpdateItemNoteUnknownLine(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Sazerac", "15.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	if _, err := svc.AddItem(context.Background(), orgID, "tab-10", AddItemInput{MenuItemID: item.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	note := "neat"
	_, err := svc.UpdateItemNote(context.Background(), orgID, "tab-10", uuid.New(), &note)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestAddItemRecordsEmployee(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Old Fashioned", "14.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	repo := newStubCartRepo()
	svc, _ := NewService(repo, menuReader, stubTxRunner{})

	empID := uuid.New()
	cart, err := svc.AddItem(context.Background(), orgID, "tab-11", AddItemInput{
		MenuItemID: item.ID,
		Quantity:   1,
		EmployeeID: &empID,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	stored := repo.carts[cart.ID]
	if stored.EmployeeID == nil || *stored.EmployeeID != empID {
		t.Fatalf("expected employee recorded got %v", stored.EmployeeID)
	}
}

func TestAddItemAttributionFailureSurfaces(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Boulevardier", "15.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	repo := newStubCartRepo()
	repo.updateCartErr = errors.New("connection reset")
	svc, _ := NewService(repo, menuReader, stubTxRunner{})

	empID := uuid.New()
	_, err := svc.AddItem(context.Background(), orgID, "tab-13", AddItemInput{
		MenuItemID: item.ID,
		Quantity:   1,
		EmployeeID: &empID,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	orgID := uuid.New()
	item := testMenuItem(orgID, "Daiquiri", "13.00")
	menuReader := &stubMenuReader{items: map[uuid.UUID]*models.MenuItem{item.ID: item}}
	svc, _ := NewService(newStubCartRepo(), menuReader, stubTxRunner{})

	if _, err := svc.AddItem(context.Background(), orgID, "tab-8", AddItemInput{MenuItemID: item.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	cart, err := svc.Clear(context.Background(), orgID, "tab-8")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart got %d items", len(cart.Items))
	}
}
