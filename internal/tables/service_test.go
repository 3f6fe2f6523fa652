package tables

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type stubTablesRepo struct {
	tables    map[uuid.UUID]*models.DiningTable
	locations map[uuid.UUID]*models.Location
	orgID     uuid.UUID
}

func newStubTablesRepo(orgID uuid.UUID) *stubTablesRepo {
	return &stubTablesRepo{
		tables:    map[uuid.UUID]*models.DiningTable{},
		locations: map[uuid.UUID]*models.Location{},
		orgID:     orgID,
	}
}

func (s *stubTablesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubTablesRepo) CreateTable(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error) {
	if table.ID == uuid.Nil {
		table.ID = uuid.New()
	}
	s.tables[table.ID] = table
	return table, nil
}

func (s *stubTablesRepo) FindTable(ctx context.Context, organizationID, tableID uuid.UUID) (*models.DiningTable, error) {
	table, ok := s.tables[tableID]
	if !ok || organizationID != s.orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return table, nil
}

func (s *stubTablesRepo) ListTables(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) ([]models.DiningTable, error) {
	var found []models.DiningTable
	for _, table := range s.tables {
		found = append(found, *table)
	}
	return found, nil
}

func (s *stubTablesRepo) UpdateTable(ctx context.Context, tableID uuid.UUID, updates map[string]any) error {
	table, ok := s.tables[tableID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"].(string); ok {
		table.Status = enums.TableStatus(v)
	}
	return nil
}

func (s *stubTablesRepo) DeleteTable(ctx context.Context, organizationID, tableID uuid.UUID) error {
	if _, ok := s.tables[tableID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.tables, tableID)
	return nil
}

func (s *stubTablesRepo) CreateLocation(ctx context.Context, location *models.Location) (*models.Location, error) {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	s.locations[location.ID] = location
	return location, nil
}

func (s *stubTablesRepo) FindLocation(ctx context.Context, organizationID, locationID uuid.UUID) (*models.Location, error) {
	location, ok := s.locations[locationID]
	if !ok || organizationID != s.orgID {
		return nil, gorm.ErrRecordNotFound
	}
	return location, nil
}

func (s *stubTablesRepo) ListLocations(ctx context.Context, organizationID uuid.UUID) ([]models.Location, error) {
	var found []models.Location
	for _, location := range s.locations {
		found = append(found, *location)
	}
	return found, nil
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateTableDefaultsSeats(t *testing.T) {
	orgID := uuid.New()
	repo := newStubTablesRepo(orgID)
	svc, err := NewService(repo, config.TaxConfig{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	table, err := svc.CreateTable(context.Background(), orgID, CreateTableInput{Number: 7})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if table.Seats != 2 {
		t.Fatalf("expected 2 seats got %d", table.Seats)
	}
	if table.Status != enums.TableStatusAvailable {
		t.Fatalf("expected available got %s", table.Status)
	}
}

func TestCreateTableInvalidNumber(t *testing.T) {
	orgID := uuid.New()
	svc, _ := NewService(newStubTablesRepo(orgID), config.TaxConfig{})

	_, err := svc.CreateTable(context.Background(), orgID, CreateTableInput{Number: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestSetTableStatus(t *testing.T) {
	orgID := uuid.New()
	repo := newStubTablesRepo(orgID)
	svc, _ := NewService(repo, config.TaxConfig{})

	table, _ := svc.CreateTable(context.Background(), orgID, CreateTableInput{Number: 3, Seats: 4})
	updated, err := svc.SetTableStatus(context.Background(), orgID, table.ID, enums.TableStatusOccupied)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.TableStatusOccupied {
		t.Fatalf("expected occupied got %s", updated.Status)
	}
}

func TestRateForUsesLocationOverride(t *testing.T) {
	orgID := uuid.New()
	repo := newStubTablesRepo(orgID)
	svc, _ := NewService(repo, config.TaxConfig{})

	override := dec("0.10000")
	location, err := svc.CreateLocation(context.Background(), orgID, CreateLocationInput{
		Name:    "Downtown",
		TaxRate: &override,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}

	rate := svc.RateFor(context.Background(), orgID, &location.ID)
	if !rate.Equal(override) {
		t.Fatalf("expected override rate got %s", rate)
	}
}

func TestRateForFallsBackToDefault(t *testing.T) {
	orgID := uuid.New()
	svc, _ := NewService(newStubTablesRepo(orgID), config.TaxConfig{})

	rate := svc.RateFor(context.Background(), orgID, nil)
	if !rate.Equal(dec("0.08875")) {
		t.Fatalf("expected default rate got %s", rate)
	}

	missing := uuid.New()
	rate = svc.RateFor(context.Background(), orgID, &missing)
	if !rate.Equal(dec("0.08875")) {
		t.Fatalf("expected default rate for unknown location got %s", rate)
	}
}
