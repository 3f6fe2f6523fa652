package tables

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type service struct {
	repo       Repository
	defaultTax decimal.Decimal
}

// NewService builds the table and location service.
func NewService(repo Repository, taxCfg config.TaxConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tables repository required")
	}
	return &service{repo: repo, defaultTax: taxCfg.DefaultRateDecimal()}, nil
}

func (s *service) CreateTable(ctx context.Context, organizationID uuid.UUID, input CreateTableInput) (*models.DiningTable, error) {
	if input.Number <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table number must be positive")
	}
	seats := input.Seats
	if seats <= 0 {
		seats = 2
	}
	table := &models.DiningTable{
		OrganizationID: organizationID,
		LocationID:     input.LocationID,
		Number:         input.Number,
		Seats:          seats,
		Status:         enums.TableStatusAvailable,
	}
	created, err := s.repo.CreateTable(ctx, table)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating table")
	}
	return created, nil
}

func (s *service) GetTable(ctx context.Context, organizationID, tableID uuid.UUID) (*models.DiningTable, error) {
	table, err := s.repo.FindTable(ctx, organizationID, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading table")
	}
	return table, nil
}

func (s *service) ListTables(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) ([]models.DiningTable, error) {
	tables, err := s.repo.ListTables(ctx, organizationID, locationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tables")
	}
	return tables, nil
}

func (s *service) SetTableStatus(ctx context.Context, organizationID, tableID uuid.UUID, status enums.TableStatus) (*models.DiningTable, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid table status")
	}
	if _, err := s.GetTable(ctx, organizationID, tableID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTable(ctx, tableID, map[string]any{"status": status.String()}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating table status")
	}
	return s.GetTable(ctx, organizationID, tableID)
}

func (s *service) DeleteTable(ctx context.Context, organizationID, tableID uuid.UUID) error {
	err := s.repo.DeleteTable(ctx, organizationID, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting table")
	}
	return nil
}

func (s *service) CreateLocation(ctx context.Context, organizationID uuid.UUID, input CreateLocationInput) (*models.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name is required")
	}
	if input.TaxRate != nil && (input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(decimal.NewFromInt(1))) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be between 0 and 1")
	}
	timezone := input.Timezone
	if timezone == "" {
		timezone = "America/New_York"
	}
	location := &models.Location{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(input.Name),
		Address:        input.Address,
		Timezone:       timezone,
		TaxRate:        input.TaxRate,
	}
	created, err := s.repo.CreateLocation(ctx, location)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating location")
	}
	return created, nil
}

func (s *service) ListLocations(ctx context.Context, organizationID uuid.UUID) ([]models.Location, error) {
	locations, err := s.repo.ListLocations(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing locations")
	}
	return locations, nil
}

// RateFor returns the location's tax-rate override, falling back to the
// configured default when the location is absent or carries no override.
func (s *service) RateFor(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) decimal.Decimal {
	if locationID == nil {
		return s.defaultTax
	}
	location, err := s.repo.FindLocation(ctx, organizationID, *locationID)
	if err != nil || location.TaxRate == nil {
		return s.defaultTax
	}
	return *location.TaxRate
}
