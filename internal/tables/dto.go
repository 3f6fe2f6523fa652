package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// TableDTO exposes a dining table in API responses.
type TableDTO struct {
	ID         uuid.UUID         `json:"id"`
	LocationID *uuid.UUID        `json:"location_id,omitempty"`
	Number     int               `json:"number"`
	Seats      int               `json:"seats"`
	Status     enums.TableStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// LocationDTO exposes a venue in API responses.
type LocationDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Address   *string          `json:"address,omitempty"`
	Timezone  string           `json:"timezone"`
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// FromModel maps the persisted table into a DTO.
func FromModel(m *models.DiningTable) *TableDTO {
	if m == nil {
		return nil
	}
	return &TableDTO{
		ID:         m.ID,
		LocationID: m.LocationID,
		Number:     m.Number,
		Seats:      m.Seats,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
	}
}

// FromModels maps a list of tables into DTOs.
func FromModels(tables []models.DiningTable) []TableDTO {
	dtos := make([]TableDTO, 0, len(tables))
	for i := range tables {
		dtos = append(dtos, *FromModel(&tables[i]))
	}
	return dtos
}

// LocationFromModel maps the persisted location into a DTO.
func LocationFromModel(m *models.Location) *LocationDTO {
	if m == nil {
		return nil
	}
	return &LocationDTO{
		ID:        m.ID,
		Name:      m.Name,
		Address:   m.Address,
		Timezone:  m.Timezone,
		TaxRate:   m.TaxRate,
		CreatedAt: m.CreatedAt,
	}
}

// LocationsFromModels maps a list of locations into DTOs.
func LocationsFromModels(locations []models.Location) []LocationDTO {
	dtos := make([]LocationDTO, 0, len(locations))
	for i := range locations {
		dtos = append(dtos, *LocationFromModel(&locations[i]))
	}
	return dtos
}

// CreateTableInput registers a new dining table.
type CreateTableInput struct {
	LocationID *uuid.UUID
	Number     int
	Seats      int
}

// CreateLocationInput registers a new venue.
type CreateLocationInput struct {
	Name     string
	Address  *string
	Timezone string
	TaxRate  *decimal.Decimal
}
