package cart

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ToLower(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.CartRecord{}, &models.CartItem{}))
	return db
}

func seedRepoCart(t *testing.T, repo Repository, orgID uuid.UUID, sessionID string) *models.CartRecord {
	t.Helper()

	created, err := repo.CreateCart(context.Background(), &models.CartRecord{
		OrganizationID: orgID,
		SessionID:      sessionID,
		Status:         enums.CartStatusActive,
	})
	require.NoError(t, err)
	return created
}

func TestCartRepoFindActiveBySession(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	cart := seedRepoCart(t, repo, orgID, "tab-12")
	require.NoError(t, repo.CreateItem(ctx, &models.CartItem{
		CartID:     cart.ID,
		MenuItemID: uuid.New(),
		Name:       "Negroni",
		UnitPrice:  decimal.RequireFromString("15.00"),
		Quantity:   2,
	}))

	found, err := repo.FindActiveBySession(ctx, orgID, "tab-12")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Negroni", found.Items[0].Name)

	_, err = repo.FindActiveBySession(ctx, uuid.New(), "tab-12")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Checked-out carts no longer resolve, so the session starts fresh.
	require.NoError(t, repo.UpdateCart(ctx, cart.ID, map[string]any{
		"status": enums.CartStatusCheckedOut.String(),
	}))
	_, err = repo.FindActiveBySession(ctx, orgID, "tab-12")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepoItemLifecycle(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	cart := seedRepoCart(t, repo, orgID, "tab-3")
	item := &models.CartItem{
		CartID:     cart.ID,
		MenuItemID: uuid.New(),
		Name:       "Margarita",
		UnitPrice:  decimal.RequireFromString("13.00"),
		Quantity:   1,
	}
	require.NoError(t, repo.CreateItem(ctx, item))

	note := "no salt"
	require.NoError(t, repo.UpdateItem(ctx, item.ID, map[string]any{
		"quantity": 3,
		"note":     &note,
	}))

	found, err := repo.FindByID(ctx, orgID, cart.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 3, found.Items[0].Quantity)
	require.NotNil(t, found.Items[0].Note)
	assert.Equal(t, "no salt", *found.Items[0].Note)

	require.NoError(t, repo.DeleteItem(ctx, cart.ID, item.ID))
	found, err = repo.FindByID(ctx, orgID, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}

func TestCartRepoDeleteItemsClearsCartOnly(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	first := seedRepoCart(t, repo, orgID, "tab-1")
	second := seedRepoCart(t, repo, orgID, "tab-2")
	for _, cartID := range []uuid.UUID{first.ID, second.ID} {
		require.NoError(t, repo.CreateItem(ctx, &models.CartItem{
			CartID:     cartID,
			MenuItemID: uuid.New(),
			Name:       "Daiquiri",
			UnitPrice:  decimal.RequireFromString("13.00"),
			Quantity:   1,
		}))
	}

	require.NoError(t, repo.DeleteItems(ctx, first.ID))

	cleared, err := repo.FindByID(ctx, orgID, first.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)

	untouched, err := repo.FindByID(ctx, orgID, second.ID)
	require.NoError(t, err)
	assert.Len(t, untouched.Items, 1)
}
