package sequence

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

func setupSequenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ToLower(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Counter{}))
	require.NoError(t, db.Create(&models.Counter{Name: OrderNumber, Value: 1000}).Error)
	return db
}

func TestNextIncrementsSeededCounter(t *testing.T) {
	db := setupSequenceTestDB(t)
	ctx := context.Background()

	first, err := Next(ctx, db, OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), first)

	second, err := Next(ctx, db, OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(1002), second)
}

func TestNextUnseededCounter(t *testing.T) {
	db := setupSequenceTestDB(t)

	_, err := Next(context.Background(), db, ReceiptNumber)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not seeded")
}

func TestNextRequiresTransactionAndName(t *testing.T) {
	db := setupSequenceTestDB(t)

	_, err := Next(context.Background(), nil, OrderNumber)
	require.Error(t, err)

	_, err = Next(context.Background(), db, "  ")
	require.Error(t, err)
}
