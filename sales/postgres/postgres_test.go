package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jrsteele09/kitshop-gateway/internal/database"
	"github.com/jrsteele09/kitshop-gateway/internal/errors"
	"github.com/jrsteele09/kitshop-gateway/sales"
	"github.com/jrsteele09/kitshop-gateway/sales/postgres"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *postgres.SalesStore {
	t.Helper()
	databaseURL := os.Getenv("KITSHOP_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("KITSHOP_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := postgres.NewSalesStore(db)
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestSalesStore_UpsertBatch(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saleID := time.Now().UnixNano()
	at := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	customerID := int64(12)

	sale := sales.Sale{SaleID: saleID, DeviceID: 1, ShopID: 2, CompanyID: 3, Sum: 10,
		SaleDateTime: at, ServerDateTime: at, PayType: 1, IsFiscal: true, CustomerID: &customerID}
	require.NoError(t, store.UpsertBatch(ctx, []sales.Sale{sale}))

	sale.Sum = 25
	require.NoError(t, store.UpsertBatch(ctx, []sales.Sale{sale}))

	got, err := store.Get(ctx, saleID)
	require.NoError(t, err)
	require.Equal(t, 25.0, got.Sum)
	require.Equal(t, int64(12), *got.CustomerID)
	require.True(t, at.Equal(got.SaleDateTime))

	_, err = store.Get(ctx, -1)
	require.ErrorIs(t, err, errors.ErrNotFound)
}
