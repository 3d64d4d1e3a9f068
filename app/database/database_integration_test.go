//go:build integration
// +build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/atlas-backend/storefront/models"
)

// startPostgres runs a throwaway PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("store"),
		tcpostgres.WithUsername("shop"),
		tcpostgres.WithPassword("shop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestPostgresStorefront(t *testing.T) {
	ctx := context.Background()
	db, err := OpenAndMigrate(startPostgres(t))
	require.NoError(t, err)

	users := models.NewUsersRepository(db)
	categories := models.NewCategoriesRepository(db)
	products := models.NewProductsRepository(db)
	orders := models.NewOrdersRepository(db)

	jane := &models.User{Username: "jane", FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, users.Create(ctx, jane, "s3cret"))
	assert.ErrorIs(t, users.Create(ctx, &models.User{Username: "jane"}, "x"), models.ErrConflict)

	bakery := &models.Category{Name: "Bakery"}
	require.NoError(t, categories.CreateCategory(ctx, bakery))

	bread := &models.Product{Name: "Bread", CategoryID: bakery.ID, Price: decimal.RequireFromString("9.99"), Stock: 3}
	require.NoError(t, products.CreateProduct(ctx, bread))

	orphan := &models.Product{Name: "Orphan", CategoryID: bakery.ID + 100, Price: decimal.NewFromInt(1)}
	assert.ErrorIs(t, products.CreateProduct(ctx, orphan), models.ErrInvalidInput)

	order, err := orders.Create(ctx, jane.ID, []models.OrderLine{{ProductID: bread.ID, Quantity: 3}})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "29.97", order.Items[0].ItemSubtotal().StringFixed(2))

	_, err = orders.Create(ctx, jane.ID+100, []models.OrderLine{{ProductID: bread.ID, Quantity: 1}})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	extra, err := orders.Create(ctx, jane.ID, []models.OrderLine{{ProductID: bread.ID, Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, db.Exec("DELETE FROM orders WHERE order_id = ?", extra.OrderID).Error)
	var left int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", extra.OrderID).Count(&left).Error)
	assert.Zero(t, left, "the schema must cascade order deletes to items")

	require.NoError(t, categories.Delete(ctx, bakery.ID))

	_, err = products.GetByID(ctx, bread.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	got, err := orders.GetByID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	require.NoError(t, users.Delete(ctx, jane.ID))
	_, err = orders.GetByID(ctx, order.OrderID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
