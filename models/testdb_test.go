package models

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with foreign keys on
// and the storefront schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// --- Fixtures ---

type fixtures struct {
	users      *UsersRepository
	categories *CategoriesRepository
	products   *ProductsRepository
	orders     *OrdersRepository
}

func newFixtures(t *testing.T) *fixtures {
	db := newTestDB(t)
	return &fixtures{
		users:      NewUsersRepository(db),
		categories: NewCategoriesRepository(db),
		products:   NewProductsRepository(db),
		orders:     NewOrdersRepository(db),
	}
}

func (f *fixtures) user(t *testing.T, username string) *User {
	t.Helper()
	u := &User{Username: username, FirstName: "Jane", LastName: "Doe"}
	require.NoError(t, f.users.Create(context.Background(), u, "s3cret"))
	return u
}

func (f *fixtures) category(t *testing.T, name string) *Category {
	t.Helper()
	c := &Category{Name: name}
	require.NoError(t, f.categories.CreateCategory(context.Background(), c))
	return c
}

func (f *fixtures) product(t *testing.T, category *Category, name, price string, stock uint) *Product {
	t.Helper()
	p := &Product{
		Name:       name,
		CategoryID: category.ID,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
	}
	require.NoError(t, f.products.CreateProduct(context.Background(), p))
	return p
}
