package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atlas-backend/storefront/app/storage"
	"github.com/atlas-backend/storefront/models"
)

// Create DB connection for tests
func getTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, models.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func do(t *testing.T, h http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// ----------------------- TESTS ----------------------- //

func TestStorefrontFlow(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	router := New(getTestDB(t), store)

	rec := do(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// User
	rec = do(t, router, "POST", "/users", map[string]any{
		"username": "jane", "password": "pw", "first_name": "Jane", "last_name": "Doe",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decode[map[string]any](t, rec)
	assert.Equal(t, "Jane Doe", user["full_name"])
	userID := fmt.Sprint(user["id"])

	rec = do(t, router, "POST", "/users", map[string]any{"username": "jane", "password": "pw"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Catalog
	rec = do(t, router, "POST", "/categories", map[string]any{"name": "Bakery"})
	require.Equal(t, http.StatusCreated, rec.Code)
	categoryID := fmt.Sprint(decode[map[string]any](t, rec)["id"])

	rec = do(t, router, "POST", "/products", json.RawMessage(
		`{"name":"Bread","category_id":`+categoryID+`,"price":"9.99","stock":5}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[map[string]any](t, rec)
	productID := fmt.Sprint(product["id"])
	assert.Equal(t, true, product["in_stock"])
	assert.Equal(t, "Bakery", product["category"].(map[string]any)["name"])

	rec = do(t, router, "GET", "/products/"+productID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DefaultAvatar, decode[map[string]any](t, rec)["avatar"])

	// Order
	rec = do(t, router, "POST", "/orders", json.RawMessage(
		`{"user_id":`+userID+`,"items":[{"product_id":`+productID+`,"quantity":3}]}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[map[string]any](t, rec)
	orderID := order["order_id"].(string)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "Order "+orderID+" by jane", order["description"])
	items := order["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "9.99", items[0].(map[string]any)["price"])
	assert.Equal(t, "29.97", items[0].(map[string]any)["subtotal"])

	rec = do(t, router, "PATCH", "/orders/"+orderID+"/status", map[string]any{"status": "cancelled"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, "PATCH", "/orders/"+orderID+"/status", map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, "GET", "/users/"+userID+"/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]map[string]any](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "confirmed", list[0]["status"])

	// An order may start empty
	rec = do(t, router, "POST", "/orders", json.RawMessage(`{"user_id":`+userID+`}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	emptyOrder := decode[map[string]any](t, rec)
	assert.Equal(t, "pending", emptyOrder["status"])
	_, hasItems := emptyOrder["items"]
	assert.False(t, hasItems)

	// Cascade through the category
	rec = do(t, router, "DELETE", "/categories/"+categoryID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, "GET", "/products/"+productID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, "GET", "/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, hasItems = decode[map[string]any](t, rec)["items"]
	assert.False(t, hasItems, "order items must be gone with the product")

	// Cascade through the user
	rec = do(t, router, "DELETE", "/users/"+userID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, "GET", "/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
