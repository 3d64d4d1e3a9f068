package router

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/atlas-backend/storefront/app/api"
	"github.com/atlas-backend/storefront/app/catalog"
	"github.com/atlas-backend/storefront/app/categories"
	"github.com/atlas-backend/storefront/app/media"
	"github.com/atlas-backend/storefront/app/orders"
	"github.com/atlas-backend/storefront/app/storage"
	"github.com/atlas-backend/storefront/app/users"
	"github.com/atlas-backend/storefront/models"
)

// New builds the storefront HTTP handler on top of db and blobs.
func New(db *gorm.DB, blobs storage.BlobStore) http.Handler {
	userHandler := users.NewUserHandler(models.NewUsersRepository(db))
	categoryHandler := categories.NewCategoryHandler(models.NewCategoriesRepository(db))
	catalogHandler := catalog.NewCatalogHandler(models.NewProductsRepository(db), blobs)
	orderHandler := orders.NewOrderHandler(models.NewOrdersRepository(db))
	mediaHandler := media.NewMediaHandler(blobs)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		api.OKResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /users", userHandler.HandleCreate)
	mux.HandleFunc("GET /users/{id}", userHandler.HandleGet)
	mux.HandleFunc("PUT /users/{id}", userHandler.HandleUpdate)
	mux.HandleFunc("DELETE /users/{id}", userHandler.HandleDelete)
	mux.HandleFunc("GET /users/{id}/orders", orderHandler.HandleListByUser)

	mux.HandleFunc("GET /categories", categoryHandler.HandleGetAll)
	mux.HandleFunc("POST /categories", categoryHandler.HandleCreate)
	mux.HandleFunc("DELETE /categories/{id}", categoryHandler.HandleDelete)

	mux.HandleFunc("GET /products", catalogHandler.HandleGet)
	mux.HandleFunc("POST /products", catalogHandler.HandleCreate)
	mux.HandleFunc("GET /products/{id}", catalogHandler.HandleGetProduct)
	mux.HandleFunc("DELETE /products/{id}", catalogHandler.HandleDelete)
	mux.HandleFunc("PATCH /products/{id}/stock", catalogHandler.HandleUpdateStock)
	mux.HandleFunc("POST /products/{id}/avatar", catalogHandler.HandleUploadAvatar)
	mux.HandleFunc("POST /products/{id}/image", catalogHandler.HandleUploadImage)

	mux.HandleFunc("POST /orders", orderHandler.HandleCreate)
	mux.HandleFunc("GET /orders/{id}", orderHandler.HandleGet)
	mux.HandleFunc("PATCH /orders/{id}/status", orderHandler.HandleUpdateStatus)
	mux.HandleFunc("POST /orders/{id}/items", orderHandler.HandleAddItem)
	mux.HandleFunc("DELETE /orders/{id}", orderHandler.HandleDelete)

	mux.HandleFunc("GET /media/{key...}", mediaHandler.HandleGet)

	return api.AccessLog(api.Recover(mux))
}
