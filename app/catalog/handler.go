package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atlas-backend/storefront/app/api"
	"github.com/atlas-backend/storefront/app/storage"
	"github.com/atlas-backend/storefront/models"
)

// maxUploadSize bounds multipart image uploads.
const maxUploadSize = 10 << 20

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID           uint     `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Stock        uint     `json:"stock"`
	InStock      bool     `json:"in_stock"`
	IsNew        bool     `json:"is_new"`
	IsBestSeller bool     `json:"is_best_seller"`
	Avatar       *string  `json:"avatar"`
	Image        *string  `json:"image"`
	Category     Category `json:"category"`
}

type ProductProvider interface {
	GetProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateStock(ctx context.Context, id uint, stock uint) error
	SetAvatar(ctx context.Context, id uint, key string) error
	SetImage(ctx context.Context, id uint, key string) error
	Delete(ctx context.Context, id uint) error
}

type CatalogHandler struct {
	repo  ProductProvider
	blobs storage.BlobStore
}

func NewCatalogHandler(r ProductProvider, blobs storage.BlobStore) *CatalogHandler {
	return &CatalogHandler{
		repo:  r,
		blobs: blobs,
	}
}

func toProduct(p models.Product) Product {
	return Product{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.InexactFloat64(),
		Stock:        p.Stock,
		InStock:      p.InStock(),
		IsNew:        p.IsNew,
		IsBestSeller: p.IsBestSeller,
		Avatar:       p.Avatar,
		Image:        p.Image,
		Category: Category{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		},
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	res, total, err := h.repo.GetProducts(r.Context(), offset, limit)
	if err != nil {
		api.HandleError(w, err, "failed to get products")
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	api.OKResponse(w, http.StatusOK, Response{
		Total:    int(total),
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err, "failed to get product")
		return
	}

	api.OKResponse(w, http.StatusOK, toProduct(*product))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		CategoryID   uint            `json:"category_id"`
		Price        decimal.Decimal `json:"price"`
		Stock        uint            `json:"stock"`
		IsNew        bool            `json:"is_new"`
		IsBestSeller bool            `json:"is_best_seller"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.CategoryID == 0 {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing name or category_id")
		return
	}

	product := &models.Product{
		Name:         input.Name,
		Description:  input.Description,
		CategoryID:   input.CategoryID,
		Price:        input.Price,
		Stock:        input.Stock,
		IsNew:        input.IsNew,
		IsBestSeller: input.IsBestSeller,
	}

	if err := h.repo.CreateProduct(r.Context(), product); err != nil {
		api.HandleError(w, err, "Failed to create product")
		return
	}

	created, err := h.repo.GetByID(r.Context(), product.ID)
	if err != nil {
		api.HandleError(w, err, "Failed to load product")
		return
	}

	api.OKResponse(w, http.StatusCreated, toProduct(*created))
}

func (h *CatalogHandler) HandleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var input struct {
		Stock *uint `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Stock == nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid stock")
		return
	}

	if err := h.repo.UpdateStock(r.Context(), id, *input.Stock); err != nil {
		api.HandleError(w, err, "Failed to update stock")
		return
	}

	api.OKResponse(w, http.StatusOK, map[string]any{
		"stock":    *input.Stock,
		"in_stock": *input.Stock > 0,
	})
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err, "Failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadAvatar stores the "file" form field under avatars/.
func (h *CatalogHandler) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.AvatarPrefix, h.repo.SetAvatar)
}

// HandleUploadImage stores the "file" form field under products/.
func (h *CatalogHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, storage.ImagePrefix, h.repo.SetImage)
}

func (h *CatalogHandler) upload(w http.ResponseWriter, r *http.Request, prefix string, set func(context.Context, uint, string) error) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	key := storage.NewKey(prefix, header.Filename)
	if err := h.blobs.Put(r.Context(), key, file); err != nil {
		api.HandleError(w, err, "Failed to store file")
		return
	}

	if err := set(r.Context(), id, key); err != nil {
		if delErr := h.blobs.Delete(r.Context(), key); delErr != nil {
			api.Logger.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned upload")
		}
		api.HandleError(w, err, "Failed to update product")
		return
	}

	api.OKResponse(w, http.StatusOK, map[string]string{"key": key})
}

func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return 0, false
	}
	return uint(id), true
}
