package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-backend/storefront/app/api"
	"github.com/atlas-backend/storefront/models"
)

type ItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       string  `json:"price"`
	Quantity    uint    `json:"quantity"`
	Subtotal    string  `json:"subtotal"`
	Description string  `json:"description"`
}

type OrderResponse struct {
	OrderID     string         `json:"order_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Status      string         `json:"status"`
	UserID      uint           `json:"user_id"`
	Username    string         `json:"username"`
	Description string         `json:"description"`
	Items       []ItemResponse `json:"items,omitempty"`
}

type LineRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type OrderProvider interface {
	Create(ctx context.Context, userID uint, lines []models.OrderLine) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	AddItem(ctx context.Context, id uuid.UUID, line models.OrderLine) (*models.OrderItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OrderHandler struct {
	repo OrderProvider
}

func NewOrderHandler(r OrderProvider) *OrderHandler {
	return &OrderHandler{repo: r}
}

func toItem(item models.OrderItem) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.Product.Name,
		Price:       item.Product.Price.StringFixed(2),
		Quantity:    item.Quantity,
		Subtotal:    item.ItemSubtotal().StringFixed(2),
		Description: item.String(),
	}
}

func toOrder(order models.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:     order.OrderID.String(),
		CreatedAt:   order.CreatedAt,
		Status:      order.Status.String(),
		UserID:      order.UserID,
		Username:    order.User.Username,
		Description: order.String(),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, toItem(item))
	}
	return resp
}

func (h *OrderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID uint          `json:"user_id"`
		Items  []LineRequest `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if input.UserID == 0 {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing user_id")
		return
	}

	lines := make([]models.OrderLine, len(input.Items))
	for i, item := range input.Items {
		lines[i] = models.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.repo.Create(r.Context(), input.UserID, lines)
	if err != nil {
		api.HandleError(w, err, "Failed to create order")
		return
	}

	api.OKResponse(w, http.StatusCreated, toOrder(*order))
}

func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err, "failed to get order")
		return
	}

	api.OKResponse(w, http.StatusOK, toOrder(*order))
}

// HandleListByUser serves GET /users/{id}/orders.
func (h *OrderHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	orders, err := h.repo.ListByUser(r.Context(), uint(userID))
	if err != nil {
		api.HandleError(w, err, "failed to list orders")
		return
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}
	api.OKResponse(w, http.StatusOK, response)
}

// HandleUpdateStatus sets any of the three statuses, whatever the current one is.
func (h *OrderHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, status); err != nil {
		api.HandleError(w, err, "Failed to update order status")
		return
	}

	api.OKResponse(w, http.StatusOK, map[string]string{
		"order_id": id.String(),
		"status":   status.String(),
	})
}

func (h *OrderHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var input LineRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if input.ProductID == 0 || input.Quantity == 0 {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing product_id or quantity")
		return
	}

	item, err := h.repo.AddItem(r.Context(), id, models.OrderLine{ProductID: input.ProductID, Quantity: input.Quantity})
	if err != nil {
		api.HandleError(w, err, "Failed to add item")
		return
	}

	api.OKResponse(w, http.StatusCreated, toItem(*item))
}

func (h *OrderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err, "Failed to delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid order id")
		return uuid.Nil, false
	}
	return id, true
}
