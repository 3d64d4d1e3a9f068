package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)

// OrderLine is a requested product and quantity when placing an order.
type OrderLine struct {
	ProductID uint
	Quantity  uint
}

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// Create places a pending order for userID with one item per line. The order
// and its items are written in a single transaction. An order may start
// without items; they can be added later with AddItem.
func (r *OrdersRepository) Create(ctx context.Context, userID uint, lines []OrderLine) (*Order, error) {
	for _, line := range lines {
		if line.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
	}

	order := &Order{UserID: userID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		items := make([]OrderItem, len(lines))
		for i, line := range lines {
			items[i] = OrderItem{
				OrderID:   order.OrderID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
	if err != nil {
		return nil, translateError(err)
	}

	return r.GetByID(ctx, order.OrderID)
}

// GetByID loads an order with its user, items and the items' products.
func (r *OrdersRepository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&order, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.itemsOf(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

// ListByUser returns the orders of a user, newest first, without items.
func (r *OrdersRepository) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status of an order. Every status may follow every
// other one.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, string(status))
	}
	res := r.db.WithContext(ctx).Model(&Order{}).Where("order_id = ?", id).Update("status", status)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// AddItem appends a product line to an existing order.
func (r *OrdersRepository) AddItem(ctx context.Context, id uuid.UUID, line OrderLine) (*OrderItem, error) {
	if line.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&Order{}).Where("order_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrOrderNotFound
	}

	item := &OrderItem{OrderID: id, ProductID: line.ProductID, Quantity: line.Quantity}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, translateError(err)
	}
	if err := r.db.WithContext(ctx).Preload("Product").First(item, item.ID).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an order and its items.
func (r *OrdersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("order_id = ?", id).Delete(&Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

func (r *OrdersRepository) itemsOf(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	var items []OrderItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Order("id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
