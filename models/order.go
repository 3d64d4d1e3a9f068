package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a customer's order. Its products are reached through Items.
type Order struct {
	OrderID   uuid.UUID   `gorm:"type:uuid;primaryKey;column:order_id"`
	CreatedAt time.Time   `gorm:"autoCreateTime;<-:create;not null"`
	Status    OrderStatus `gorm:"type:varchar(10);not null;default:'pending';check:status IN ('pending','confirmed','cancelled')"`
	UserID    uint        `gorm:"not null;index"`
	User      User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:OrderID;constraint:OnDelete:CASCADE"`
}

func (o *Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns a fresh order id and the pending status.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderID == uuid.Nil {
		o.OrderID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

// Products returns the products of the loaded items, in item order.
func (o *Order) Products() []Product {
	products := make([]Product, len(o.Items))
	for i, item := range o.Items {
		products[i] = item.Product
	}
	return products
}

func (o *Order) String() string {
	return fmt.Sprintf("Order %s by %s", o.OrderID, o.User.Username)
}
