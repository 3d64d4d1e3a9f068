package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem links one order to one product with a quantity. It is removed
// when either its order or its product is removed.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uint      `gorm:"not null;index"`
	Product   Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  uint      `gorm:"not null;check:quantity > 0"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}

// ItemSubtotal is the product price times the quantity. Product must be loaded.
func (i *OrderItem) ItemSubtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *OrderItem) String() string {
	return fmt.Sprintf("%dx %s in order %s", i.Quantity, i.Product.Name, i.OrderID)
}
