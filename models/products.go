package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultAvatar is the blob key a product gets when none is uploaded.
const DefaultAvatar = "avatars/default.jpg"

// Product represents a product in the catalog.
// It belongs to exactly one category and is removed together with it.
type Product struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"size:255;not null"`
	Description  string          `gorm:"type:text"`
	CategoryID   uint            `gorm:"not null;index"`
	Category     Category        `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock        uint            `gorm:"not null;default:0;check:stock >= 0"`
	IsNew        bool            `gorm:"not null;default:false"`
	IsBestSeller bool            `gorm:"not null;default:false"`
	Avatar       *string         `gorm:"size:255"`
	Image        *string         `gorm:"size:255"`
}

func (p *Product) TableName() string {
	return "products"
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

func (p *Product) String() string {
	return p.Name
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.Avatar == nil {
		avatar := DefaultAvatar
		p.Avatar = &avatar
	}
	return nil
}
