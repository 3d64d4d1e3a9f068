package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the storefront tables, parents first.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
	)
}
