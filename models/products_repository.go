package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// GetProducts returns one page of products ordered by id, together with the
// total number of products.
func (r *ProductsRepository) GetProducts(ctx context.Context, offset, limit int) ([]Product, int64, error) {
	var products []Product
	var total int64

	if err := r.db.WithContext(ctx).Model(&Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Category").
		Order("products.id").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductsRepository) GetByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) CreateProduct(ctx context.Context, product *Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// UpdateStock overwrites the stock count of a product.
func (r *ProductsRepository) UpdateStock(ctx context.Context, id uint, stock uint) error {
	return r.updateColumn(ctx, id, "stock", stock)
}

// UpdatePrice overwrites the price of a product.
func (r *ProductsRepository) UpdatePrice(ctx context.Context, id uint, price decimal.Decimal) error {
	return r.updateColumn(ctx, id, "price", price)
}

// SetAvatar points the product avatar at a stored blob key.
func (r *ProductsRepository) SetAvatar(ctx context.Context, id uint, key string) error {
	return r.updateColumn(ctx, id, "avatar", key)
}

// SetImage points the product image at a stored blob key.
func (r *ProductsRepository) SetImage(ctx context.Context, id uint, key string) error {
	return r.updateColumn(ctx, id, "image", key)
}

func (r *ProductsRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product and every order item that references it.
func (r *ProductsRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}
