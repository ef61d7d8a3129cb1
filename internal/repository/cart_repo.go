package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// CartRepository 购物车仓储接口
type CartRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error)
	GetByID(ctx context.Context, id int64) (*model.CartItem, error)
	FindSelection(ctx context.Context, userID, productID int64, brand, color, size string) (*model.CartItem, error)
	Save(ctx context.Context, item *model.CartItem) error
	Delete(ctx context.Context, id int64) error
	ClearByUser(ctx context.Context, userID int64) error
}

// ==================== 仓储实现 ====================

type cartRepo struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Photos", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *cartRepo) GetByID(ctx context.Context, id int64) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindSelection 同用户同商品同规格的已有条目；未命中返回 (nil, nil)
func (r *cartRepo) FindSelection(ctx context.Context, userID, productID int64, brand, color, size string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND brand = ? AND color = ? AND size = ?",
			userID, productID, brand, color, size).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) Save(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}
