package service

import (
	"context"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
)

// ==================== CartService ====================

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// Get 当前用户购物车，附带商品当前快照与小计
// 商品已被删除的条目直接跳过渲染，不报错
func (s *CartService) Get(ctx context.Context, userID int64) (*dto.CartVO, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	vo := &dto.CartVO{Items: make([]dto.CartItemVO, 0, len(items))}
	for i := range items {
		it := &items[i]
		if it.Product == nil {
			continue
		}

		price := it.Product.UnitPrice()
		if it.Product.Kind == model.ProductKindVariant {
			if v := matchVariant(it.Product, it.Brand, it.Color, it.Size); v != nil {
				price = v.UnitPrice(it.Product)
			}
		}

		photoURL := ""
		if len(it.Product.Photos) > 0 {
			photoURL = it.Product.Photos[0].URL
		}

		vo.Items = append(vo.Items, dto.CartItemVO{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.Product.Name,
			ProductSlug:    it.Product.Slug,
			PhotoURL:       photoURL,
			EffectivePrice: price,
			Quantity:       it.Quantity,
			Brand:          it.Brand,
			Color:          it.Color,
			Size:           it.Size,
			LineTotal:      price * int64(it.Quantity),
		})
		vo.Subtotal += price * int64(it.Quantity)
	}
	return vo, nil
}

// Add 加入购物车；同商品同规格已存在时合并数量
func (s *CartService) Add(ctx context.Context, userID int64, req *dto.AddCartItemRequest) error {
	if req.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return ErrNotFound
	}

	existing, err := s.cartRepo.FindSelection(ctx, userID, req.ProductID, req.Brand, req.Color, req.Size)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.Quantity += req.Quantity
		return s.cartRepo.Save(ctx, existing)
	}

	return s.cartRepo.Save(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Brand:     req.Brand,
		Color:     req.Color,
		Size:      req.Size,
	})
}

// UpdateQuantity 修改条目数量
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	item.Quantity = quantity
	return s.cartRepo.Save(ctx, item)
}

// Remove 删除条目
func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	return s.cartRepo.Delete(ctx, item.ID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.cartRepo.ClearByUser(ctx, userID)
}

// ownedItem 读取条目并校验归属，越权当不存在处理
func (s *CartService) ownedItem(ctx context.Context, userID, itemID int64) (*model.CartItem, error) {
	item, err := s.cartRepo.GetByID(ctx, itemID)
	if err != nil || item.UserID != userID {
		return nil, ErrNotFound
	}
	return item, nil
}
