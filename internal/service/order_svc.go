package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/pkg/logger"
	"bdshop_dev_v1_202608/pkg/utils"
)

// ==================== OrderService ====================

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	storage     *StorageService
	rates       ShippingRates
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	storage *StorageService,
	rates ShippingRates,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		storage:     storage,
		rates:       rates,
	}
}

// ==================== 创建订单 ====================

// CreateOrder 结算下单
// 单价一律从当前商品记录重新推导，客户端提交的价格不参与计算；
// 行项目落库即为不可变快照，之后的商品编辑/删除不影响本单
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, email string, req *dto.CreateOrderRequest, proof *utils.UploadedFile) (*dto.OrderVO, error) {
	items, err := parseCart(req.Cart)
	if err != nil {
		return nil, err
	}

	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrBadPaymentMethod
	}
	// 付款凭证门禁：货到付款以外必须有凭证
	if model.PaymentMethodRequiresProof(req.PaymentMethod) && proof == nil {
		return nil, ErrProofRequired
	}

	orderItems, priced, err := s.buildLineItems(ctx, items)
	if err != nil {
		return nil, err
	}

	fee := s.rates.Resolve(req.District, req.Area, req.ShippingFee)
	quote := ComputeQuote(priced, fee)

	order := &model.Order{
		UserID:          userID,
		CustomerEmail:   email,
		ShippingName:    req.ShippingName,
		ShippingPhone:   req.ShippingPhone,
		ShippingAddress: req.ShippingAddress,
		District:        req.District,
		Area:            req.Area,
		Subtotal:        quote.Subtotal,
		ShippingFee:     quote.ShippingFee,
		Discount:        quote.Discount,
		Total:           quote.Total,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   model.PaymentStatusPending,
		OrderStatus:     model.OrderStatusPending,
		Items:           orderItems,
	}

	if proof != nil {
		url, _, err := s.storage.UploadStaged(ctx, proof)
		if err != nil {
			return nil, fmt.Errorf("上传付款凭证失败: %w", err)
		}
		order.ProofURL = url
		order.ProofContentType = proof.ContentType
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// 下单成功后清空已落库的购物车；失败只记日志，不影响订单
	if err := s.cartRepo.ClearByUser(ctx, userID); err != nil {
		logger.L().Warnw("清空购物车失败", "user_id", userID, "err", err)
	}

	logger.L().Infow("订单创建成功",
		"order_id", order.ID, "user_id", userID,
		"total", order.Total, "method", order.PaymentMethod)

	vo := toOrderVO(order)
	return &vo, nil
}

// parseCart 解析 multipart 里的 JSON 购物车
func parseCart(raw string) ([]dto.CheckoutItem, error) {
	var items []dto.CheckoutItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("购物车格式错误: %w", ErrBadRequest)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	return items, nil
}

// buildLineItems 由当前商品记录构建快照行项目与计价输入
func (s *OrderService) buildLineItems(ctx context.Context, items []dto.CheckoutItem) ([]model.OrderItem, []PricedItem, error) {
	orderItems := make([]model.OrderItem, 0, len(items))
	priced := make([]PricedItem, 0, len(items))

	for _, it := range items {
		product, err := s.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("商品 %d 不存在: %w", it.ProductID, ErrNotFound)
		}

		unitPrice := product.UnitPrice()
		// variant 形态：选中规格命中变体行时用变体价
		if product.Kind == model.ProductKindVariant {
			if v := matchVariant(product, it.Brand, it.Color, it.Size); v != nil {
				unitPrice = v.UnitPrice(product)
			}
		}

		photoURL := ""
		if len(product.Photos) > 0 {
			photoURL = product.Photos[0].URL
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:     product.ID,
			ProductName:   product.Name,
			PhotoURL:      photoURL,
			Quantity:      it.Quantity,
			UnitPrice:     unitPrice,
			ListPrice:     product.Price,
			DiscountPrice: product.DiscountPrice,
			Brand:         it.Brand,
			Color:         it.Color,
			Size:          it.Size,
		})
		priced = append(priced, PricedItem{UnitPrice: unitPrice, Quantity: it.Quantity})
	}

	return orderItems, priced, nil
}

// matchVariant 按选中的规格匹配变体行
func matchVariant(p *model.Product, brand, color, size string) *model.ProductVariant {
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.PropertyValue("brand") == brand &&
			v.PropertyValue("color") == color &&
			v.PropertyValue("size") == size {
			return v
		}
	}
	return nil
}

// ==================== 查询 ====================

// ListMyOrders 买家自己的订单
func (s *OrderService) ListMyOrders(ctx context.Context, userID int64, req *dto.ListMyOrdersRequest) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.ListByUser(ctx, userID, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}
	return buildOrderListResponse(orders, total, req.Page, req.Limit), nil
}

// ListOrders 后台订单列表
func (s *OrderService) ListOrders(ctx context.Context, req *dto.ListOrdersRequest) (*dto.OrderListResponse, error) {
	if req.Status != "" && !model.ValidOrderStatus(req.Status) {
		return nil, ErrBadOrderStatus
	}
	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Email:         req.Email,
		Page:          req.Page,
		PageSize:      req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("查询订单列表失败: %w", err)
	}
	return buildOrderListResponse(orders, total, req.Page, req.Limit), nil
}

// GetByID 订单详情（后台）
func (s *OrderService) GetByID(ctx context.Context, id int64) (*dto.OrderVO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	vo := toOrderVO(order)
	return &vo, nil
}

// GetMyOrder 订单详情（买家只能看自己的）
func (s *OrderService) GetMyOrder(ctx context.Context, userID, id int64) (*dto.OrderVO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil || order.UserID != userID {
		return nil, ErrNotFound
	}
	vo := toOrderVO(order)
	return &vo, nil
}

// GetStats 后台统计
func (s *OrderService) GetStats(ctx context.Context) (*dto.OrderStatsVO, error) {
	stats, err := s.orderRepo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询订单统计失败: %w", err)
	}
	return &dto.OrderStatsVO{
		TotalOrders:      stats.TotalOrders,
		PendingOrders:    stats.PendingOrders,
		ProcessingOrders: stats.ProcessingOrders,
		ShippedOrders:    stats.ShippedOrders,
		DeliveredOrders:  stats.DeliveredOrders,
		TotalRevenue:     stats.TotalRevenue,
	}, nil
}

// ==================== 状态变更（后台） ====================

// UpdateStatus 独立设置 orderStatus / paymentStatus
// 两个字段互不联动：置为 delivered 不会自动把支付置为 completed
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, req *dto.UpdateOrderStatusRequest) error {
	fields := map[string]interface{}{}

	if req.OrderStatus != nil {
		if !model.ValidOrderStatus(*req.OrderStatus) {
			return ErrBadOrderStatus
		}
		fields["order_status"] = *req.OrderStatus
	}
	if req.PaymentStatus != nil {
		if !model.ValidPaymentStatus(*req.PaymentStatus) {
			return ErrBadPaymentStatus
		}
		fields["payment_status"] = *req.PaymentStatus
	}
	if len(fields) == 0 {
		return ErrNoStatusField
	}

	if err := s.orderRepo.UpdateStatusFields(ctx, id, fields); err != nil {
		return ErrNotFound
	}
	return nil
}

// ==================== VO 转换 ====================

func toOrderVO(o *model.Order) dto.OrderVO {
	items := make([]dto.OrderItemVO, len(o.Items))
	for i, it := range o.Items {
		items[i] = dto.OrderItemVO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			PhotoURL:    it.PhotoURL,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			ListPrice:   it.ListPrice,
			Brand:       it.Brand,
			Color:       it.Color,
			Size:        it.Size,
			LineTotal:   it.LineTotal(),
		}
	}

	return dto.OrderVO{
		ID:              o.ID,
		CustomerEmail:   o.CustomerEmail,
		ShippingName:    o.ShippingName,
		ShippingPhone:   o.ShippingPhone,
		ShippingAddress: o.ShippingAddress,
		District:        o.District,
		Area:            o.Area,
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		Discount:        o.Discount,
		Total:           o.Total,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		ProofURL:        o.ProofURL,
		OrderStatus:     o.OrderStatus,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

func buildOrderListResponse(orders []model.Order, total int64, page, limit int) *dto.OrderListResponse {
	list := make([]dto.OrderListItem, len(orders))
	for i := range orders {
		o := &orders[i]
		list[i] = dto.OrderListItem{
			ID:            o.ID,
			CustomerEmail: o.CustomerEmail,
			ItemCount:     o.ItemCount(),
			Total:         o.Total,
			PaymentMethod: o.PaymentMethod,
			PaymentStatus: o.PaymentStatus,
			OrderStatus:   o.OrderStatus,
			CreatedAt:     o.CreatedAt,
		}
	}
	return &dto.OrderListResponse{
		Meta: dto.NewPageMeta(total, page, limit),
		List: list,
	}
}
