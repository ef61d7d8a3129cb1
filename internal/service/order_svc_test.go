package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/pkg/utils"
)

func setupOrderTest(t *testing.T) (*OrderService, *gorm.DB) {
	db := setupTestDB(t)

	svc := NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		newTestStorage(t),
		DefaultShippingRates(),
	)
	return svc, db
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) (*model.User, *model.Product) {
	t.Helper()

	user := &model.User{Email: "buyer@example.com", Name: "Buyer", Role: model.UserRoleCustomer}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	// 原价 500 折后 450：下单必须取折后价
	product := &model.Product{Name: "Saree", Slug: "saree", Price: 500, DiscountPrice: 450, CategoryID: 1}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
	return user, product
}

func checkoutRequest(cart string) *dto.CreateOrderRequest {
	return &dto.CreateOrderRequest{
		Cart:            cart,
		ShippingName:    "Buyer",
		ShippingPhone:   "01700000000",
		ShippingAddress: "House 1, Road 2",
		District:        "Dhaka",
		Area:            "Dhaka City",
		PaymentMethod:   model.PaymentMethodCOD,
	}
}

func jpegFile() *utils.UploadedFile {
	return &utils.UploadedFile{Data: []byte("fake-jpeg"), Filename: "proof.jpg", ContentType: "image/jpeg"}
}

// ==================== 下单 ====================

func TestOrderService_CreateOrder(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, product := seedOrderFixtures(t, db)
	ctx := context.Background()

	req := checkoutRequest(`[{"product_id":1,"quantity":2}]`)
	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, req, nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	// 单价取折后价 450，市区运费 70
	if vo.Subtotal != 900 {
		t.Errorf("subtotal = %d, want 900", vo.Subtotal)
	}
	if vo.ShippingFee != 70 {
		t.Errorf("shipping_fee = %d, want 70", vo.ShippingFee)
	}
	if vo.Total != 970 {
		t.Errorf("total = %d, want 970", vo.Total)
	}
	if vo.OrderStatus != model.OrderStatusPending || vo.PaymentStatus != model.PaymentStatusPending {
		t.Errorf("初始状态 = %s/%s, want pending/pending", vo.OrderStatus, vo.PaymentStatus)
	}
	if len(vo.Items) != 1 || vo.Items[0].UnitPrice != 450 || vo.Items[0].ProductName != product.Name {
		t.Errorf("items = %+v, 快照不对", vo.Items)
	}
	if vo.CustomerEmail != user.Email {
		t.Errorf("customer_email = %s", vo.CustomerEmail)
	}
}

// 行项目是下单时刻的快照，之后改价不回溯
func TestOrderService_SnapshotImmutable(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, product := seedOrderFixtures(t, db)
	ctx := context.Background()

	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(`[{"product_id":1,"quantity":1}]`), nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	db.Model(&model.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"price": 9999, "discount_price": 0})

	got, err := svc.GetByID(ctx, vo.ID)
	if err != nil {
		t.Fatalf("查询订单失败: %v", err)
	}
	if got.Items[0].UnitPrice != 450 || got.Subtotal != 450 {
		t.Errorf("改价后订单金额变了: %+v", got.Items[0])
	}
}

func TestOrderService_ProofGating(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	// 线上转账类支付方式必须带凭证
	for _, method := range []string{
		model.PaymentMethodBkash, model.PaymentMethodNagad,
		model.PaymentMethodRocket, model.PaymentMethodBank,
	} {
		req := checkoutRequest(`[{"product_id":1,"quantity":1}]`)
		req.PaymentMethod = method
		if _, err := svc.CreateOrder(ctx, user.ID, user.Email, req, nil); !errors.Is(err, ErrProofRequired) {
			t.Errorf("method=%s err = %v, want ErrProofRequired", method, err)
		}
	}

	// 货到付款不需要
	req := checkoutRequest(`[{"product_id":1,"quantity":1}]`)
	if _, err := svc.CreateOrder(ctx, user.ID, user.Email, req, nil); err != nil {
		t.Errorf("cod 不应要求凭证: %v", err)
	}

	// 带凭证的 bkash 正常落单并存下凭证 URL
	req = checkoutRequest(`[{"product_id":1,"quantity":1}]`)
	req.PaymentMethod = model.PaymentMethodBkash
	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, req, jpegFile())
	if err != nil {
		t.Fatalf("bkash 带凭证下单失败: %v", err)
	}
	if vo.ProofURL == "" {
		t.Error("proof_url 为空")
	}
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*dto.CreateOrderRequest)
		wantErr error
	}{
		{"空购物车", func(r *dto.CreateOrderRequest) { r.Cart = `[]` }, ErrEmptyCart},
		{"数量为 0", func(r *dto.CreateOrderRequest) { r.Cart = `[{"product_id":1,"quantity":0}]` }, ErrInvalidQuantity},
		{"未知支付方式", func(r *dto.CreateOrderRequest) { r.PaymentMethod = "paypal" }, ErrBadPaymentMethod},
		{"购物车非法 JSON", func(r *dto.CreateOrderRequest) { r.Cart = `{oops` }, ErrBadRequest},
		{"商品不存在", func(r *dto.CreateOrderRequest) { r.Cart = `[{"product_id":999,"quantity":1}]` }, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := checkoutRequest(`[{"product_id":1,"quantity":1}]`)
			tt.mutate(req)
			_, err := svc.CreateOrder(ctx, user.ID, user.Email, req, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderService_ShippingFeeOverride(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	req := checkoutRequest(`[{"product_id":1,"quantity":1}]`)
	req.ShippingFee = int64ptr(0) // 免运费活动
	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, req, nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if vo.ShippingFee != 0 || vo.Total != 450 {
		t.Errorf("fee=%d total=%d, 覆盖值未生效", vo.ShippingFee, vo.Total)
	}
}

// variant 形态按命中的变体行计价
func TestOrderService_VariantPricing(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	product := &model.Product{
		Name: "Sneaker", Slug: "sneaker", Price: 2000, CategoryID: 1, Kind: model.ProductKindVariant,
		Variants: []model.ProductVariant{
			{Properties: datatypes.JSONMap{"color": "Red", "size": "42"}, Price: 2200, Stock: 5},
			{Properties: datatypes.JSONMap{"color": "Black", "size": "42"}, Price: 2400, DiscountPrice: 2100, Stock: 3},
		},
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("创建变体商品失败: %v", err)
	}

	cart := `[{"product_id":2,"quantity":1,"color":"Black","size":"42"}]`
	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(cart), nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if vo.Items[0].UnitPrice != 2100 {
		t.Errorf("unit_price = %d, want 变体折后价 2100", vo.Items[0].UnitPrice)
	}

	// 未命中任何变体时回落到商品价
	cart = `[{"product_id":2,"quantity":1,"color":"Green","size":"40"}]`
	vo, err = svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(cart), nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}
	if vo.Items[0].UnitPrice != 2000 {
		t.Errorf("unit_price = %d, want 商品价 2000", vo.Items[0].UnitPrice)
	}
}

// 下单成功后清掉该用户的持久化购物车
func TestOrderService_ClearsCart(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, product := seedOrderFixtures(t, db)
	ctx := context.Background()

	db.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 2})

	if _, err := svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(`[{"product_id":1,"quantity":2}]`), nil); err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	var count int64
	db.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("购物车剩 %d 条, want 0", count)
	}
}

// ==================== 查询与状态 ====================

func TestOrderService_GetMyOrder_Ownership(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(`[{"product_id":1,"quantity":1}]`), nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	if _, err := svc.GetMyOrder(ctx, user.ID, vo.ID); err != nil {
		t.Errorf("本人查询失败: %v", err)
	}
	if _, err := svc.GetMyOrder(ctx, user.ID+1, vo.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("他人查询 err = %v, want ErrNotFound", err)
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	vo, err := svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(`[{"product_id":1,"quantity":1}]`), nil)
	if err != nil {
		t.Fatalf("下单失败: %v", err)
	}

	shipped := model.OrderStatusShipped
	completed := model.PaymentStatusCompleted

	// 两个字段独立更新
	if err := svc.UpdateStatus(ctx, vo.ID, &dto.UpdateOrderStatusRequest{OrderStatus: &shipped}); err != nil {
		t.Fatalf("更新订单状态失败: %v", err)
	}
	got, _ := svc.GetByID(ctx, vo.ID)
	if got.OrderStatus != model.OrderStatusShipped || got.PaymentStatus != model.PaymentStatusPending {
		t.Errorf("状态 = %s/%s, 支付状态不应联动", got.OrderStatus, got.PaymentStatus)
	}

	if err := svc.UpdateStatus(ctx, vo.ID, &dto.UpdateOrderStatusRequest{PaymentStatus: &completed}); err != nil {
		t.Fatalf("更新支付状态失败: %v", err)
	}
	got, _ = svc.GetByID(ctx, vo.ID)
	if got.PaymentStatus != model.PaymentStatusCompleted {
		t.Errorf("payment_status = %s, want completed", got.PaymentStatus)
	}

	// 非法值与空请求
	bad := "refunded"
	if err := svc.UpdateStatus(ctx, vo.ID, &dto.UpdateOrderStatusRequest{OrderStatus: &bad}); !errors.Is(err, ErrBadOrderStatus) {
		t.Errorf("err = %v, want ErrBadOrderStatus", err)
	}
	if err := svc.UpdateStatus(ctx, vo.ID, &dto.UpdateOrderStatusRequest{}); !errors.Is(err, ErrNoStatusField) {
		t.Errorf("err = %v, want ErrNoStatusField", err)
	}
	if err := svc.UpdateStatus(ctx, 9999, &dto.UpdateOrderStatusRequest{OrderStatus: &shipped}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOrderService_ListAndStats(t *testing.T) {
	svc, db := setupOrderTest(t)
	user, _ := seedOrderFixtures(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateOrder(ctx, user.ID, user.Email, checkoutRequest(`[{"product_id":1,"quantity":1}]`), nil); err != nil {
			t.Fatalf("下单失败: %v", err)
		}
	}

	resp, err := svc.ListOrders(ctx, &dto.ListOrdersRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("查询列表失败: %v", err)
	}
	if resp.Meta.Total != 3 || len(resp.List) != 2 {
		t.Errorf("total=%d len=%d, want 3/2", resp.Meta.Total, len(resp.List))
	}

	// 邮箱子串筛选
	resp, err = svc.ListOrders(ctx, &dto.ListOrdersRequest{Email: "buyer@", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("筛选失败: %v", err)
	}
	if resp.Meta.Total != 3 {
		t.Errorf("邮箱筛选 total = %d, want 3", resp.Meta.Total)
	}

	// 营收只统计已完成支付的订单
	completed := model.PaymentStatusCompleted
	first, _ := svc.ListMyOrders(ctx, user.ID, &dto.ListMyOrdersRequest{Page: 1, Limit: 1})
	if err := svc.UpdateStatus(ctx, first.List[0].ID, &dto.UpdateOrderStatusRequest{PaymentStatus: &completed}); err != nil {
		t.Fatalf("更新支付状态失败: %v", err)
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("查询统计失败: %v", err)
	}
	if stats.TotalOrders != 3 || stats.PendingOrders != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalRevenue != 520 {
		t.Errorf("revenue = %d, want 520 (450+70)", stats.TotalRevenue)
	}
}
