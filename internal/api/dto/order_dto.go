package dto

import "time"

// ==================== 请求 ====================

// CheckoutItem 下单条目（只带引用与数量，价格一律服务端重新推导）
type CheckoutItem struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Brand     string `json:"brand"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CreateOrderRequest 创建订单（multipart form）
// Cart 为 JSON 编码的 CheckoutItem 数组；付款凭证另走文件字段
type CreateOrderRequest struct {
	Cart            string `form:"cart" binding:"required"`
	ShippingName    string `form:"shipping_name" binding:"required"`
	ShippingPhone   string `form:"shipping_phone" binding:"required"`
	ShippingAddress string `form:"shipping_address" binding:"required"`
	District        string `form:"district"`
	Area            string `form:"area"`
	PaymentMethod   string `form:"payment_method" binding:"required"`
	ShippingFee     *int64 `form:"shipping_fee"` // 显式覆盖值，优先于规则表
}

// ListOrdersRequest 后台订单列表
type ListOrdersRequest struct {
	Status        string `form:"status"`
	PaymentMethod string `form:"payment_method"`
	Email         string `form:"email"` // 买家邮箱子串
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
}

// ListMyOrdersRequest 买家订单列表
type ListMyOrdersRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// UpdateOrderStatusRequest 后台状态变更（两个字段独立可选）
type UpdateOrderStatusRequest struct {
	OrderStatus   *string `json:"order_status"`
	PaymentStatus *string `json:"payment_status"`
}

// ==================== 响应 ====================

// OrderItemVO 行项目视图
type OrderItemVO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	ListPrice   int64  `json:"list_price"`
	Brand       string `json:"brand,omitempty"`
	Color       string `json:"color,omitempty"`
	Size        string `json:"size,omitempty"`
	LineTotal   int64  `json:"line_total"`
}

// OrderVO 订单视图
type OrderVO struct {
	ID              int64         `json:"id"`
	CustomerEmail   string        `json:"customer_email"`
	ShippingName    string        `json:"shipping_name"`
	ShippingPhone   string        `json:"shipping_phone"`
	ShippingAddress string        `json:"shipping_address"`
	District        string        `json:"district,omitempty"`
	Area            string        `json:"area,omitempty"`
	Subtotal        int64         `json:"subtotal"`
	ShippingFee     int64         `json:"shipping_fee"`
	Discount        int64         `json:"discount"`
	Total           int64         `json:"total"`
	PaymentMethod   string        `json:"payment_method"`
	PaymentStatus   string        `json:"payment_status"`
	ProofURL        string        `json:"proof_url,omitempty"`
	OrderStatus     string        `json:"order_status"`
	Items           []OrderItemVO `json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
}

// OrderListItem 列表项
type OrderListItem struct {
	ID            int64     `json:"id"`
	CustomerEmail string    `json:"customer_email"`
	ItemCount     int       `json:"item_count"`
	Total         int64     `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// OrderListResponse 列表响应
type OrderListResponse struct {
	Meta PageMeta        `json:"meta"`
	List []OrderListItem `json:"list"`
}

// OrderStatsVO 后台订单统计
type OrderStatsVO struct {
	TotalOrders      int64 `json:"total_orders"`
	PendingOrders    int64 `json:"pending_orders"`
	ProcessingOrders int64 `json:"processing_orders"`
	ShippedOrders    int64 `json:"shipped_orders"`
	DeliveredOrders  int64 `json:"delivered_orders"`
	TotalRevenue     int64 `json:"total_revenue"` // 仅统计 paymentStatus=completed
}
