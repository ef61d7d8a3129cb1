package model

// ==================== 订单状态常量 ====================

// OrderStatus 订单状态（约定线性推进，管理端可独立设置）
// "cancelled" 在前端配色表中出现过，但没有任何服务端路径会写入它，
// 是否支持取消是一个未定的设计问题，这里不发明转移规则
const (
	OrderStatusPending    = "pending"    // 待处理
	OrderStatusProcessing = "processing" // 处理中
	OrderStatusShipped    = "shipped"    // 已发货
	OrderStatusDelivered  = "delivered"  // 已送达
)

// PaymentStatus 支付状态
const (
	PaymentStatusPending   = "pending"   // 待确认
	PaymentStatusCompleted = "completed" // 已完成
)

// PaymentMethod 支付方式（固定枚举）
const (
	PaymentMethodCOD    = "cod"    // 货到付款
	PaymentMethodBkash  = "bkash"  // bKash
	PaymentMethodNagad  = "nagad"  // Nagad
	PaymentMethodRocket = "rocket" // Rocket
	PaymentMethodBank   = "bank"   // 银行转账
)

// ValidOrderStatus 订单状态是否合法
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// ValidPaymentStatus 支付状态是否合法
func ValidPaymentStatus(s string) bool {
	return s == PaymentStatusPending || s == PaymentStatusCompleted
}

// ValidPaymentMethod 支付方式是否合法
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodBkash, PaymentMethodNagad, PaymentMethodRocket, PaymentMethodBank:
		return true
	}
	return false
}

// PaymentMethodRequiresProof 是否需要付款凭证（货到付款除外）
func PaymentMethodRequiresProof(m string) bool {
	return m != PaymentMethodCOD
}

// ==================== Order 订单 ====================

// Order 订单
// 行项目是下单时刻的不可变快照，后续商品编辑/删除不影响历史订单
// 订单不提供任何删除入口
type Order struct {
	BaseModel

	// 买家（来自会话，绝不信任客户端提交）
	UserID int64 `gorm:"index;not null"`
	User   *User `gorm:"foreignKey:UserID"`

	// 买家邮箱快照，供后台按邮箱子串过滤
	CustomerEmail string `gorm:"size:255;index"`

	// 收货信息快照（按单记录，不回读用户资料）
	ShippingName    string `gorm:"size:255"`
	ShippingPhone   string `gorm:"size:32"`
	ShippingAddress string `gorm:"type:text"`
	District        string `gorm:"size:64"`
	Area            string `gorm:"size:64"`

	// 金额（BDT 整数）
	Subtotal    int64 `gorm:"not null"`
	ShippingFee int64 `gorm:"not null"`
	Discount    int64 `gorm:"default:0"` // 预留字段，当前始终为 0
	Total       int64 `gorm:"not null"`  // 恒等于 Subtotal + ShippingFee - Discount

	// 支付
	PaymentMethod    string `gorm:"size:20;not null"`
	PaymentStatus    string `gorm:"size:20;default:'pending';index"`
	ProofURL         string `gorm:"size:512"` // 付款凭证（cod 以外必填）
	ProofContentType string `gorm:"size:100"`

	// 订单状态
	OrderStatus string `gorm:"size:20;default:'pending';index"`

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// ItemCount 行项目件数合计
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ==================== OrderItem 订单行项目 ====================

// OrderItem 行项目快照
type OrderItem struct {
	BaseModel

	OrderID int64 `gorm:"index;not null"`

	// 商品引用 + 值快照
	ProductID   int64  `gorm:"index;not null"`
	ProductName string `gorm:"size:255;not null"`
	PhotoURL    string `gorm:"size:512"`

	Quantity      int   `gorm:"not null"`
	UnitPrice     int64 `gorm:"not null"` // 下单时刻生效单价
	ListPrice     int64 `gorm:"not null"` // 下单时刻原价
	DiscountPrice int64 `gorm:"default:0"`

	// 购买时选中的属性
	Brand string `gorm:"size:64"`
	Color string `gorm:"size:64"`
	Size  string `gorm:"size:64"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 行小计
func (i *OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
