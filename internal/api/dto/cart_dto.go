package dto

// ==================== 请求 ====================

// AddCartItemRequest 加入购物车
type AddCartItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Brand     string `json:"brand"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// UpdateCartItemRequest 修改数量
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// ==================== 响应 ====================

// CartItemVO 购物车条目（带商品当前快照，便于前端直接渲染）
type CartItemVO struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"product_id"`
	ProductName    string `json:"product_name"`
	ProductSlug    string `json:"product_slug"`
	PhotoURL       string `json:"photo_url,omitempty"`
	EffectivePrice int64  `json:"effective_price"`
	Quantity       int    `json:"quantity"`
	Brand          string `json:"brand,omitempty"`
	Color          string `json:"color,omitempty"`
	Size           string `json:"size,omitempty"`
	LineTotal      int64  `json:"line_total"`
}

// CartVO 购物车视图
type CartVO struct {
	Items    []CartItemVO `json:"items"`
	Subtotal int64        `json:"subtotal"`
}
