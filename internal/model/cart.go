package model

// CartItem 持久化购物车条目
// 取代前端 localStorage 购物车：登录态下加载/变更即落库
// 下单接口仍然只接受显式传入的条目，购物车不是隐式全局状态
type CartItem struct {
	BaseModel

	UserID int64 `gorm:"index:idx_cart_user;not null"`

	ProductID int64    `gorm:"index;not null"`
	Product   *Product `gorm:"foreignKey:ProductID"`

	Quantity int `gorm:"not null;default:1"`

	// 加购时选中的属性
	Brand string `gorm:"size:64"`
	Color string `gorm:"size:64"`
	Size  string `gorm:"size:64"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// SameSelection 是否同一商品同一规格（用于加购合并数量）
func (c *CartItem) SameSelection(productID int64, brand, color, size string) bool {
	return c.ProductID == productID && c.Brand == brand && c.Color == color && c.Size == size
}
