package model

// Review 商品评价
// 每个用户对同一商品至多一条；二次提交原地覆盖星级与内容，不保留历史
type Review struct {
	BaseModel

	ProductID int64    `gorm:"not null;uniqueIndex:idx_reviews_product_user"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	UserID int64 `gorm:"not null;uniqueIndex:idx_reviews_product_user"`

	// 提交时刻的昵称快照，用户改名不回溯历史评价
	UserName string `gorm:"size:255;not null"`

	Stars   int    `gorm:"not null"` // 1-5
	Comment string `gorm:"type:text"`

	// 管理员回复（可选，不参与均分）
	AdminReply string `gorm:"type:text"`
}

func (Review) TableName() string {
	return "reviews"
}

// ValidStars 星级是否在 1-5 范围内
func ValidStars(stars int) bool {
	return stars >= 1 && stars <= 5
}
