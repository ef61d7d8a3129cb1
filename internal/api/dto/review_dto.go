package dto

import "time"

// ==================== 请求 ====================

// SubmitReviewRequest 提交/更新评价
type SubmitReviewRequest struct {
	Stars   int    `json:"stars" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// ReplyReviewRequest 管理员回复
type ReplyReviewRequest struct {
	Reply string `json:"reply" binding:"required"`
}

// ==================== 响应 ====================

// ReviewVO 评价视图
type ReviewVO struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	UserName   string    `json:"user_name"`
	Stars      int       `json:"stars"`
	Comment    string    `json:"comment,omitempty"`
	AdminReply string    `json:"admin_reply,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductReviewsResponse 商品评价列表
type ProductReviewsResponse struct {
	AverageRating float64    `json:"average_rating"`
	Count         int        `json:"count"`
	List          []ReviewVO `json:"list"`
}
