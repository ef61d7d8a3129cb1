package dto

import "time"

// ==================== 请求 ====================

// SaveCategoryRequest 创建/更新分类（multipart form）
// SubCategories 兼容两种编码：JSON 数组字符串 或 逗号分隔列表
type SaveCategoryRequest struct {
	Name          string `form:"name" binding:"required"`
	SubCategories string `form:"sub_categories"`
}

// ==================== 响应 ====================

// CategoryVO 分类视图
type CategoryVO struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	SubCategories []string  `json:"sub_categories"`
	CreatedAt     time.Time `json:"created_at"`
}
