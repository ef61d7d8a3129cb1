package dto

import "time"

// ==================== 请求 ====================

// SaveProductRequest 创建/更新商品（multipart form，图片另走文件字段）
// 数组字段与分类子标签一样兼容 JSON 数组或逗号分隔
type SaveProductRequest struct {
	Name             string `form:"name" binding:"required"`
	Description      string `form:"description"`
	Price            int64  `form:"price" binding:"required,gt=0"`
	DiscountPrice    int64  `form:"discount_price"`
	CategoryID       int64  `form:"category_id" binding:"required"`
	ExtraCategoryIDs string `form:"extra_category_ids"` // "2,5" 或 "[2,5]"
	SubCategories    string `form:"sub_categories"`
	Brands           string `form:"brands"`
	Colors           string `form:"colors"`
	Sizes            string `form:"sizes"`
	Kind             string `form:"kind"`        // simple | variant，缺省 simple
	PhotoIndex       *int   `form:"photo_index"` // 更新时：指定则按序号替换，否则追加
}

// ListProductsRequest 商品列表
type ListProductsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// SearchProductsRequest 全文搜索
type SearchProductsRequest struct {
	Keyword string `form:"q" binding:"required"`
	Page    int    `form:"page"`
	Limit   int    `form:"limit"`
}

// FilterProductsRequest 条件筛选
type FilterProductsRequest struct {
	CategoryIDs []int64 `form:"category_ids"`
	MinPrice    *int64  `form:"min_price"`
	MaxPrice    *int64  `form:"max_price"`
	Page        int     `form:"page"`
	Limit       int     `form:"limit"`
}

// VariantInput 变体行输入
type VariantInput struct {
	Properties    map[string]string `json:"properties" binding:"required"`
	Price         int64             `json:"price" binding:"required,gt=0"`
	DiscountPrice int64             `json:"discount_price"`
	Stock         int               `json:"stock"`
	PhotoURL      string            `json:"photo_url"`
}

// ReplaceVariantsRequest 整组替换商品变体
type ReplaceVariantsRequest struct {
	Variants []VariantInput `json:"variants" binding:"required"`
}

// ==================== 响应 ====================

// PhotoVO 商品图片
type PhotoVO struct {
	URL  string `json:"url"`
	Rank int    `json:"rank"`
}

// VariantVO 变体视图
type VariantVO struct {
	ID         int64             `json:"id"`
	Properties map[string]string `json:"properties"`
	Price      int64             `json:"price"`
	Stock      int               `json:"stock"`
	PhotoURL   string            `json:"photo_url,omitempty"`
}

// ProductVO 规范化后的商品视图
// simple/variant 两种形态都先经 service.NormalizeProduct 归一再输出
type ProductVO struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	Kind          string      `json:"kind"`
	Price         int64       `json:"price"`
	DiscountPrice int64       `json:"discount_price,omitempty"`
	EffectivePrice int64      `json:"effective_price"`
	CategoryID    int64       `json:"category_id"`
	CategoryName  string      `json:"category_name,omitempty"`
	ExtraCategoryIDs []int64  `json:"extra_category_ids,omitempty"`
	SubCategories []string    `json:"sub_categories"`
	Brands        []string    `json:"brands"`
	Colors        []string    `json:"colors"`
	Sizes         []string    `json:"sizes"`
	Photos        []PhotoVO   `json:"photos"`
	Variants      []VariantVO `json:"variants,omitempty"`
	AverageRating float64     `json:"average_rating"`
	ReviewCount   int         `json:"review_count"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ProductListItem 列表项（瘦身版）
type ProductListItem struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Price          int64   `json:"price"`
	DiscountPrice  int64   `json:"discount_price,omitempty"`
	EffectivePrice int64   `json:"effective_price"`
	PhotoURL       string  `json:"photo_url,omitempty"`
	AverageRating  float64 `json:"average_rating"`
}

// ProductListResponse 列表响应
type ProductListResponse struct {
	Meta PageMeta          `json:"meta"`
	List []ProductListItem `json:"list"`
}
