package dto

// PageMeta 分页元信息
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewPageMeta 计算分页元信息
func NewPageMeta(total int64, page, limit int) PageMeta {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: pages,
	}
}
