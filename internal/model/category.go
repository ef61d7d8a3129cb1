package model

import (
	"github.com/lib/pq"
)

// Category 商品分类
// 子分类只是平铺的文本标签，不构成层级树
// 注意：删除分类不级联处理引用它的商品（与线上行为保持一致）
type Category struct {
	BaseModel
	AuditFields

	Name string `gorm:"size:255;uniqueIndex;not null"`
	Slug string `gorm:"size:255;uniqueIndex;not null"`

	// 分类图（可选），走统一存储层
	PhotoURL   string `gorm:"size:512"`
	PhotoKey   string `gorm:"size:255"` // 存储对象 key，删除时回收

	// 子分类标签（Postgres Array）
	SubCategories pq.StringArray `gorm:"type:text[]"`
}

func (Category) TableName() string {
	return "categories"
}
