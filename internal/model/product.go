package model

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ==================== 商品形态 ====================

// ProductKind 商品形态标签
// simple: 平铺的 brand/color/size 标签，选中不影响价格库存
// variant: 带变体矩阵，每个变体可有独立价格/库存/图片
const (
	ProductKindSimple  = "simple"
	ProductKindVariant = "variant"
)

// ==================== Product 商品 ====================

// Product 商品
type Product struct {
	BaseModel
	AuditFields

	// --- 基本信息 ---
	Name        string `gorm:"size:255;not null"`
	Slug        string `gorm:"size:255;uniqueIndex;not null"` // 由名称派生，冲突时追加序号
	Description string `gorm:"type:text"`

	// --- 价格（BDT 整数） ---
	Price         int64 `gorm:"not null"`       // 原价
	DiscountPrice int64 `gorm:"default:0"`      // 折后价，0 表示无折扣

	// --- 分类 ---
	CategoryID      int64      `gorm:"index;not null"` // 主分类
	Category        *Category  `gorm:"foreignKey:CategoryID"`
	ExtraCategories []Category `gorm:"many2many:product_extra_categories"`

	// 子分类标签（大小写不敏感匹配）
	SubCategories pq.StringArray `gorm:"type:text[]"`

	// --- 属性标签（simple 形态） ---
	Brands pq.StringArray `gorm:"type:text[]"`
	Colors pq.StringArray `gorm:"type:text[]"`
	Sizes  pq.StringArray `gorm:"type:text[]"`

	// --- 形态标签 ---
	Kind string `gorm:"size:20;default:'simple';index"`

	// --- 评分缓存 ---
	// 必须等于 round(mean(reviews.stars), 1)，每次评价写入同步重算
	AverageRating float64 `gorm:"default:0"`

	// --- 关联 ---
	Photos   []ProductPhoto   `gorm:"foreignKey:ProductID"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID"`
	Reviews  []Review         `gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// UnitPrice 下单时使用的单价：折后价为显式覆盖，否则取原价
func (p *Product) UnitPrice() int64 {
	if p.DiscountPrice > 0 {
		return p.DiscountPrice
	}
	return p.Price
}

// HasActiveDiscount 折扣是否生效（折后价必须不高于原价）
func (p *Product) HasActiveDiscount() bool {
	return p.DiscountPrice > 0 && p.DiscountPrice <= p.Price
}

// ==================== ProductPhoto 商品图片 ====================

// ProductPhoto 商品图片，最多 5 张，按 Rank 排序
type ProductPhoto struct {
	BaseModel

	ProductID int64    `gorm:"index;not null"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	URL        string `gorm:"size:512;not null"`
	StorageKey string `gorm:"size:255"` // 存储对象 key，替换/删除时回收
	Rank       int    `gorm:"default:0"`
}

func (ProductPhoto) TableName() string {
	return "product_photos"
}

// MaxProductPhotos 单个商品的图片上限
const MaxProductPhotos = 5

// ==================== ProductVariant 商品变体 ====================

// ProductVariant 变体行（variant 形态商品专用）
type ProductVariant struct {
	BaseModel

	ProductID int64    `gorm:"index;not null"`
	Product   *Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	// 规格组合，如 {"brand":"X","color":"Red","size":"M"}
	Properties datatypes.JSONMap `gorm:"type:jsonb"`

	// 变体可覆盖价格/库存/图片；0 表示跟随商品
	Price         int64  `gorm:"default:0"`
	DiscountPrice int64  `gorm:"default:0"`
	Stock         int    `gorm:"default:0"`
	PhotoURL      string `gorm:"size:512"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// UnitPrice 变体生效单价；变体未定价时回落到商品价
func (v *ProductVariant) UnitPrice(p *Product) int64 {
	if v.DiscountPrice > 0 {
		return v.DiscountPrice
	}
	if v.Price > 0 {
		return v.Price
	}
	return p.UnitPrice()
}

// PropertyValue 读取规格字段
func (v *ProductVariant) PropertyValue(key string) string {
	if v.Properties == nil {
		return ""
	}
	if raw, ok := v.Properties[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}
