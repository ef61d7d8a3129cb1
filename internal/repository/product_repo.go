package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/model"
)

// ==================== 过滤条件 ====================

// ProductFilter 商品筛选条件
type ProductFilter struct {
	CategoryIDs []int64 // 主分类或附加分类命中任一即可
	MinPrice    *int64  // 按生效价（折后价优先）的闭区间
	MaxPrice    *int64
	Page        int
	PageSize    int
}

// ==================== 接口定义 ====================

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// 基础 CRUD
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	ReplaceExtraCategories(ctx context.Context, product *model.Product, categories []model.Category) error
	HardDelete(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)

	// 查询投影（全部无副作用）
	List(ctx context.Context, page, pageSize int) ([]model.Product, int64, error)
	Filter(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	Search(ctx context.Context, keyword string, page, pageSize int) ([]model.Product, int64, error)
	ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]model.Product, int64, error)
	ListBySubCategory(ctx context.Context, label string, page, pageSize int) ([]model.Product, int64, error)
	Related(ctx context.Context, categoryID, excludeID int64, limit int) ([]model.Product, error)

	// 图片
	AddPhoto(ctx context.Context, photo *model.ProductPhoto) error
	GetPhotos(ctx context.Context, productID int64) ([]model.ProductPhoto, error)
	UpdatePhoto(ctx context.Context, photo *model.ProductPhoto) error
	DeletePhotosByProductID(ctx context.Context, productID int64) error

	// 变体
	ReplaceVariants(ctx context.Context, productID int64, variants []model.ProductVariant) error
}

// ==================== 仓储实现 ====================

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Variants").
		Preload("Category").
		Preload("ExtraCategories").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Variants").
		Preload("Category").
		Preload("ExtraCategories").
		Preload("Reviews").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepo) ReplaceExtraCategories(ctx context.Context, product *model.Product, categories []model.Category) error {
	return r.db.WithContext(ctx).Model(product).Association("ExtraCategories").Replace(categories)
}

// HardDelete 硬删除商品及其图片/变体/评价（历史订单的快照不受影响）
func (r *productRepo) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

func (r *productRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.Product{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ==================== 查询投影 ====================

// paginate 统一分页：计数 + 最新优先
func (r *productRepo) paginate(query *gorm.DB, page, pageSize int) ([]model.Product, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var products []model.Product
	err := query.
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) List(ctx context.Context, page, pageSize int) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})
	return r.paginate(query, page, pageSize)
}

func (r *productRepo) Filter(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if len(filter.CategoryIDs) > 0 {
		query = query.Where(
			"category_id IN ? OR id IN (SELECT product_id FROM product_extra_categories WHERE category_id IN ?)",
			filter.CategoryIDs, filter.CategoryIDs,
		)
	}
	// 价格区间按生效价：折后价为 0 时回落到原价
	if filter.MinPrice != nil {
		query = query.Where("(CASE WHEN discount_price > 0 THEN discount_price ELSE price END) >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("(CASE WHEN discount_price > 0 THEN discount_price ELSE price END) <= ?", *filter.MaxPrice)
	}

	return r.paginate(query, filter.Page, filter.PageSize)
}

// Search 大小写不敏感的子串搜索，OR 跨 name/description/brand/color/size
// 数组列经 CAST 成文本参与匹配，Postgres 与 sqlite（测试）行为一致
func (r *productRepo) Search(ctx context.Context, keyword string, page, pageSize int) ([]model.Product, int64, error) {
	kw := "%" + strings.ToLower(keyword) + "%"
	query := r.db.WithContext(ctx).Model(&model.Product{}).Where(
		"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(CAST(brands AS TEXT)) LIKE ? OR LOWER(CAST(colors AS TEXT)) LIKE ? OR LOWER(CAST(sizes AS TEXT)) LIKE ?",
		kw, kw, kw, kw, kw,
	)
	return r.paginate(query, page, pageSize)
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID int64, page, pageSize int) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).Where(
		"category_id = ? OR id IN (SELECT product_id FROM product_extra_categories WHERE category_id = ?)",
		categoryID, categoryID,
	)
	return r.paginate(query, page, pageSize)
}

// ListBySubCategory 子分类标签大小写不敏感精确匹配（Postgres unnest）
func (r *productRepo) ListBySubCategory(ctx context.Context, label string, page, pageSize int) ([]model.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{}).Where(
		"EXISTS (SELECT 1 FROM unnest(sub_categories) AS s WHERE LOWER(s) = LOWER(?))", label,
	)
	return r.paginate(query, page, pageSize)
}

func (r *productRepo) Related(ctx context.Context, categoryID, excludeID int64, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Where("category_id = ? AND id != ?", categoryID, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ==================== 图片 ====================

func (r *productRepo) AddPhoto(ctx context.Context, photo *model.ProductPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *productRepo) GetPhotos(ctx context.Context, productID int64) ([]model.ProductPhoto, error) {
	var photos []model.ProductPhoto
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("rank ASC").
		Find(&photos).Error
	return photos, err
}

func (r *productRepo) UpdatePhoto(ctx context.Context, photo *model.ProductPhoto) error {
	return r.db.WithContext(ctx).Save(photo).Error
}

func (r *productRepo) DeletePhotosByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductPhoto{}).Error
}

// ==================== 变体 ====================

// ReplaceVariants 全量替换变体行
func (r *productRepo) ReplaceVariants(ctx context.Context, productID int64, variants []model.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductVariant{}).Error; err != nil {
			return err
		}
		if len(variants) == 0 {
			return nil
		}
		for i := range variants {
			variants[i].ProductID = productID
		}
		return tx.Create(&variants).Error
	})
}
