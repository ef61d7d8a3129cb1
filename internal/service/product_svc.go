package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/pkg/logger"
	"bdshop_dev_v1_202608/pkg/utils"
)

// 相关商品的数量上限与缓存时长
const (
	relatedLimit    = 3
	relatedCacheTTL = 5 * time.Minute
)

// ==================== ProductService ====================

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	storage      *StorageService
}

// NewProductService 创建商品服务
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	storage *StorageService,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
	}
}

// ==================== 写操作（后台） ====================

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, req *dto.SaveProductRequest, photos []*utils.UploadedFile) (*dto.ProductVO, error) {
	if len(photos) > model.MaxProductPhotos {
		return nil, ErrTooManyPhotos
	}
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		return nil, fmt.Errorf("主分类不存在: %w", ErrBadRequest)
	}

	slug, err := s.uniqueSlug(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = model.ProductKindSimple
	}
	if kind != model.ProductKindSimple && kind != model.ProductKindVariant {
		return nil, ErrBadRequest
	}

	product := &model.Product{
		Name:          req.Name,
		Slug:          slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		CategoryID:    req.CategoryID,
		SubCategories: ParseLabelList(req.SubCategories),
		Brands:        ParseLabelList(req.Brands),
		Colors:        ParseLabelList(req.Colors),
		Sizes:         ParseLabelList(req.Sizes),
		Kind:          kind,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if ids := ParseIDList(req.ExtraCategoryIDs); len(ids) > 0 {
		categories, err := s.categoryRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceExtraCategories(ctx, product, categories); err != nil {
			return nil, err
		}
	}

	for i, photo := range photos {
		url, key, err := s.storage.UploadStaged(ctx, photo)
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.AddPhoto(ctx, &model.ProductPhoto{
			ProductID:  product.ID,
			URL:        url,
			StorageKey: key,
			Rank:       i,
		}); err != nil {
			return nil, err
		}
	}

	return s.getVO(ctx, product.ID)
}

// Update 更新商品
// 图片语义：带 photo_index 时按序号替换，否则追加（受 5 张上限约束）
func (s *ProductService) Update(ctx context.Context, id int64, req *dto.SaveProductRequest, photos []*utils.UploadedFile) (*dto.ProductVO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if req.Name != "" && req.Name != product.Name {
		slug, err := s.uniqueSlug(ctx, req.Name, id)
		if err != nil {
			return nil, err
		}
		product.Name = req.Name
		product.Slug = slug
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price > 0 {
		product.Price = req.Price
	}
	product.DiscountPrice = req.DiscountPrice
	if req.CategoryID > 0 {
		if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			return nil, fmt.Errorf("主分类不存在: %w", ErrBadRequest)
		}
		product.CategoryID = req.CategoryID
	}
	if req.SubCategories != "" {
		product.SubCategories = ParseLabelList(req.SubCategories)
	}
	if req.Brands != "" {
		product.Brands = ParseLabelList(req.Brands)
	}
	if req.Colors != "" {
		product.Colors = ParseLabelList(req.Colors)
	}
	if req.Sizes != "" {
		product.Sizes = ParseLabelList(req.Sizes)
	}
	if req.Kind != "" {
		if req.Kind != model.ProductKindSimple && req.Kind != model.ProductKindVariant {
			return nil, ErrBadRequest
		}
		product.Kind = req.Kind
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	if req.ExtraCategoryIDs != "" {
		categories, err := s.categoryRepo.GetByIDs(ctx, ParseIDList(req.ExtraCategoryIDs))
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ReplaceExtraCategories(ctx, product, categories); err != nil {
			return nil, err
		}
	}

	if len(photos) > 0 {
		if err := s.applyPhotoUpdate(ctx, product, req.PhotoIndex, photos); err != nil {
			return nil, err
		}
	}

	utils.DeleteCache(relatedCacheKey(product.ID))
	return s.getVO(ctx, id)
}

// applyPhotoUpdate 替换或追加商品图
func (s *ProductService) applyPhotoUpdate(ctx context.Context, product *model.Product, photoIndex *int, photos []*utils.UploadedFile) error {
	existing, err := s.productRepo.GetPhotos(ctx, product.ID)
	if err != nil {
		return err
	}

	if photoIndex != nil {
		// 按序号替换，一次只替换一张
		idx := *photoIndex
		if idx < 0 || idx >= len(existing) {
			return ErrPhotoIndexInvalid
		}
		url, key, err := s.storage.UploadStaged(ctx, photos[0])
		if err != nil {
			return err
		}
		old := existing[idx]
		if old.StorageKey != "" {
			if err := s.storage.Delete(ctx, old.StorageKey); err != nil {
				logger.L().Warnw("回收旧商品图失败", "key", old.StorageKey, "err", err)
			}
		}
		old.URL = url
		old.StorageKey = key
		return s.productRepo.UpdatePhoto(ctx, &old)
	}

	// 追加
	if len(existing)+len(photos) > model.MaxProductPhotos {
		return ErrTooManyPhotos
	}
	for i, photo := range photos {
		url, key, err := s.storage.UploadStaged(ctx, photo)
		if err != nil {
			return err
		}
		if err := s.productRepo.AddPhoto(ctx, &model.ProductPhoto{
			ProductID:  product.ID,
			URL:        url,
			StorageKey: key,
			Rank:       len(existing) + i,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Delete 硬删除商品，存储对象尽力回收
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	photos, err := s.productRepo.GetPhotos(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.HardDelete(ctx, id); err != nil {
		return err
	}

	for _, p := range photos {
		if p.StorageKey == "" {
			continue
		}
		if err := s.storage.Delete(ctx, p.StorageKey); err != nil {
			logger.L().Warnw("回收商品图失败", "key", p.StorageKey, "err", err)
		}
	}

	utils.DeleteCache(relatedCacheKey(id))
	return nil
}

// ReplaceVariants 全量替换变体（variant 形态商品）
func (s *ProductService) ReplaceVariants(ctx context.Context, productID int64, variants []model.ProductVariant) error {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return ErrNotFound
	}
	return s.productRepo.ReplaceVariants(ctx, productID, variants)
}

// ==================== 读操作（公开投影） ====================

// List 分页列表，最新优先
func (s *ProductService) List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.List(ctx, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("查询商品列表失败: %w", err)
	}
	return buildListResponse(products, total, req.Page, req.Limit), nil
}

// GetBySlug 按 slug 查详情
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*dto.ProductVO, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, ErrNotFound
	}
	vo := NormalizeProduct(product)
	return &vo, nil
}

// Search 全文搜索
func (s *ProductService) Search(ctx context.Context, req *dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.Search(ctx, req.Keyword, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("搜索失败: %w", err)
	}
	return buildListResponse(products, total, req.Page, req.Limit), nil
}

// Filter 条件筛选
func (s *ProductService) Filter(ctx context.Context, req *dto.FilterProductsRequest) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.Filter(ctx, repository.ProductFilter{
		CategoryIDs: req.CategoryIDs,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		Page:        req.Page,
		PageSize:    req.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("筛选失败: %w", err)
	}
	return buildListResponse(products, total, req.Page, req.Limit), nil
}

// ListByCategorySlug 按分类 slug 查商品
func (s *ProductService) ListByCategorySlug(ctx context.Context, slug string, page, limit int) (*dto.ProductListResponse, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, ErrNotFound
	}
	products, total, err := s.productRepo.ListByCategory(ctx, category.ID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("查询分类商品失败: %w", err)
	}
	return buildListResponse(products, total, page, limit), nil
}

// ListBySubCategory 按子分类标签查商品（大小写不敏感精确匹配）
func (s *ProductService) ListBySubCategory(ctx context.Context, label string, page, limit int) (*dto.ProductListResponse, error) {
	products, total, err := s.productRepo.ListBySubCategory(ctx, label, page, limit)
	if err != nil {
		return nil, fmt.Errorf("查询子分类商品失败: %w", err)
	}
	return buildListResponse(products, total, page, limit), nil
}

// Related 相关商品：同主分类、排除自身、至多 3 件，短 TTL 缓存
func (s *ProductService) Related(ctx context.Context, productID int64) ([]dto.ProductListItem, error) {
	if cached, ok := utils.GetCache(relatedCacheKey(productID)); ok {
		return cached.([]dto.ProductListItem), nil
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, ErrNotFound
	}

	related, err := s.productRepo.Related(ctx, product.CategoryID, productID, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("查询相关商品失败: %w", err)
	}

	list := make([]dto.ProductListItem, len(related))
	for i := range related {
		list[i] = toListItem(&related[i])
	}
	utils.SetCache(relatedCacheKey(productID), list, relatedCacheTTL)
	return list, nil
}

// ==================== 形态归一 ====================

// NormalizeProduct 把 simple/variant 两种形态归一成一个规范视图
// simple: 直接输出平铺标签
// variant: 属性标签从变体行反推，价格取变体区间最低生效价
func NormalizeProduct(p *model.Product) dto.ProductVO {
	vo := dto.ProductVO{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Kind:           p.Kind,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: p.UnitPrice(),
		CategoryID:     p.CategoryID,
		SubCategories:  p.SubCategories,
		Brands:         p.Brands,
		Colors:         p.Colors,
		Sizes:          p.Sizes,
		AverageRating:  p.AverageRating,
		ReviewCount:    len(p.Reviews),
		CreatedAt:      p.CreatedAt,
	}
	if p.Category != nil {
		vo.CategoryName = p.Category.Name
	}
	for _, c := range p.ExtraCategories {
		vo.ExtraCategoryIDs = append(vo.ExtraCategoryIDs, c.ID)
	}
	for _, photo := range p.Photos {
		vo.Photos = append(vo.Photos, dto.PhotoVO{URL: photo.URL, Rank: photo.Rank})
	}

	if p.Kind != model.ProductKindVariant || len(p.Variants) == 0 {
		return vo
	}

	// variant 形态：标签集合与最低价从变体行推导
	brands := map[string]bool{}
	colors := map[string]bool{}
	sizes := map[string]bool{}
	lowest := int64(0)

	for i := range p.Variants {
		v := &p.Variants[i]
		props := make(map[string]string, len(v.Properties))
		for k := range v.Properties {
			props[k] = v.PropertyValue(k)
		}
		vo.Variants = append(vo.Variants, dto.VariantVO{
			ID:         v.ID,
			Properties: props,
			Price:      v.UnitPrice(p),
			Stock:      v.Stock,
			PhotoURL:   v.PhotoURL,
		})

		if b := v.PropertyValue("brand"); b != "" {
			brands[b] = true
		}
		if c := v.PropertyValue("color"); c != "" {
			colors[c] = true
		}
		if sz := v.PropertyValue("size"); sz != "" {
			sizes[sz] = true
		}
		if price := v.UnitPrice(p); lowest == 0 || price < lowest {
			lowest = price
		}
	}

	vo.Brands = mergeLabels(vo.Brands, brands)
	vo.Colors = mergeLabels(vo.Colors, colors)
	vo.Sizes = mergeLabels(vo.Sizes, sizes)
	if lowest > 0 {
		vo.EffectivePrice = lowest
	}
	return vo
}

func mergeLabels(existing []string, extra map[string]bool) []string {
	for _, l := range existing {
		delete(extra, l)
	}
	out := existing
	for l := range extra {
		out = append(out, l)
	}
	return out
}

// ==================== 辅助 ====================

func (s *ProductService) uniqueSlug(ctx context.Context, name string, excludeID int64) (string, error) {
	return disambiguateSlug(ctx, utils.Slugify(name), excludeID, s.productRepo.SlugExists)
}

func (s *ProductService) getVO(ctx context.Context, id int64) (*dto.ProductVO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	vo := NormalizeProduct(product)
	return &vo, nil
}

func relatedCacheKey(productID int64) string {
	return fmt.Sprintf("related:%d", productID)
}

// ParseIDList 解析 ID 列表，兼容 "[2,5]" 与 "2,5"
func ParseIDList(raw string) []int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var ids []int64
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			return ids
		}
		return nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func toListItem(p *model.Product) dto.ProductListItem {
	item := dto.ProductListItem{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: p.UnitPrice(),
		AverageRating:  p.AverageRating,
	}
	if len(p.Photos) > 0 {
		item.PhotoURL = p.Photos[0].URL
	}
	return item
}

func buildListResponse(products []model.Product, total int64, page, limit int) *dto.ProductListResponse {
	list := make([]dto.ProductListItem, len(products))
	for i := range products {
		list[i] = toListItem(&products[i])
	}
	return &dto.ProductListResponse{
		Meta: dto.NewPageMeta(total, page, limit),
		List: list,
	}
}
