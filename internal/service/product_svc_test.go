package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/pkg/utils"
)

func setupProductTest(t *testing.T) (*ProductService, *gorm.DB) {
	db := setupTestDB(t)

	svc := NewProductService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		newTestStorage(t),
	)
	return svc, db
}

func seedCategory(t *testing.T, db *gorm.DB) *model.Category {
	t.Helper()
	category := &model.Category{Name: "Men", Slug: "men", SubCategories: []string{"Shirts", "Panjabi"}}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("创建测试分类失败: %v", err)
	}
	return category
}

// ==================== 创建 ====================

// 同名创建不得静默覆盖，slug 追加序号
func TestProductService_Create_SlugDisambiguation(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	req := &dto.SaveProductRequest{Name: "Blue Shirt", Price: 500, CategoryID: category.ID}

	first, err := svc.Create(ctx, req, nil)
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	second, err := svc.Create(ctx, req, nil)
	if err != nil {
		t.Fatalf("同名创建失败: %v", err)
	}
	third, err := svc.Create(ctx, req, nil)
	if err != nil {
		t.Fatalf("同名创建失败: %v", err)
	}

	if first.Slug != "blue-shirt" || second.Slug != "blue-shirt-2" || third.Slug != "blue-shirt-3" {
		t.Errorf("slugs = %q %q %q", first.Slug, second.Slug, third.Slug)
	}
	if first.ID == second.ID {
		t.Error("同名创建覆盖了旧记录")
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	// 分类不存在
	_, err := svc.Create(ctx, &dto.SaveProductRequest{Name: "X", Price: 100, CategoryID: 999}, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}

	// 图片超上限
	photos := make([]*utils.UploadedFile, model.MaxProductPhotos+1)
	for i := range photos {
		photos[i] = &utils.UploadedFile{Data: []byte("x"), Filename: "a.jpg", ContentType: "image/jpeg"}
	}
	_, err = svc.Create(ctx, &dto.SaveProductRequest{Name: "X", Price: 100, CategoryID: category.ID}, photos)
	if !errors.Is(err, ErrTooManyPhotos) {
		t.Errorf("err = %v, want ErrTooManyPhotos", err)
	}

	// 未知形态
	_, err = svc.Create(ctx, &dto.SaveProductRequest{Name: "X", Price: 100, CategoryID: category.ID, Kind: "bundle"}, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

func TestProductService_Create_Labels(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)

	vo, err := svc.Create(context.Background(), &dto.SaveProductRequest{
		Name: "Polo", Price: 650, CategoryID: category.ID,
		Brands:        `["Aarong","Richman"]`,
		Colors:        "Red, Blue",
		SubCategories: "Shirts",
	}, nil)
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if len(vo.Brands) != 2 || vo.Brands[0] != "Aarong" {
		t.Errorf("brands = %v", vo.Brands)
	}
	if len(vo.Colors) != 2 || vo.Colors[1] != "Blue" {
		t.Errorf("colors = %v", vo.Colors)
	}
}

// ==================== 更新 / 删除 ====================

func TestProductService_Update_RenameRegeneratesSlug(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	vo, err := svc.Create(ctx, &dto.SaveProductRequest{Name: "Old Name", Price: 100, CategoryID: category.ID}, nil)
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	updated, err := svc.Update(ctx, vo.ID, &dto.SaveProductRequest{Name: "New Name", Price: 100, CategoryID: category.ID}, nil)
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("slug = %q, want new-name", updated.Slug)
	}

	// 旧 slug 查不到，新 slug 可查
	if _, err := svc.GetBySlug(ctx, "old-name"); !errors.Is(err, ErrNotFound) {
		t.Errorf("旧 slug 仍可访问: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, "new-name"); err != nil {
		t.Errorf("新 slug 查询失败: %v", err)
	}
}

func TestProductService_Delete_Cascades(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	vo, err := svc.Create(ctx, &dto.SaveProductRequest{Name: "Doomed", Price: 100, CategoryID: category.ID}, nil)
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	db.Create(&model.Review{ProductID: vo.ID, UserID: 1, UserName: "U", Stars: 5})
	db.Create(&model.ProductVariant{ProductID: vo.ID, Properties: datatypes.JSONMap{"size": "M"}})

	if err := svc.Delete(ctx, vo.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	var reviews, variants int64
	db.Model(&model.Review{}).Where("product_id = ?", vo.ID).Count(&reviews)
	db.Model(&model.ProductVariant{}).Where("product_id = ?", vo.ID).Count(&variants)
	if reviews != 0 || variants != 0 {
		t.Errorf("残留 reviews=%d variants=%d", reviews, variants)
	}
	if _, err := svc.GetBySlug(ctx, vo.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除后仍可查到: %v", err)
	}
}

// ==================== 查询 ====================

func TestProductService_Search_CaseInsensitive(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	svc.Create(ctx, &dto.SaveProductRequest{Name: "Cotton Shirt", Price: 400, CategoryID: category.ID, Brands: "Aarong"}, nil)
	svc.Create(ctx, &dto.SaveProductRequest{Name: "Silk Saree", Price: 2500, CategoryID: category.ID}, nil)

	resp, err := svc.Search(ctx, &dto.SearchProductsRequest{Keyword: "SHIRT", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if resp.Meta.Total != 1 || resp.List[0].Name != "Cotton Shirt" {
		t.Errorf("搜索结果 = %+v", resp.List)
	}

	// 品牌标签也参与匹配
	resp, err = svc.Search(ctx, &dto.SearchProductsRequest{Keyword: "aarong", Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("搜索失败: %v", err)
	}
	if resp.Meta.Total != 1 {
		t.Errorf("品牌搜索 total = %d, want 1", resp.Meta.Total)
	}
}

func TestProductService_List_Pagination(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, &dto.SaveProductRequest{
			Name: fmt.Sprintf("Item %d", i), Price: 100, CategoryID: category.ID,
		}, nil); err != nil {
			t.Fatalf("创建失败: %v", err)
		}
	}

	resp, err := svc.List(ctx, &dto.ListProductsRequest{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Meta.Total != 5 || resp.Meta.TotalPages != 3 || len(resp.List) != 2 {
		t.Errorf("meta = %+v len = %d", resp.Meta, len(resp.List))
	}

	// 末页只剩 1 条
	resp, _ = svc.List(ctx, &dto.ListProductsRequest{Page: 3, Limit: 2})
	if len(resp.List) != 1 {
		t.Errorf("末页 len = %d, want 1", len(resp.List))
	}

	// 越界页为空但 meta 不变
	resp, _ = svc.List(ctx, &dto.ListProductsRequest{Page: 9, Limit: 2})
	if len(resp.List) != 0 || resp.Meta.Total != 5 {
		t.Errorf("越界页 len = %d total = %d", len(resp.List), resp.Meta.Total)
	}
}

// 价格筛选基于生效价（有折扣按折后价算）
func TestProductService_Filter_EffectivePrice(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	svc.Create(ctx, &dto.SaveProductRequest{Name: "Cheap", Price: 100, CategoryID: category.ID}, nil)
	svc.Create(ctx, &dto.SaveProductRequest{Name: "Discounted", Price: 200, DiscountPrice: 120, CategoryID: category.ID}, nil)
	svc.Create(ctx, &dto.SaveProductRequest{Name: "Expensive", Price: 300, CategoryID: category.ID}, nil)

	max := int64(130)
	resp, err := svc.Filter(ctx, &dto.FilterProductsRequest{MaxPrice: &max, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("筛选失败: %v", err)
	}
	if resp.Meta.Total != 2 {
		t.Errorf("total = %d, want 2 (折后 120 应命中)", resp.Meta.Total)
	}
}

func TestProductService_ListByCategorySlug(t *testing.T) {
	svc, db := setupProductTest(t)
	category := seedCategory(t, db)
	ctx := context.Background()

	svc.Create(ctx, &dto.SaveProductRequest{Name: "In Cat", Price: 100, CategoryID: category.ID}, nil)

	resp, err := svc.ListByCategorySlug(ctx, "men", 1, 10)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if resp.Meta.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Meta.Total)
	}

	if _, err := svc.ListByCategorySlug(ctx, "missing", 1, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ==================== 形态归一 ====================

func TestNormalizeProduct_Variant(t *testing.T) {
	p := &model.Product{
		BaseModel: model.BaseModel{ID: 7},
		Name:      "Sneaker", Slug: "sneaker", Price: 2000, Kind: model.ProductKindVariant,
		Variants: []model.ProductVariant{
			{Properties: datatypes.JSONMap{"color": "Red", "size": "42"}, Price: 2200},
			{Properties: datatypes.JSONMap{"color": "Black", "size": "43"}, Price: 2400, DiscountPrice: 1900},
		},
	}

	vo := NormalizeProduct(p)

	if vo.Kind != model.ProductKindVariant || len(vo.Variants) != 2 {
		t.Fatalf("vo = %+v", vo)
	}
	// 标签从变体行反推
	if len(vo.Colors) != 2 || len(vo.Sizes) != 2 {
		t.Errorf("colors=%v sizes=%v", vo.Colors, vo.Sizes)
	}
	// 生效价取变体最低生效价
	if vo.EffectivePrice != 1900 {
		t.Errorf("effective_price = %d, want 1900", vo.EffectivePrice)
	}
}

func TestNormalizeProduct_Simple(t *testing.T) {
	p := &model.Product{
		Name: "Tee", Slug: "tee", Price: 300, DiscountPrice: 250,
		Kind: model.ProductKindSimple, Brands: []string{"A"},
	}

	vo := NormalizeProduct(p)
	if vo.EffectivePrice != 250 {
		t.Errorf("effective_price = %d, want 250", vo.EffectivePrice)
	}
	if len(vo.Brands) != 1 {
		t.Errorf("brands = %v", vo.Brands)
	}
}
