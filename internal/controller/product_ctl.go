package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/service"
	"bdshop_dev_v1_202608/pkg/utils"
)

type ProductController struct {
	productSvc *service.ProductService
}

func NewProductController(productSvc *service.ProductService) *ProductController {
	return &ProductController{
		productSvc: productSvc,
	}
}

// ==================== 公开查询 ====================

// List 商品列表
func (c *ProductController) List(ctx *gin.Context) {
	var req dto.ListProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	req.Page, req.Limit = pageParams(req.Page, req.Limit)

	resp, err := c.productSvc.List(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetBySlug 商品详情
func (c *ProductController) GetBySlug(ctx *gin.Context) {
	vo, err := c.productSvc.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// Search 关键词搜索
func (c *ProductController) Search(ctx *gin.Context) {
	var req dto.SearchProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	req.Page, req.Limit = pageParams(req.Page, req.Limit)

	resp, err := c.productSvc.Search(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Filter 条件筛选
func (c *ProductController) Filter(ctx *gin.Context) {
	var req dto.FilterProductsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	req.Page, req.Limit = pageParams(req.Page, req.Limit)

	resp, err := c.productSvc.Filter(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListByCategory 按分类 slug 列商品
func (c *ProductController) ListByCategory(ctx *gin.Context) {
	page, limit := pageParams(queryInt(ctx, "page"), queryInt(ctx, "limit"))

	resp, err := c.productSvc.ListByCategorySlug(ctx.Request.Context(), ctx.Param("slug"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// ListBySubCategory 按子分类标签列商品
func (c *ProductController) ListBySubCategory(ctx *gin.Context) {
	page, limit := pageParams(queryInt(ctx, "page"), queryInt(ctx, "limit"))

	resp, err := c.productSvc.ListBySubCategory(ctx.Request.Context(), ctx.Param("label"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Related 相关商品推荐
func (c *ProductController) Related(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	list, err := c.productSvc.Related(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": list})
}

// ==================== 后台写操作 ====================

// Create 创建商品（multipart，最多 5 张图）
func (c *ProductController) Create(ctx *gin.Context) {
	var req dto.SaveProductRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	photos, ok := c.formPhotos(ctx)
	if !ok {
		return
	}

	vo, err := c.productSvc.Create(ctx.Request.Context(), &req, photos)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// Update 更新商品（multipart）
func (c *ProductController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SaveProductRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	photos, ok := c.formPhotos(ctx)
	if !ok {
		return
	}

	vo, err := c.productSvc.Update(ctx.Request.Context(), id, &req, photos)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// Delete 删除商品（硬删除，连带图片/变体/评价）
func (c *ProductController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.productSvc.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// ReplaceVariants 整组替换变体
func (c *ProductController) ReplaceVariants(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReplaceVariantsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	variants := make([]model.ProductVariant, len(req.Variants))
	for i, v := range req.Variants {
		props := datatypes.JSONMap{}
		for k, val := range v.Properties {
			props[k] = val
		}
		variants[i] = model.ProductVariant{
			Properties:    props,
			Price:         v.Price,
			DiscountPrice: v.DiscountPrice,
			Stock:         v.Stock,
			PhotoURL:      v.PhotoURL,
		}
	}

	if err := c.productSvc.ReplaceVariants(ctx.Request.Context(), id, variants); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// ==================== 辅助 ====================

// formPhotos 读取 multipart 的 photos 文件字段，只收图片
func (c *ProductController) formPhotos(ctx *gin.Context) ([]*utils.UploadedFile, bool) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, true // 非 multipart 或没带文件
	}

	files := form.File["photos"]
	photos := make([]*utils.UploadedFile, 0, len(files))
	for _, fh := range files {
		photo, err := utils.ReadMultipartFile(fh)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "读取图片失败"})
			return nil, false
		}
		if !utils.IsImageContentType(photo.ContentType) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "商品图只支持图片格式"})
			return nil, false
		}
		photos = append(photos, photo)
	}
	return photos, true
}

func queryInt(ctx *gin.Context, name string) int {
	n, _ := strconv.Atoi(ctx.Query(name))
	return n
}
