package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/service"
	"bdshop_dev_v1_202608/pkg/utils"
)

type CategoryController struct {
	categorySvc *service.CategoryService
}

func NewCategoryController(categorySvc *service.CategoryService) *CategoryController {
	return &CategoryController{
		categorySvc: categorySvc,
	}
}

// List 分类列表（公开）
func (c *CategoryController) List(ctx *gin.Context) {
	list, err := c.categorySvc.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": list})
}

// GetBySlug 分类详情（公开）
func (c *CategoryController) GetBySlug(ctx *gin.Context) {
	vo, err := c.categorySvc.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// Create 创建分类（后台，multipart）
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.SaveCategoryRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	photo, ok := c.optionalPhoto(ctx)
	if !ok {
		return
	}

	vo, err := c.categorySvc.Create(ctx.Request.Context(), &req, photo)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// Update 更新分类（后台，multipart）
func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SaveCategoryRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	photo, ok := c.optionalPhoto(ctx)
	if !ok {
		return
	}

	vo, err := c.categorySvc.Update(ctx.Request.Context(), id, &req, photo)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// Delete 删除分类（后台）
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.categorySvc.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// optionalPhoto 读取可选的分类图字段，只收图片
func (c *CategoryController) optionalPhoto(ctx *gin.Context) (*utils.UploadedFile, bool) {
	fh, err := ctx.FormFile("photo")
	if err != nil {
		return nil, true // 没传图
	}

	photo, err := utils.ReadMultipartFile(fh)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "读取图片失败"})
		return nil, false
	}
	if !utils.IsImageContentType(photo.ContentType) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "分类图只支持图片格式"})
		return nil, false
	}
	return photo, true
}
