package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/middleware"
	"bdshop_dev_v1_202608/internal/service"
)

type ReviewController struct {
	reviewSvc *service.ReviewService
}

func NewReviewController(reviewSvc *service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewSvc: reviewSvc,
	}
}

// ListByProduct 商品评价列表（公开）
func (c *ReviewController) ListByProduct(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.reviewSvc.ListByProduct(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Submit 提交/覆盖评价（登录买家）
func (c *ReviewController) Submit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	vo, err := c.reviewSvc.Submit(ctx.Request.Context(), id, middleware.GetUserID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// Reply 管理员回复评价
func (c *ReviewController) Reply(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReplyReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	vo, err := c.reviewSvc.Reply(ctx.Request.Context(), id, &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}
