package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/middleware"
	"bdshop_dev_v1_202608/internal/service"
)

type CartController struct {
	cartSvc *service.CartService
}

func NewCartController(cartSvc *service.CartService) *CartController {
	return &CartController{
		cartSvc: cartSvc,
	}
}

// Get 当前用户购物车
func (c *CartController) Get(ctx *gin.Context) {
	vo, err := c.cartSvc.Get(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// Add 加入购物车
func (c *CartController) Add(ctx *gin.Context) {
	var req dto.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := c.cartSvc.Add(ctx.Request.Context(), middleware.GetUserID(ctx), &req); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "已加入购物车"})
}

// UpdateQuantity 修改条目数量
func (c *CartController) UpdateQuantity(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := c.cartSvc.UpdateQuantity(ctx.Request.Context(), middleware.GetUserID(ctx), id, req.Quantity); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// Remove 删除条目
func (c *CartController) Remove(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.cartSvc.Remove(ctx.Request.Context(), middleware.GetUserID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// Clear 清空购物车
func (c *CartController) Clear(ctx *gin.Context) {
	if err := c.cartSvc.Clear(ctx.Request.Context(), middleware.GetUserID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "已清空"})
}
