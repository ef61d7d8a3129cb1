package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/middleware"
	"bdshop_dev_v1_202608/internal/service"
	"bdshop_dev_v1_202608/pkg/utils"
)

type OrderController struct {
	orderSvc *service.OrderService
}

func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{
		orderSvc: orderSvc,
	}
}

// ==================== 买家 ====================

// Checkout 结算下单（multipart，付款凭证走 payment_proof 文件字段）
func (c *OrderController) Checkout(ctx *gin.Context) {
	var req dto.CreateOrderRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	var proof *utils.UploadedFile
	if fh, err := ctx.FormFile("payment_proof"); err == nil {
		proof, err = utils.ReadMultipartFile(fh)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "读取付款凭证失败"})
			return
		}
		if !utils.IsImageContentType(proof.ContentType) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "付款凭证只支持图片格式"})
			return
		}
	}

	vo, err := c.orderSvc.CreateOrder(ctx.Request.Context(),
		middleware.GetUserID(ctx), middleware.GetUserEmail(ctx), &req, proof)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"data": vo})
}

// ListMine 我的订单列表
func (c *OrderController) ListMine(ctx *gin.Context) {
	var req dto.ListMyOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	req.Page, req.Limit = pageParams(req.Page, req.Limit)

	resp, err := c.orderSvc.ListMyOrders(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetMine 我的订单详情
func (c *OrderController) GetMine(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	vo, err := c.orderSvc.GetMyOrder(ctx.Request.Context(), middleware.GetUserID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// ==================== 后台 ====================

// List 订单列表（支持状态/支付方式/邮箱筛选）
func (c *OrderController) List(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}
	req.Page, req.Limit = pageParams(req.Page, req.Limit)

	resp, err := c.orderSvc.ListOrders(ctx.Request.Context(), &req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Get 订单详情
func (c *OrderController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	vo, err := c.orderSvc.GetByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": vo})
}

// UpdateStatus 独立变更订单状态 / 支付状态
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := c.orderSvc.UpdateStatus(ctx.Request.Context(), id, &req); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// Stats 订单统计
func (c *OrderController) Stats(ctx *gin.Context) {
	stats, err := c.orderSvc.GetStats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"data": stats})
}
