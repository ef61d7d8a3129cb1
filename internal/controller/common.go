package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bdshop_dev_v1_202608/internal/service"
)

// respondError 哨兵错误统一映射 HTTP 状态码
// 非哨兵错误一律 500，细节不外泄
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrSocialTokenInvalid):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrCategoryNameTaken):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrBadRequest),
		errors.Is(err, service.ErrUnknownProvider),
		errors.Is(err, service.ErrTooManyPhotos),
		errors.Is(err, service.ErrPhotoIndexInvalid),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrBadPaymentMethod),
		errors.Is(err, service.ErrProofRequired),
		errors.Is(err, service.ErrBadOrderStatus),
		errors.Is(err, service.ErrBadPaymentStatus),
		errors.Is(err, service.ErrNoStatusField),
		errors.Is(err, service.ErrBadStars):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误"})
	}
}

// pathID 解析路径上的数字 ID
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "无效的ID"})
		return 0, false
	}
	return id, true
}

// pageParams 分页参数兜底
func pageParams(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit
}
