package service

import "errors"

// 服务层哨兵错误
// 控制器据此映射 4xx/5xx，不把底层错误原样回给客户端
var (
	// 认证
	ErrInvalidCredentials = errors.New("邮箱或密码不正确")
	ErrEmailTaken         = errors.New("邮箱已被注册")
	ErrInvalidToken       = errors.New("token 无效或已过期")
	ErrUnknownProvider    = errors.New("不支持的登录平台")
	ErrSocialTokenInvalid = errors.New("社交平台凭证校验失败")

	// 通用
	ErrNotFound   = errors.New("记录不存在")
	ErrBadRequest = errors.New("请求参数不合法")

	// 目录
	ErrCategoryNameTaken = errors.New("分类名称已存在")
	ErrTooManyPhotos     = errors.New("商品图片超过上限")
	ErrPhotoIndexInvalid = errors.New("图片序号不存在")

	// 订单
	ErrEmptyCart          = errors.New("购物车为空")
	ErrInvalidQuantity    = errors.New("数量必须大于 0")
	ErrBadPaymentMethod   = errors.New("不支持的支付方式")
	ErrProofRequired      = errors.New("该支付方式需要上传付款凭证")
	ErrBadOrderStatus     = errors.New("订单状态不合法")
	ErrBadPaymentStatus   = errors.New("支付状态不合法")
	ErrNoStatusField      = errors.New("至少提供一个状态字段")

	// 评价
	ErrBadStars = errors.New("星级必须在 1-5 之间")
)
