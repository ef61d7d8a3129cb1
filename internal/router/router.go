package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"bdshop_dev_v1_202608/internal/controller"
	"bdshop_dev_v1_202608/internal/middleware"
)

// Controllers 路由依赖的全部控制器
type Controllers struct {
	Auth     *controller.AuthController
	Category *controller.CategoryController
	Product  *controller.ProductController
	Cart     *controller.CartController
	Order    *controller.OrderController
	Review   *controller.ReviewController
}

// SetupRouter 创建引擎并挂载全部路由
// localUploadDir 非空时把本地存储目录暴露为 /uploads 静态路径
func SetupRouter(mode string, c *Controllers, localUploadDir string) *gin.Engine {
	gin.SetMode(mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if localUploadDir != "" {
		r.Static("/uploads", localUploadDir)
	}

	InitRoutes(r, c)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, c *Controllers) {
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			// 注册/登录带同 IP 冷却，挡脚本爆破
			auth.POST("/register", middleware.AuthCooldown(3*time.Second), c.Auth.Register)
			auth.POST("/login", middleware.AuthCooldown(3*time.Second), c.Auth.Login)
			auth.POST("/social-login", c.Auth.SocialLogin)
			auth.POST("/refresh", c.Auth.RefreshToken)
		}

		// 公开目录
		categories := api.Group("/categories")
		{
			categories.GET("", c.Category.List)
			categories.GET("/:slug", c.Category.GetBySlug)
			categories.GET("/:slug/products", c.Product.ListByCategory)
		}
		products := api.Group("/products")
		{
			products.GET("", c.Product.List)
			products.GET("/search", c.Product.Search)
			products.GET("/filter", c.Product.Filter)
			products.GET("/sub-category/:label", c.Product.ListBySubCategory)
			products.GET("/:slug", c.Product.GetBySlug)
			products.GET("/id/:id/related", c.Product.Related)
			products.GET("/id/:id/reviews", c.Review.ListByProduct)
		}

		// 登录买家
		me := api.Group("", middleware.JWTAuth())
		{
			me.GET("/profile", c.Auth.GetProfile)
			me.PUT("/profile", c.Auth.UpdateProfile)

			cart := me.Group("/cart")
			{
				cart.GET("", c.Cart.Get)
				cart.POST("/items", c.Cart.Add)
				cart.PUT("/items/:id", c.Cart.UpdateQuantity)
				cart.DELETE("/items/:id", c.Cart.Remove)
				cart.DELETE("", c.Cart.Clear)
			}

			me.POST("/orders", c.Order.Checkout)
			me.GET("/orders", c.Order.ListMine)
			me.GET("/orders/:id", c.Order.GetMine)

			me.POST("/products/id/:id/reviews", c.Review.Submit)
		}

		// 后台管理
		admin := api.Group("/admin",
			middleware.JWTAuth(), middleware.RequireAdmin(), middleware.AuditContext())
		{
			admin.POST("/categories", c.Category.Create)
			admin.PUT("/categories/:id", c.Category.Update)
			admin.DELETE("/categories/:id", c.Category.Delete)

			admin.POST("/products", c.Product.Create)
			admin.PUT("/products/:id", c.Product.Update)
			admin.DELETE("/products/:id", c.Product.Delete)
			admin.PUT("/products/:id/variants", c.Product.ReplaceVariants)

			admin.GET("/orders", c.Order.List)
			admin.GET("/orders/stats", c.Order.Stats)
			admin.GET("/orders/:id", c.Order.Get)
			admin.PUT("/orders/:id/status", c.Order.UpdateStatus)

			admin.PUT("/reviews/:id/reply", c.Review.Reply)
		}
	}
}
