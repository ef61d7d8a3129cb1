package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/config"
	"bdshop_dev_v1_202608/internal/controller"
	"bdshop_dev_v1_202608/internal/middleware"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/internal/router"
	"bdshop_dev_v1_202608/internal/service"
	"bdshop_dev_v1_202608/internal/task"
	"bdshop_dev_v1_202608/pkg/database"
	"bdshop_dev_v1_202608/pkg/logger"
)

func main() {
	// 1. 配置与日志
	cfg := config.Load()
	logger.Init(cfg.Server.Mode)
	defer logger.Sync()

	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTTL,
		Issuer:          cfg.JWT.Issuer,
	})

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg)

	// 4. 启动定时任务
	initTasks()

	// 5. 初始化路由
	localDir := ""
	if cfg.Storage.Provider == "local" {
		localDir = cfg.Storage.LocalDir
	}
	r := router.SetupRouter(cfg.Server.Mode, deps.Controllers, localDir)

	// 6. 启动服务
	startServer(r, cfg.Server.Port)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User     repository.UserRepository
	Category repository.CategoryRepository
	Product  repository.ProductRepository
	Review   repository.ReviewRepository
	Order    repository.OrderRepository
	Cart     repository.CartRepository
}

// Services 服务集合
type Services struct {
	Auth     *service.AuthService
	Category *service.CategoryService
	Product  *service.ProductService
	Cart     *service.CartService
	Order    *service.OrderService
	Review   *service.ReviewService
	Storage  *service.StorageService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	db := database.InitDB(cfg.Database.DSN,
		// 用户
		&model.User{},
		// 目录
		&model.Category{}, &model.Product{}, &model.ProductPhoto{}, &model.ProductVariant{},
		// 评价
		&model.Review{},
		// 交易
		&model.Order{}, &model.OrderItem{}, &model.CartItem{},
	)
	middleware.RegisterAuditCallbacks(db)
	return db
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	// -------- Repo 层 --------
	repos := &Repositories{
		User:     repository.NewUserRepository(db),
		Category: repository.NewCategoryRepository(db),
		Product:  repository.NewProductRepository(db),
		Review:   repository.NewReviewRepository(db),
		Order:    repository.NewOrderRepository(db),
		Cart:     repository.NewCartRepository(db),
	}

	// -------- 基础服务 --------
	storageSvc := initStorageService(cfg)
	verifier := service.NewSocialVerifier(service.SocialVerifierConfig{
		GoogleTokenInfoURL: cfg.Social.GoogleTokenInfoURL,
		FacebookGraphURL:   cfg.Social.FacebookGraphURL,
	})
	rates := service.ShippingRates{
		DhakaCityFee:    cfg.Shipping.DhakaCityFee,
		OutsideCityFee:  cfg.Shipping.OutsideCityFee,
		OutsideDhakaFee: cfg.Shipping.OutsideDhakaFee,
	}

	// -------- 业务服务 --------
	services := &Services{Storage: storageSvc}
	services.Auth = service.NewAuthService(repos.User, verifier)
	services.Category = service.NewCategoryService(repos.Category, storageSvc)
	services.Product = service.NewProductService(repos.Product, repos.Category, storageSvc)
	services.Cart = service.NewCartService(repos.Cart, repos.Product)
	services.Order = service.NewOrderService(repos.Order, repos.Product, repos.Cart, storageSvc, rates)
	services.Review = service.NewReviewService(repos.Review, repos.Product, repos.User)

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:     controller.NewAuthController(services.Auth),
		Category: controller.NewCategoryController(services.Category),
		Product:  controller.NewProductController(services.Product),
		Cart:     controller.NewCartController(services.Cart),
		Order:    controller.NewOrderController(services.Order),
		Review:   controller.NewReviewController(services.Review),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initStorageService 初始化存储服务
func initStorageService(cfg *config.Config) *service.StorageService {
	storageSvc, err := service.NewStorageService(&service.StorageConfig{
		Provider:  cfg.Storage.Provider,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		CDNDomain: cfg.Storage.CDNDomain,
		BasePath:  cfg.Storage.BasePath,
		LocalDir:  cfg.Storage.LocalDir,
		LocalBase: cfg.Storage.LocalBase,
	})
	if err != nil {
		logger.L().Fatalf("存储服务初始化失败: %v", err)
	}
	return storageSvc
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks() {
	cleanupTask := task.NewCleanupTask()
	cleanupTask.Start()

	logger.L().Info("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port int) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	// 异步启动服务
	go func() {
		logger.L().Infof("服务启动在 :%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Fatalf("服务强制关闭: %v", err)
	}

	logger.L().Info("服务已退出")
}
