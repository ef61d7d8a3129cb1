package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bdshop_dev_v1_202608/internal/model"
)

// ==================== 测试辅助 ====================

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Category{}, &model.Product{}, &model.ProductPhoto{}, &model.ProductVariant{},
		&model.Review{},
		&model.Order{}, &model.OrderItem{}, &model.CartItem{},
	)
	if err != nil {
		t.Fatalf("迁移测试表失败: %v", err)
	}
	return db
}

func newTestStorage(t *testing.T) *StorageService {
	t.Helper()

	storage, err := NewStorageService(&StorageConfig{
		Provider:  "local",
		LocalDir:  t.TempDir(),
		LocalBase: "http://test.local/uploads",
		BasePath:  "bdshop-test",
	})
	if err != nil {
		t.Fatalf("初始化测试存储失败: %v", err)
	}
	return storage
}
