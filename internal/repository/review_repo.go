package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ReviewRepository 评价仓储接口
// 写入与均分重算必须走 Transaction，避免并发提交互相覆盖
type ReviewRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	GetByProductAndUser(ctx context.Context, productID, userID int64) (*model.Review, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Review, error)
	Save(ctx context.Context, review *model.Review) error
	AverageStars(ctx context.Context, productID int64) (float64, int64, error)
	SetProductAverageRating(ctx context.Context, productID int64, rating float64) error

	WithTx(tx *gorm.DB) ReviewRepository
	Transaction(ctx context.Context, fn func(txRepo ReviewRepository) error) error
}

// ==================== 仓储实现 ====================

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByProductAndUser 未命中返回 (nil, nil)，由调用方决定插入还是覆盖
func (r *reviewRepo) GetByProductAndUser(ctx context.Context, productID, userID int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepo) Save(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// AverageStars 由数据库聚合均值与条数，空列表返回 (0, 0)
func (r *reviewRepo) AverageStars(ctx context.Context, productID int64) (float64, int64, error) {
	type row struct {
		Avg   *float64
		Count int64
	}
	var res row
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("AVG(stars) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&res).Error
	if err != nil {
		return 0, 0, err
	}
	if res.Avg == nil {
		return 0, 0, nil
	}
	return *res.Avg, res.Count, nil
}

func (r *reviewRepo) SetProductAverageRating(ctx context.Context, productID int64, rating float64) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("average_rating", rating).Error
}

func (r *reviewRepo) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepo{db: tx}
}

func (r *reviewRepo) Transaction(ctx context.Context, fn func(txRepo ReviewRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}
