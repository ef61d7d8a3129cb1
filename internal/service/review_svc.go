package service

import (
	"context"
	"math"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
)

// ==================== ReviewService ====================

// ReviewService 评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReviewService 创建评价服务
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// ==================== 提交评价 ====================

// Submit 提交/更新评价
// 同一用户同一商品至多一条：已有则原地覆盖星级与内容
// 写入与均分重算在同一事务内，避免并发提交把对方的重算覆盖掉
func (s *ReviewService) Submit(ctx context.Context, productID, userID int64, req *dto.SubmitReviewRequest) (*dto.ReviewVO, error) {
	if !model.ValidStars(req.Stars) {
		return nil, ErrBadStars
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}

	var result *model.Review
	err = s.reviewRepo.Transaction(ctx, func(txRepo repository.ReviewRepository) error {
		review, err := txRepo.GetByProductAndUser(ctx, productID, userID)
		if err != nil {
			return err
		}

		if review == nil {
			review = &model.Review{
				ProductID: productID,
				UserID:    userID,
				// 昵称快照：之后改名不回溯
				UserName: user.Name,
			}
		}
		review.Stars = req.Stars
		review.Comment = req.Comment

		if err := txRepo.Save(ctx, review); err != nil {
			return err
		}

		if err := recomputeAverage(ctx, txRepo, productID); err != nil {
			return err
		}

		result = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	vo := toReviewVO(result)
	return &vo, nil
}

// recomputeAverage 同步重算均分缓存
func recomputeAverage(ctx context.Context, repo repository.ReviewRepository, productID int64) error {
	avg, count, err := repo.AverageStars(ctx, productID)
	if err != nil {
		return err
	}
	if count == 0 {
		avg = 0
	}
	return repo.SetProductAverageRating(ctx, productID, RoundRating(avg))
}

// RoundRating 均分保留 1 位小数
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

// ==================== 查询 ====================

// ListByProduct 商品评价列表（公开）
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64) (*dto.ProductReviewsResponse, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, ErrNotFound
	}

	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	list := make([]dto.ReviewVO, len(reviews))
	for i := range reviews {
		list[i] = toReviewVO(&reviews[i])
	}
	return &dto.ProductReviewsResponse{
		AverageRating: product.AverageRating,
		Count:         len(list),
		List:          list,
	}, nil
}

// ==================== 管理员回复 ====================

// Reply 管理员对某条评价附加回复；不影响均分
func (s *ReviewService) Reply(ctx context.Context, reviewID int64, req *dto.ReplyReviewRequest) (*dto.ReviewVO, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, ErrNotFound
	}

	review.AdminReply = req.Reply
	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}

	vo := toReviewVO(review)
	return &vo, nil
}

func toReviewVO(r *model.Review) dto.ReviewVO {
	return dto.ReviewVO{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		Stars:      r.Stars,
		Comment:    r.Comment,
		AdminReply: r.AdminReply,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
