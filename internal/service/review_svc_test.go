package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
)

func setupReviewTest(t *testing.T) (*ReviewService, *gorm.DB) {
	db := setupTestDB(t)

	svc := NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewProductRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func seedReviewFixtures(t *testing.T, db *gorm.DB) (*model.Product, *model.User, *model.User) {
	t.Helper()

	product := &model.Product{Name: "Panjabi", Slug: "panjabi", Price: 1200, CategoryID: 1}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}

	u1 := &model.User{Email: "rahim@example.com", Name: "Rahim", Role: model.UserRoleCustomer}
	u2 := &model.User{Email: "karim@example.com", Name: "Karim", Role: model.UserRoleCustomer}
	if err := db.Create(u1).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	if err := db.Create(u2).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return product, u1, u2
}

func TestReviewService_Submit(t *testing.T) {
	svc, db := setupReviewTest(t)
	product, u1, _ := seedReviewFixtures(t, db)
	ctx := context.Background()

	vo, err := svc.Submit(ctx, product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: 5, Comment: "চমৎকার"})
	if err != nil {
		t.Fatalf("提交评价失败: %v", err)
	}
	if vo.Stars != 5 || vo.UserName != "Rahim" {
		t.Errorf("vo = %+v, 星级或昵称快照不对", vo)
	}

	var p model.Product
	db.First(&p, product.ID)
	if p.AverageRating != 5.0 {
		t.Errorf("average_rating = %v, want 5.0", p.AverageRating)
	}
}

// 同一用户重复评价必须原地覆盖，不产生第二条
func TestReviewService_Submit_Overwrite(t *testing.T) {
	svc, db := setupReviewTest(t)
	product, u1, _ := seedReviewFixtures(t, db)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: 5, Comment: "first"}); err != nil {
		t.Fatalf("首次提交失败: %v", err)
	}
	if _, err := svc.Submit(ctx, product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: 2, Comment: "second"}); err != nil {
		t.Fatalf("覆盖提交失败: %v", err)
	}

	var count int64
	db.Model(&model.Review{}).Where("product_id = ?", product.ID).Count(&count)
	if count != 1 {
		t.Fatalf("评价条数 = %d, want 1", count)
	}

	var review model.Review
	db.Where("product_id = ? AND user_id = ?", product.ID, u1.ID).First(&review)
	if review.Stars != 2 || review.Comment != "second" {
		t.Errorf("review = %+v, 未覆盖", review)
	}

	var p model.Product
	db.First(&p, product.ID)
	if p.AverageRating != 2.0 {
		t.Errorf("average_rating = %v, want 2.0", p.AverageRating)
	}
}

// 均分保留 1 位小数
func TestReviewService_AverageRounding(t *testing.T) {
	svc, db := setupReviewTest(t)
	product, u1, u2 := seedReviewFixtures(t, db)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: 5}); err != nil {
		t.Fatalf("提交评价失败: %v", err)
	}
	if _, err := svc.Submit(ctx, product.ID, u2.ID, &dto.SubmitReviewRequest{Stars: 4}); err != nil {
		t.Fatalf("提交评价失败: %v", err)
	}

	var p model.Product
	db.First(&p, product.ID)
	if p.AverageRating != 4.5 {
		t.Errorf("average_rating = %v, want 4.5", p.AverageRating)
	}

	// 三人均分 4.333... → 4.3
	u3 := &model.User{Email: "salma@example.com", Name: "Salma", Role: model.UserRoleCustomer}
	db.Create(u3)
	if _, err := svc.Submit(ctx, product.ID, u3.ID, &dto.SubmitReviewRequest{Stars: 4}); err != nil {
		t.Fatalf("提交评价失败: %v", err)
	}
	db.First(&p, product.ID)
	if p.AverageRating != 4.3 {
		t.Errorf("average_rating = %v, want 4.3", p.AverageRating)
	}
}

func TestReviewService_Submit_BadStars(t *testing.T) {
	svc, db := setupReviewTest(t)
	product, u1, _ := seedReviewFixtures(t, db)

	for _, stars := range []int{0, 6, -1} {
		_, err := svc.Submit(context.Background(), product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: stars})
		if !errors.Is(err, ErrBadStars) {
			t.Errorf("stars=%d err = %v, want ErrBadStars", stars, err)
		}
	}
}

func TestReviewService_Submit_ProductMissing(t *testing.T) {
	svc, db := setupReviewTest(t)
	_, u1, _ := seedReviewFixtures(t, db)

	_, err := svc.Submit(context.Background(), 9999, u1.ID, &dto.SubmitReviewRequest{Stars: 4})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReviewService_ListByProduct(t *testing.T) {
	svc, db := setupReviewTest(t)
	product, u1, u2 := seedReviewFixtures(t, db)
	ctx := context.Background()

	svc.Submit(ctx, product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: 5, Comment: "good"})
	svc.Submit(ctx, product.ID, u2.ID, &dto.SubmitReviewRequest{Stars: 3})

	resp, err := svc.ListByProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("查询评价失败: %v", err)
	}
	if resp.Count != 2 || len(resp.List) != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if resp.AverageRating != 4.0 {
		t.Errorf("average = %v, want 4.0", resp.AverageRating)
	}
}

func TestReviewService_Reply(t *testing.T) {
	svc, db := setupReviewTest(t)
	product, u1, _ := seedReviewFixtures(t, db)
	ctx := context.Background()

	vo, err := svc.Submit(ctx, product.ID, u1.ID, &dto.SubmitReviewRequest{Stars: 4, Comment: "ok"})
	if err != nil {
		t.Fatalf("提交评价失败: %v", err)
	}

	replied, err := svc.Reply(ctx, vo.ID, &dto.ReplyReviewRequest{Reply: "ধন্যবাদ!"})
	if err != nil {
		t.Fatalf("回复失败: %v", err)
	}
	if replied.AdminReply != "ধন্যবাদ!" {
		t.Errorf("admin_reply = %q", replied.AdminReply)
	}

	// 回复不影响均分
	var p model.Product
	db.First(&p, product.ID)
	if p.AverageRating != 4.0 {
		t.Errorf("average_rating = %v, want 4.0", p.AverageRating)
	}
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.333333, 4.3},
		{4.35, 4.4},
		{4.666666, 4.7},
		{0, 0},
		{5, 5},
	}
	for _, tt := range tests {
		if got := RoundRating(tt.in); got != tt.want {
			t.Errorf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
