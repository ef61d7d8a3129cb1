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

// stubVerifier 固定返回的社交校验器
type stubVerifier struct {
	profile *SocialProfile
	err     error
}

func (s *stubVerifier) Verify(ctx context.Context, provider, accessToken string) (*SocialProfile, error) {
	return s.profile, s.err
}

func setupAuthTest(t *testing.T, verifier SocialVerifier) (*AuthService, *gorm.DB) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), verifier)
	return svc, db
}

// ==================== 注册 / 登录 ====================

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthTest(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "Rahim", Email: "rahim@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("注册未返回 token 对")
	}
	if resp.User.Role != string(model.UserRoleCustomer) {
		t.Errorf("role = %s, want customer", resp.User.Role)
	}

	// 重复注册
	_, err = svc.Register(ctx, &dto.RegisterRequest{Name: "X", Email: "rahim@example.com", Password: "other"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}

	// 正确密码
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "rahim@example.com", Password: "secret123"}); err != nil {
		t.Errorf("登录失败: %v", err)
	}
	// 错误密码
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "rahim@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	// 不存在的邮箱
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

// ==================== 社交登录 ====================

func TestAuthService_SocialLogin_Provision(t *testing.T) {
	verifier := &stubVerifier{profile: &SocialProfile{ProviderID: "g-123", Email: "sumi@example.com", Name: "Sumi"}}
	svc, db := setupAuthTest(t, verifier)
	ctx := context.Background()

	resp, err := svc.SocialLogin(ctx, &dto.SocialLoginRequest{Provider: "google", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("社交登录失败: %v", err)
	}
	if resp.User.Email != "sumi@example.com" || resp.User.LoginMethod != model.LoginMethodGoogle {
		t.Errorf("user = %+v", resp.User)
	}

	var user model.User
	db.Where("google_id = ?", "g-123").First(&user)
	if user.ID == 0 {
		t.Error("未自动开户")
	}

	// 再次登录命中同一账号
	again, err := svc.SocialLogin(ctx, &dto.SocialLoginRequest{Provider: "google", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("二次登录失败: %v", err)
	}
	if again.User.ID != resp.User.ID {
		t.Errorf("二次登录开了新账号: %d != %d", again.User.ID, resp.User.ID)
	}
}

// 平台未返回邮箱时合成占位邮箱
func TestAuthService_SocialLogin_PlaceholderEmail(t *testing.T) {
	verifier := &stubVerifier{profile: &SocialProfile{ProviderID: "fb-9"}}
	svc, _ := setupAuthTest(t, verifier)

	resp, err := svc.SocialLogin(context.Background(), &dto.SocialLoginRequest{Provider: "facebook", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("社交登录失败: %v", err)
	}
	if resp.User.Email != "facebook_fb-9@placeholder.local" {
		t.Errorf("email = %s", resp.User.Email)
	}
}

// 邮箱命中已有密码账号时并入，不新建
func TestAuthService_SocialLogin_MergeByEmail(t *testing.T) {
	verifier := &stubVerifier{profile: &SocialProfile{ProviderID: "g-777", Email: "rahim@example.com", Name: "Rahim G"}}
	svc, db := setupAuthTest(t, verifier)
	ctx := context.Background()

	local, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Rahim", Email: "rahim@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	social, err := svc.SocialLogin(ctx, &dto.SocialLoginRequest{Provider: "google", AccessToken: "tok"})
	if err != nil {
		t.Fatalf("社交登录失败: %v", err)
	}
	if social.User.ID != local.User.ID {
		t.Errorf("并入失败，新开了账号: %d != %d", social.User.ID, local.User.ID)
	}

	var user model.User
	db.First(&user, local.User.ID)
	if user.GoogleID != "g-777" {
		t.Errorf("google_id = %q, 未补上平台 ID", user.GoogleID)
	}
	// 原密码仍可登录
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "rahim@example.com", Password: "secret123"}); err != nil {
		t.Errorf("并入后密码登录失败: %v", err)
	}
}

func TestAuthService_SocialLogin_VerifyFailed(t *testing.T) {
	verifier := &stubVerifier{err: ErrSocialTokenInvalid}
	svc, _ := setupAuthTest(t, verifier)

	_, err := svc.SocialLogin(context.Background(), &dto.SocialLoginRequest{Provider: "google", AccessToken: "bad"})
	if !errors.Is(err, ErrSocialTokenInvalid) {
		t.Errorf("err = %v, want ErrSocialTokenInvalid", err)
	}
}

// ==================== Token / 资料 ====================

func TestAuthService_RefreshToken(t *testing.T) {
	svc, _ := setupAuthTest(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Name: "R", Email: "r@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("刷新未返回新 token 对")
	}

	// access token 不能当 refresh 用
	if _, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: resp.AccessToken}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := setupAuthTest(t, nil)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Name: "R", Email: "r@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	info, err := svc.UpdateProfile(ctx, resp.User.ID, &dto.UpdateProfileRequest{Phone: "01811111111", Address: "Mirpur"})
	if err != nil {
		t.Fatalf("更新资料失败: %v", err)
	}
	if info.Phone != "01811111111" || info.Address != "Mirpur" || info.Name != "R" {
		t.Errorf("info = %+v", info)
	}
}
