package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/crypto/bcrypt"

	"bdshop_dev_v1_202608/internal/api/dto"
	"bdshop_dev_v1_202608/internal/middleware"
	"bdshop_dev_v1_202608/internal/model"
	"bdshop_dev_v1_202608/internal/repository"
	"bdshop_dev_v1_202608/pkg/logger"
)

// ==================== 社交平台校验 ====================

// SocialProfile 社交平台返回的用户画像
type SocialProfile struct {
	ProviderID string
	Email      string
	Name       string
}

// SocialVerifier 社交平台凭证校验器
type SocialVerifier interface {
	Verify(ctx context.Context, provider, accessToken string) (*SocialProfile, error)
}

// SocialVerifierConfig 校验端点配置
type SocialVerifierConfig struct {
	GoogleTokenInfoURL string
	FacebookGraphURL   string
}

// restSocialVerifier 基于 resty 的远程校验实现
type restSocialVerifier struct {
	client *resty.Client
	cfg    SocialVerifierConfig
}

// NewSocialVerifier 创建社交校验器
func NewSocialVerifier(cfg SocialVerifierConfig) SocialVerifier {
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(2)
	return &restSocialVerifier{client: client, cfg: cfg}
}

func (v *restSocialVerifier) Verify(ctx context.Context, provider, accessToken string) (*SocialProfile, error) {
	switch provider {
	case model.LoginMethodGoogle:
		return v.verifyGoogle(ctx, accessToken)
	case model.LoginMethodFacebook:
		return v.verifyFacebook(ctx, accessToken)
	default:
		return nil, ErrUnknownProvider
	}
}

func (v *restSocialVerifier) verifyGoogle(ctx context.Context, idToken string) (*SocialProfile, error) {
	var body struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParam("id_token", idToken).
		SetResult(&body).
		Get(v.cfg.GoogleTokenInfoURL)
	if err != nil {
		return nil, fmt.Errorf("google 校验请求失败: %w", err)
	}
	if resp.StatusCode() != 200 || body.Sub == "" {
		return nil, ErrSocialTokenInvalid
	}

	return &SocialProfile{ProviderID: body.Sub, Email: body.Email, Name: body.Name}, nil
}

func (v *restSocialVerifier) verifyFacebook(ctx context.Context, accessToken string) (*SocialProfile, error) {
	var body struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	resp, err := v.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fields":       "id,name,email",
			"access_token": accessToken,
		}).
		SetResult(&body).
		Get(v.cfg.FacebookGraphURL)
	if err != nil {
		return nil, fmt.Errorf("facebook 校验请求失败: %w", err)
	}
	if resp.StatusCode() != 200 || body.ID == "" {
		return nil, ErrSocialTokenInvalid
	}

	return &SocialProfile{ProviderID: body.ID, Email: body.Email, Name: body.Name}, nil
}

// ==================== AuthService ====================

// AuthService 认证与账号服务
type AuthService struct {
	userRepo repository.UserRepository
	verifier SocialVerifier
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, verifier SocialVerifier) *AuthService {
	return &AuthService{userRepo: userRepo, verifier: verifier}
}

// ==================== 注册 / 登录 ====================

// Register 邮箱注册
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       req.Email,
		Password:    string(hash),
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		LoginMethod: model.LoginMethodPassword,
		Role:        model.UserRoleCustomer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login 密码登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// ==================== 社交登录 ====================

// SocialLogin 社交登录
// 1) 平台 ID 命中 → 直接登录
// 2) 邮箱命中本地账号 → 合并（补上平台 ID，不新建）
// 3) 都未命中 → 自动注册，平台缺失的字段用占位值
func (s *AuthService) SocialLogin(ctx context.Context, req *dto.SocialLoginRequest) (*dto.LoginResponse, error) {
	profile, err := s.verifier.Verify(ctx, req.Provider, req.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByProviderID(ctx, req.Provider, profile.ProviderID)
	if err != nil {
		return nil, err
	}

	if user == nil && profile.Email != "" {
		user, err = s.userRepo.GetByEmail(ctx, profile.Email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			// 合并进已有本地账号
			s.attachProviderID(user, req.Provider, profile.ProviderID)
			if err := s.userRepo.Update(ctx, user); err != nil {
				return nil, err
			}
			logger.L().Infow("社交账号并入本地账号", "user_id", user.ID, "provider", req.Provider)
		}
	}

	if user == nil {
		user = s.provisionSocialUser(req.Provider, profile)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		logger.L().Infow("社交登录自动注册", "user_id", user.ID, "provider", req.Provider)
	}

	return s.issueTokens(user)
}

func (s *AuthService) attachProviderID(user *model.User, provider, providerID string) {
	switch provider {
	case model.LoginMethodGoogle:
		user.GoogleID = providerID
	case model.LoginMethodFacebook:
		user.FacebookID = providerID
	}
}

// provisionSocialUser 社交首登自动开户，缺失字段给占位值
func (s *AuthService) provisionSocialUser(provider string, profile *SocialProfile) *model.User {
	name := profile.Name
	if name == "" {
		name = "社交用户"
	}
	email := profile.Email
	if email == "" {
		// 平台未返回邮箱时合成占位邮箱，保持唯一约束
		email = fmt.Sprintf("%s_%s@placeholder.local", provider, profile.ProviderID)
	}

	user := &model.User{
		Email:       email,
		Name:        name,
		LoginMethod: provider,
		Role:        model.UserRoleCustomer,
	}
	s.attachProviderID(user, provider, profile.ProviderID)
	return user
}

// ==================== Token ====================

// RefreshToken 刷新 Token 对
func (s *AuthService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	// 角色可能已变更，按库里最新数据签发
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
	}, nil
}

func (s *AuthService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	access, refresh, err := middleware.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         toUserInfo(user),
	}, nil
}

// ==================== 资料 ====================

// GetProfile 获取资料
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	info := toUserInfo(user)
	return &info, nil
}

// UpdateProfile 更新资料（仅 name/phone/address）
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	fields := map[string]interface{}{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}
	if req.Address != "" {
		fields["address"] = req.Address
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(ctx, userID)
}

func toUserInfo(user *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		Address:     user.Address,
		Role:        string(user.Role),
		LoginMethod: user.LoginMethod,
	}
}
