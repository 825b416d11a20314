package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"CommunitySpaces/config"
	"CommunitySpaces/internal/cache"
	"CommunitySpaces/internal/model/dto"
	"CommunitySpaces/pkg/errors"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/token"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = NewAuthService(
			token.GetIssuer(),
			cache.NewRefreshTokenStore(time.Duration(config.Cfg.JWTRefreshDays)*24*time.Hour),
		)
	})
	return authService
}

// AuthService refresh token 轮换与登出
type AuthService struct {
	tokens  TokenIssuer
	refresh RefreshStore
}

func NewAuthService(tokens TokenIssuer, refresh RefreshStore) *AuthService {
	return &AuthService{tokens: tokens, refresh: refresh}
}

// Refresh 校验 refresh token 并轮换，旧 token 立即失效
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (dto.TokenPair, error) {
	subject, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return dto.TokenPair{}, err
	}

	ok, err := s.refresh.Matches(ctx, subject, refreshToken)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("check refresh token: %w", err)
	}
	if !ok {
		logger.Logger.Warn("Refresh token reused or revoked", zap.String("subject", subject))
		return dto.TokenPair{}, errors.RefreshTokenInvalid
	}

	return issueTokens(ctx, s.tokens, s.refresh, subject)
}

// Logout 删除当前 refresh token，access token 自然过期
func (s *AuthService) Logout(ctx context.Context, subject string) error {
	if err := s.refresh.Delete(ctx, subject); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func issueTokens(ctx context.Context, tokens TokenIssuer, store RefreshStore, subject string) (dto.TokenPair, error) {
	pair, err := tokens.Issue(subject)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	if err := store.Set(ctx, subject, pair.RefreshToken); err != nil {
		return dto.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return dto.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
