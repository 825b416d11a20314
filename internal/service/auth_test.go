package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CommunitySpaces/pkg/errors"
)

func TestAuth_RefreshRotates(t *testing.T) {
	issuer := &stubIssuer{}
	store := newMemRefresh()
	svc := NewAuthService(issuer, store)
	ctx := context.Background()

	first, err := issueTokens(ctx, issuer, store, "7")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// 旧 token 轮换后失效
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, errors.RefreshTokenInvalid)
}

func TestAuth_RefreshRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&stubIssuer{}, newMemRefresh())

	_, err := svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, errors.RefreshTokenInvalid)
}

func TestAuth_Logout(t *testing.T) {
	issuer := &stubIssuer{}
	store := newMemRefresh()
	svc := NewAuthService(issuer, store)
	ctx := context.Background()

	pair, err := issueTokens(ctx, issuer, store, "7")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, "7"))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, errors.RefreshTokenInvalid)
}
