package token

import (
	stderrors "errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/jwt"

	"CommunitySpaces/config"
	"CommunitySpaces/pkg/errors"
)

const (
	IdentityKey = "pid" // profile public id

	claimType   = "type"
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var (
	// 这个实例会被 middleware 和 token 包共同使用
	sharedGenerator *jwt.HertzJWTMiddleware
	sharedIssuer    *Issuer
)

// Pair 一次签发的令牌对
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Issuer 使用 HS256 签发与校验令牌。
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func Init() error {
	cfg := config.Cfg
	accessTTL := time.Duration(cfg.JWTExpireMinutes) * time.Minute
	refreshTTL := time.Duration(cfg.JWTRefreshDays) * 24 * time.Hour

	var err error
	sharedGenerator, err = jwt.New(&jwt.HertzJWTMiddleware{
		Key:         []byte(cfg.JWTSecret),
		Timeout:     accessTTL,
		MaxRefresh:  refreshTTL,
		IdentityKey: IdentityKey,
		TimeFunc:    time.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token generator: %w", err)
	}

	sharedIssuer = NewIssuer(cfg.JWTSecret, accessTTL, refreshTTL)
	return nil
}

// GetGenerator 获取共享的 token 生成器（供 middleware 使用）
func GetGenerator() *jwt.HertzJWTMiddleware {
	return sharedGenerator
}

// GetIssuer 获取共享的签发器，未初始化时返回 nil。
func GetIssuer() *Issuer {
	return sharedIssuer
}

// Issue 为 subject 签发 access token 和 refresh token
func (i *Issuer) Issue(subject string) (Pair, error) {
	now := i.now()
	expiresAt := now.Add(i.accessTTL)

	access, err := i.sign(jwtv5.MapClaims{
		IdentityKey: subject,
		claimType:   typeAccess,
		"iat":       now.Unix(),
		"exp":       expiresAt.Unix(),
	})
	if err != nil {
		return Pair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := i.sign(jwtv5.MapClaims{
		IdentityKey: subject,
		claimType:   typeRefresh,
		"iat":       now.Unix(),
		"exp":       now.Add(i.refreshTTL).Unix(),
	})
	if err != nil {
		return Pair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(i.accessTTL.Seconds()),
	}, nil
}

// ParseRefresh 校验 refresh token 并返回 subject
func (i *Issuer) ParseRefresh(tokenString string) (string, error) {
	subject, err := i.parse(tokenString, typeRefresh)
	if err != nil {
		return "", errors.RefreshTokenInvalid
	}
	return subject, nil
}

// ParseAccess 校验 access token 并返回 subject
func (i *Issuer) ParseAccess(tokenString string) (string, error) {
	return i.parse(tokenString, typeAccess)
}

func (i *Issuer) sign(claims jwtv5.MapClaims) (string, error) {
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) parse(tokenString, wantType string) (string, error) {
	token, err := jwtv5.Parse(tokenString,
		func(token *jwtv5.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(i.now),
		jwtv5.WithExpirationRequired(),
	)
	if err != nil {
		if stderrors.Is(err, jwtv5.ErrTokenExpired) {
			return "", errors.TokenExpired
		}
		return "", errors.TokenInvalid
	}

	claims, ok := token.Claims.(jwtv5.MapClaims)
	if !ok || !token.Valid {
		return "", errors.TokenInvalid
	}

	if t, _ := claims[claimType].(string); t != wantType {
		return "", errors.TokenInvalid
	}

	subject, ok := claims[IdentityKey].(string)
	if !ok || subject == "" {
		return "", errors.TokenInvalid
	}

	return subject, nil
}

