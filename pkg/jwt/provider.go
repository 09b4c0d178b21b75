// Package jwt issues and verifies the HS256 access and refresh tokens of kino users.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("token is not an admin token")
)

// Claims is the payload of both token types. Subject holds the username.
type Claims struct {
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type JWTProvider struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	now        func() time.Time
}

func NewJWTProvider(secret string, accessTTL, refreshTTL time.Duration) *JWTProvider {
	return &JWTProvider{
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (p *JWTProvider) GenerateAccessToken(subject, role string) (string, error) {
	return p.sign(subject, role, TypeAccess, p.AccessTTL)
}

func (p *JWTProvider) GenerateRefreshToken(subject, role string) (string, error) {
	return p.sign(subject, role, TypeRefresh, p.RefreshTTL)
}

func (p *JWTProvider) sign(subject, role, typ string, ttl time.Duration) (string, error) {
	if p.Secret == "" {
		return "", errors.New("jwt: empty signing secret")
	}
	if role == "" {
		role = RoleUser
	}
	now := p.now()
	claims := Claims{
		Role:      role,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(p.Secret))
}

// ParseAccessToken verifies signature, expiry and that the token is an access token.
func (p *JWTProvider) ParseAccessToken(accessToken string) (*Claims, error) {
	return p.parse(accessToken, TypeAccess)
}

func (p *JWTProvider) ParseRefreshToken(refreshToken string) (*Claims, error) {
	return p.parse(refreshToken, TypeRefresh)
}

func (p *JWTProvider) parse(raw, typ string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(p.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != typ || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsAccess reports whether claims belong to an access token.
func IsAccess(claims *Claims) bool {
	return claims != nil && claims.TokenType == TypeAccess
}

func RequireAdmin(claims *Claims) error {
	if !IsAccess(claims) || claims.Role != RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}
