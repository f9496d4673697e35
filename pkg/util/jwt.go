package util

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims is the payload carried by every issued token.
// RegisteredClaims.ID is the jti used as the revocation key.
type Claims struct {
	UserID uint      `json:"user_id"`
	Type   TokenType `json:"type"`
	Fresh  bool      `json:"fresh"`
	Admin  bool      `json:"admin"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateTokenPair issues a fresh access token and a refresh token for a
// password login.
func GenerateTokenPair(
	userID uint,
	admin bool,
	secret string,
	accessExpiry, refreshExpiry time.Duration,
) (*TokenPair, error) {
	accessToken, err := GenerateAccessToken(userID, admin, true, secret, accessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := GenerateRefreshToken(userID, admin, secret, refreshExpiry)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func GenerateAccessToken(userID uint, admin, fresh bool, secret string, expiry time.Duration) (string, error) {
	return generateToken(userID, AccessToken, admin, fresh, secret, expiry)
}

// GenerateRefreshToken issues a refresh token. Refresh tokens are never fresh.
func GenerateRefreshToken(userID uint, admin bool, secret string, expiry time.Duration) (string, error) {
	return generateToken(userID, RefreshToken, admin, false, secret, expiry)
}

func generateToken(userID uint, tokenType TokenType, admin, fresh bool, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   tokenType,
		Fresh:  fresh,
		Admin:  admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateToken checks signature and expiry and returns the claims.
// The returned error is ErrExpiredToken or wraps ErrInvalidToken.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != AccessToken && claims.Type != RefreshToken {
		return nil, fmt.Errorf("%w: unknown token type %q", ErrInvalidToken, claims.Type)
	}
	return claims, nil
}
