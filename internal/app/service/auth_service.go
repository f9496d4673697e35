package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/metrics"
	"github.com/ikkim/stores-rest-api/internal/validation"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"github.com/ikkim/stores-rest-api/pkg/util"
)

var (
	ErrUsernameExists      = errors.New("a user with that username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrTokenAlreadyRevoked = errors.New("token already revoked")

	ErrTokenMissing     = errors.New("request does not contain an access token")
	ErrTokenInvalid     = errors.New("token is invalid")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenRevoked     = errors.New("token has been revoked")
	ErrTokenNotFresh    = errors.New("fresh token required")
	ErrPermissionDenied = errors.New("admin privilege required")
)

// AuthRequirement is what a route demands of the bearer token.
type AuthRequirement struct {
	TokenType    util.TokenType
	RequireFresh bool
	RequireAdmin bool
	// SkipRevocationCheck leaves revocation to the caller. Logout uses it so
	// a repeated logout reaches the blocklist insert and reports a conflict.
	SkipRevocationCheck bool
}

type AuthService interface {
	Register(username, password string) (*model.User, error)
	Login(username, password string) (*util.TokenPair, error)
	Logout(ctx context.Context, claims *util.Claims) error
	Refresh(claims *util.Claims) (string, error)
	Authorize(ctx context.Context, token string, req AuthRequirement) (*util.Claims, error)
	GetUserByID(id uint) (*model.User, error)
	DeleteUser(id uint) error
}

type authService struct {
	userRepo      repository.UserRepository
	blocklist     repository.TokenBlocklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	adminUserID   uint
}

func NewAuthService(
	userRepo repository.UserRepository,
	blocklist repository.TokenBlocklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
	adminUserID uint,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		blocklist:     blocklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		adminUserID:   adminUserID,
	}
}

func (s *authService) isAdmin(userID uint) bool {
	return s.adminUserID != 0 && userID == s.adminUserID
}

func (s *authService) Register(username, password string) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	existingUser, err := s.userRepo.FindByUsername(username)
	if err != nil && !apperrors.IsNotFound(err) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return nil, ErrUsernameExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return nil, validation.FieldErrors{"password": fmt.Sprintf("must not exceed %d bytes", util.MaxPasswordBytes)}
		}
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		// lost a race with a concurrent registration
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})

	return user, nil
}

func (s *authService) Login(username, password string) (*util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"username": username,
			"user_id":  user.ID,
		})
		return nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		s.isAdmin(user.ID),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	metrics.RecordTokenIssued(string(util.AccessToken))
	metrics.RecordTokenIssued(string(util.RefreshToken))

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})

	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.blocklist.Revoke(ctx, claims.ID, expiresAt); err != nil {
		if errors.Is(err, repository.ErrAlreadyRevoked) {
			logger.Warn("Logout with an already revoked token", map[string]interface{}{
				"user_id": claims.UserID,
				"jti":     claims.ID,
			})
			return ErrTokenAlreadyRevoked
		}
		return fmt.Errorf("revoke token: %w", err)
	}
	metrics.RecordTokenRevoked()

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
		"jti":     claims.ID,
	})
	return nil
}

// Refresh issues a non-fresh access token. The admin claim is recomputed
// rather than copied from the refresh token.
func (s *authService) Refresh(claims *util.Claims) (string, error) {
	token, err := util.GenerateAccessToken(claims.UserID, s.isAdmin(claims.UserID), false, s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to refresh access token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return "", err
	}
	metrics.RecordTokenIssued(string(util.AccessToken))

	logger.Debug("Access token refreshed", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return token, nil
}

// Authorize validates the token against req. Token failures are returned as
// one of the ErrToken* sentinels or ErrPermissionDenied; any other error
// comes from the blocklist.
func (s *authService) Authorize(ctx context.Context, token string, req AuthRequirement) (*util.Claims, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	wantType := req.TokenType
	if wantType == "" {
		wantType = util.AccessToken
	}
	if claims.Type != wantType {
		return nil, ErrTokenInvalid
	}

	if !req.SkipRevocationCheck {
		revoked, err := s.blocklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token blocklist: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	if req.RequireFresh && !claims.Fresh {
		return nil, ErrTokenNotFresh
	}
	if req.RequireAdmin && !claims.Admin {
		return nil, ErrPermissionDenied
	}

	return claims, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) DeleteUser(id uint) error {
	if err := s.userRepo.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	logger.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})
	return nil
}
