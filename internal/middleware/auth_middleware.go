package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/metrics"
	"github.com/ikkim/stores-rest-api/pkg/util"
)

// Context keys for token information
const (
	UserIDKey = "user_id"
	ClaimsKey = "token_claims"
)

type AuthMiddleware struct {
	authService service.AuthService
}

func NewAuthMiddleware(authService service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

type authFailure struct {
	reason  string
	code    string
	message string
}

var authFailures = map[error]authFailure{
	service.ErrTokenMissing:     {"missing", apperrors.AuthTokenMissing, "Request does not contain an access token."},
	service.ErrTokenInvalid:     {"invalid", apperrors.AuthTokenInvalid, "Signature verification failed."},
	service.ErrTokenExpired:     {"expired", apperrors.AuthTokenExpired, "The token has expired."},
	service.ErrTokenRevoked:     {"revoked", apperrors.AuthTokenRevoked, "The token has been revoked."},
	service.ErrTokenNotFresh:    {"not_fresh", apperrors.AuthTokenNotFresh, "The token is not fresh."},
	service.ErrPermissionDenied: {"permission_denied", apperrors.AuthzPermissionDenied, "Admin privilege required."},
}

// Require authorizes the bearer token against req and stores its claims in
// the context.
func (m *AuthMiddleware) Require(req service.AuthRequirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			m.reject(c, service.ErrTokenInvalid)
			return
		}

		claims, err := m.authService.Authorize(c.Request.Context(), token, req)
		if err != nil {
			for sentinel := range authFailures {
				if errors.Is(err, sentinel) {
					log.Warn("Token authorization failed", map[string]interface{}{
						"path":  c.Request.URL.Path,
						"error": err.Error(),
					})
					m.reject(c, sentinel)
					return
				}
			}
			log.Error("Token authorization errored", err, map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.InternalError(c, "")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(ClaimsKey, claims)

		log.Debug("Token authorized", map[string]interface{}{
			"user_id": claims.UserID,
			"type":    claims.Type,
			"fresh":   claims.Fresh,
			"admin":   claims.Admin,
		})

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, sentinel error) {
	failure := authFailures[sentinel]
	metrics.RecordAuthFailure(failure.reason)
	apperrors.Unauthorized(c, failure.code, failure.message)
	c.Abort()
}

// Authenticate requires a valid, unrevoked access token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return m.Require(service.AuthRequirement{TokenType: util.AccessToken})
}

// RequireFresh requires an access token issued directly by a password login
func (m *AuthMiddleware) RequireFresh() gin.HandlerFunc {
	return m.Require(service.AuthRequirement{TokenType: util.AccessToken, RequireFresh: true})
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.Require(service.AuthRequirement{TokenType: util.AccessToken, RequireAdmin: true})
}

func (m *AuthMiddleware) RequireRefresh() gin.HandlerFunc {
	return m.Require(service.AuthRequirement{TokenType: util.RefreshToken})
}

// AuthenticateLogout accepts an already revoked access token so the logout
// handler can report the repeat as a conflict.
func (m *AuthMiddleware) AuthenticateLogout() gin.HandlerFunc {
	return m.Require(service.AuthRequirement{TokenType: util.AccessToken, SkipRevocationCheck: true})
}

// bearerToken returns "" with ok=true when the header is absent, so the
// service reports the token as missing.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", true
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetClaims extracts the authorized token claims from context
func GetClaims(c *gin.Context) (*util.Claims, bool) {
	claims, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	return claims.(*util.Claims), true
}
