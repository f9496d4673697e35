package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/internal/app/schema"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/middleware"
	"github.com/ikkim/stores-rest-api/internal/validation"
)

const msgUserNotFound = "User not found."

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// Register handles user registration
// POST /register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req schema.UserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := ctrl.authService.Register(req.Username, req.Password)
	if err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			apperrors.RespondWithValidationError(c, fields)
			return
		}
		if errors.Is(err, service.ErrUsernameExists) {
			apperrors.Conflict(c, "A user with that username already exists.")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.InternalError(c, "An error occurred while creating the user.")
		return
	}

	c.JSON(http.StatusCreated, schema.NewUserView(user))
}

// Login handles user login
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req schema.UserRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.Unauthorized(c, apperrors.AuthInvalidCredentials, "Invalid credentials.")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.TokenView{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// Logout revokes the presented access token
// POST /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.AuthTokenMissing, "Request does not contain an access token.")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		if errors.Is(err, service.ErrTokenAlreadyRevoked) {
			apperrors.Conflict(c, "You have already logged out.")
			return
		}
		log.Error("Logout failed", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		apperrors.InternalError(c, "An error occurred while logging out.")
		return
	}

	c.JSON(http.StatusOK, schema.MessageView{Message: "Successfully logged out."})
}

// Refresh issues a non-fresh access token from a refresh token
// POST /refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, apperrors.AuthTokenMissing, "Request does not contain a refresh token.")
		return
	}

	token, err := ctrl.authService.Refresh(claims)
	if err != nil {
		log.Error("Token refresh failed", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.TokenView{AccessToken: token})
}

// GetUser GET /user/:id
func (ctrl *AuthController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgUserNotFound)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, msgUserNotFound)
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.NewUserView(user))
}

// DeleteUser DELETE /user/:id
func (ctrl *AuthController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgUserNotFound)
	if !ok {
		return
	}

	if err := ctrl.authService.DeleteUser(id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, msgUserNotFound)
			return
		}
		log.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "An error occurred while deleting the user.")
		return
	}

	c.JSON(http.StatusOK, schema.MessageView{Message: "User deleted."})
}
