package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"academy/internal/auth"
	"academy/internal/errors"
	"academy/internal/model"
	"academy/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// unknown email and wrong password are both client errors on login
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "User not found",
				Code:  "USER_NOT_FOUND",
			})
		}
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "Invalid password",
				Code:  "INVALID_CREDENTIALS",
			})
		}
		c.Logger().Errorf("login %s: %v", req.Email, err)
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token: token,
		User:  user,
	})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return handleServiceError(errors.ErrUnauthorized)
	}

	user, err := h.authService.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		return handleServiceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// handleServiceError maps a service error to an echo error carrying ErrorResponse.
func handleServiceError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

func currentUserID(c echo.Context) (string, error) {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return "", errors.ErrUnauthorized
	}
	return claims.UserID, nil
}
