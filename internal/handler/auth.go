package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/classroom-auth/internal/middleware"
	"github.com/iliyamo/classroom-auth/internal/repository"
	"github.com/iliyamo/classroom-auth/internal/service"
	"github.com/iliyamo/classroom-auth/internal/token"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

const dbTimeout = 5 * time.Second

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"` // student | tutor
}
type activateReq struct {
	Token string `json:"token"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Token           string `json:"token"`
}

type tokenResp struct {
	AccessToken    string    `json:"access_token"`
	AccessExpires  time.Time `json:"access_expires"`
	RefreshToken   string    `json:"refresh_token"`
	RefreshExpires time.Time `json:"refresh_expires"`
}

func pairResp(p service.TokenPair) tokenResp {
	return tokenResp{
		AccessToken:    p.AccessToken,
		AccessExpires:  p.AccessExp,
		RefreshToken:   p.RefreshToken,
		RefreshExpires: p.RefreshExp,
	}
}

// Register: create an inactive user and email an activation token.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	_, err := h.Svc.Register(ctx, service.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Message})
		}
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Activation token has been sent to your email address. Please check your inbox.",
	})
}

// Activate: consume the activation token and enable the account.
func (h *AuthHandler) Activate(c echo.Context) error {
	var req activateReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.Activate(ctx, strings.TrimSpace(req.Token)); err != nil {
		if errors.Is(err, service.ErrTokenNotFound) || errors.Is(err, token.ErrTokenExpired) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activation failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Your account has been activated."})
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, service.ErrInactiveAccount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "account is not active"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	return c.JSON(http.StatusOK, pairResp(pair))
}

// Refresh: rotate the refresh token and return a new pair. The presented
// token is revoked in the same step, so a given refresh token authorizes
// at most one exchange.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	pair, err := h.Svc.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRevoked):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token revoked"})
		case errors.Is(err, token.ErrTokenExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token expired"})
		case errors.Is(err, token.ErrTokenMalformed):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token"})
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	return c.JSON(http.StatusOK, pairResp(pair))
}

// Logout: revoke the bearer token carried in the Authorization header.
// Logging out twice is not an error from the client's point of view: the
// second call finds the token already revoked and reports success.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, err := middleware.BearerToken(c.Request().Header.Get("Authorization"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid authorization header format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.Logout(ctx, raw); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRevoked):
			return c.JSON(http.StatusOK, echo.Map{"message": "already logged out"})
		case errors.Is(err, token.ErrTokenExpired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired"})
		case errors.Is(err, token.ErrTokenMalformed):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// ForgotPassword: issue a password-reset token. The response is the same
// whether or not the email belongs to a user, so the endpoint cannot be
// used to probe which accounts exist.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.ForgotPassword(ctx, strings.TrimSpace(req.Email)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "request failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "We have sent a token to your email. Use it to reset your password.",
	})
}

// ResetPassword: consume a reset token and set the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err := h.Svc.ResetPassword(ctx, strings.TrimSpace(req.Token), req.Password, req.ConfirmPassword)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Message})
		case errors.Is(err, service.ErrTokenNotFound), errors.Is(err, token.ErrTokenExpired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful."})
}
