package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/classroom-auth/internal/model"
	"github.com/iliyamo/classroom-auth/internal/service"
)

// userResp is the client-facing representation of a user record. The
// password hash and email-token columns never leave the service.
type userResp struct {
	ID         uint64    `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	ProfilePic *string   `json:"profile_pic"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		ProfilePic: u.ProfilePic,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
	}
}

type profileUpdateReq struct {
	Username   *string `json:"username"`
	ProfilePic *string `json:"profile_pic"`
}

// Me returns the authenticated user's profile. JWTAuth has already
// resolved and attached the record.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// UpdateMe applies partial profile changes (username, profile_pic) for the
// authenticated user. Absent fields are left untouched.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	u, ok := c.Get("user").(model.User)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	updated, err := h.Svc.UpdateProfile(ctx, u.ID, req.Username, req.ProfilePic)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Message})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	return c.JSON(http.StatusOK, toUserResp(updated))
}
