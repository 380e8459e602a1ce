package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/classroom-auth/internal/middleware"
	"github.com/iliyamo/classroom-auth/internal/model"
	"github.com/iliyamo/classroom-auth/internal/service"
	"github.com/iliyamo/classroom-auth/internal/token"
)

type staticResolver struct {
	users map[uint64]model.User
}

func (r *staticResolver) GetUser(_ context.Context, id uint64) (model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return model.User{}, service.ErrUserNotFound
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"no token", "Bearer ", "", true},
		{"lowercase scheme", "bearer abc", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := middleware.BearerToken(tc.header)
			if tc.wantErr {
				assert.ErrorIs(t, err, service.ErrMalformedHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func runJWTAuth(t *testing.T, codec *token.Codec, users middleware.UserResolver, authHeader string) (*httptest.ResponseRecorder, model.User, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen model.User
	var called bool
	h := middleware.JWTAuth(codec, users)(func(c echo.Context) error {
		called = true
		seen, _ = c.Get("user").(model.User)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, seen, called
}

func TestJWTAuthAttachesUser(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Minute, 24*time.Hour)
	users := &staticResolver{users: map[uint64]model.User{
		7: {ID: 7, Email: "alice@x.com", Role: model.RoleStudent, IsActive: true},
	}}

	raw, _, err := codec.Issue(7, token.Access)
	require.NoError(t, err)

	rec, seen, called := runJWTAuth(t, codec, users, "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, uint64(7), seen.ID)
	assert.Equal(t, "alice@x.com", seen.Email)
}

func TestJWTAuthRejections(t *testing.T) {
	codec := token.NewCodec("test-secret", time.Minute, 24*time.Hour)
	users := &staticResolver{users: map[uint64]model.User{
		7: {ID: 7, Email: "alice@x.com", Role: model.RoleStudent},
	}}

	expiredCodec := token.NewCodec("test-secret", -time.Minute, 24*time.Hour)
	expired, _, err := expiredCodec.Issue(7, token.Access)
	require.NoError(t, err)

	foreignCodec := token.NewCodec("other-secret", time.Minute, 24*time.Hour)
	forged, _, err := foreignCodec.Issue(7, token.Access)
	require.NoError(t, err)

	unknownUser, _, err := codec.Issue(42, token.Access)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"forged signature", "Bearer " + forged},
		{"unknown user", "Bearer " + unknownUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, called := runJWTAuth(t, codec, users, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run on rejected requests")
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role any) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		h := middleware.RequireRole(model.RoleStudent, model.RoleTutor)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run(model.RoleStudent).Code)
	assert.Equal(t, http.StatusOK, run(model.RoleTutor).Code)
	assert.Equal(t, http.StatusForbidden, run("ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
}
