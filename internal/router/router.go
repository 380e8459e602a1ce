package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/classroom-auth/internal/handler"
	"github.com/iliyamo/classroom-auth/internal/middleware"
	"github.com/iliyamo/classroom-auth/internal/model"
	"github.com/iliyamo/classroom-auth/internal/token"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check, used by
// load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, codec *token.Codec, users middleware.UserResolver) {
	// Operations that do not require an existing session. Each handler is
	// responsible for generating, exchanging or revoking tokens itself.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/activate", a.Activate)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout reads the bearer token from the Authorization header and
	// revokes it; it is registered outside the JWTAuth group so that an
	// already-expired access token still produces a clean error instead of
	// a generic 401 from the middleware.
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	// Routes that require a valid access token. JWTAuth verifies the
	// bearer token and attaches the resolved user to the context;
	// RequireRole accepts both account kinds on the profile endpoints.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(codec, users))
	auth.Use(middleware.RequireRole(model.RoleStudent, model.RoleTutor))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)
}
