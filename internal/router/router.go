package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movie-catalog/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/movie-catalog/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/movie-catalog/internal/model"
)

// APIPrefix is the common prefix of every API route.
const APIPrefix = "/api"

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only the health check, which runs the given
// dependency checks.
func RegisterRoutes(e *echo.Echo, checks map[string]handler.Check) {
	e.GET("/healthz", handler.Health(checks))
}

// authenticated returns the middleware stack shared by protected groups:
// a valid access token carrying one of the two known roles.
func authenticated(jwtSecret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleAdmin),
	}
}

// RegisterAuth registers the session routes.  Register, login, refresh and
// logout need no access token; /api/me does.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group(APIPrefix + "/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh token in the body or falls back to the bearer.
	g.POST("/logout", a.Logout)

	me := e.Group(APIPrefix, authenticated(jwtSecret)...)
	me.GET("/me", a.Me)
}
