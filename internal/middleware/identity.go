package middleware

// identity.go defines the accessors for the caller identity that JWTAuth
// stores in the Echo context.  When no token was presented the accessors
// return the empty string / guest values.

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/model"
    "github.com/iliyamo/movie-catalog/internal/policy"
)

const (
    ctxUserID = "user_id"
    ctxRole   = "role"
)

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c echo.Context) string {
    s, _ := c.Get(ctxUserID).(string)
    return s
}

// Role returns the authenticated user's role claim.
func Role(c echo.Context) model.Role {
    s, _ := c.Get(ctxRole).(string)
    return model.ParseRole(s)
}

// Requester bundles UserID and Role for the policy package.
func Requester(c echo.Context) policy.Requester {
    return policy.Requester{ID: UserID(c), Role: Role(c)}
}

// SetIdentity stores a caller identity.  JWTAuth uses the same keys; tests
// use this to skip token issuance.
func SetIdentity(c echo.Context, userID string, role model.Role) {
    c.Set(ctxUserID, userID)
    c.Set(ctxRole, string(role))
}

// keyUserID is the identity used in cache and rate limit keys.
func keyUserID(c echo.Context) string {
    if id := UserID(c); id != "" {
        return id
    }
    return "guest"
}
