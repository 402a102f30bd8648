package handler

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/logger"
    "github.com/iliyamo/movie-catalog/internal/middleware"
    "github.com/iliyamo/movie-catalog/internal/policy"
    "github.com/iliyamo/movie-catalog/internal/queue"
    "github.com/iliyamo/movie-catalog/internal/repository"
)

// dbTimeout bounds every store call made by a handler.
const dbTimeout = 5 * time.Second

// Invalidator drops cached reads of whole resources.  middleware.ResponseCache
// implements it.
type Invalidator interface {
    Bump(ctx context.Context, resources ...string) error
}

// Deps are the collaborators every catalog handler shares.
type Deps struct {
    Users  repository.UserStore // admin id lookup for read scopes
    Events queue.Publisher      // optional
    Cache  Invalidator          // optional
}

// readScope resolves the admin ids afresh for this request.
func (d Deps) readScope(ctx context.Context, c echo.Context) (policy.ReadScope, error) {
    admins, err := d.Users.AdminIDs(ctx)
    if err != nil {
        return policy.ReadScope{}, err
    }
    return policy.NewReadScope(middleware.Requester(c), admins), nil
}

func writeScope(c echo.Context) policy.WriteScope {
    return policy.NewWriteScope(middleware.Requester(c))
}

// changed runs after a successful write: cached reads of resource (and of
// the resources embedding it) are dropped and an event is published.
func (d Deps) changed(c echo.Context, resource, action, id string, embeddedIn ...string) {
    if d.Cache != nil {
        if err := d.Cache.Bump(c.Request().Context(), append([]string{resource}, embeddedIn...)...); err != nil {
            logger.Warn("cache invalidation failed", "resource", resource, "err", err)
        }
    }
    if d.Events != nil {
        queue.PublishAsync(d.Events, queue.NewEvent(resource, action, id, middleware.UserID(c)))
    }
}

// badRequest carries a client-facing validation message.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

// bindAndValidate decodes the body into dst and runs the validator.  Both
// failures come back as badRequest; label prefixes validation messages.
func bindAndValidate(c echo.Context, dst any, label string) error {
    if err := c.Bind(dst); err != nil {
        return badRequest{msg: bindMessage(err)}
    }
    if err := c.Validate(dst); err != nil {
        return badRequest{msg: middleware.ValidationMessage(label, err)}
    }
    return nil
}

func bindMessage(err error) string {
    var he *echo.HTTPError
    if errors.As(err, &he) {
        if he.Internal != nil {
            return fmt.Sprintf("%v: %v", he.Message, he.Internal)
        }
        return fmt.Sprint(he.Message)
    }
    return err.Error()
}

// errorResponse writes {"error": msg} for 400s and 500s.
func errorResponse(c echo.Context, status int, err error) error {
    var br badRequest
    if errors.As(err, &br) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": br.msg})
    }
    return c.JSON(status, echo.Map{"error": err.Error()})
}

// messageResponse writes {"message": msg}.
func messageResponse(c echo.Context, status int, msg string) error {
    return c.JSON(status, echo.Map{"message": msg})
}
