package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "net/http" // net/http provides status codes and response helpers
    "sort"
    "time"

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Check probes one dependency (database, Redis).  A nil error means healthy.
type Check func(ctx context.Context) error

// Health reports liveness for load balancers and monitoring.  Every
// registered check is run with a short timeout; any failure turns the
// response into 503 and names the failing dependency.
func Health(checks map[string]Check) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()

        failed := []string{}
        for name, check := range checks {
            if check == nil {
                continue
            }
            if err := check(ctx); err != nil {
                failed = append(failed, name)
            }
        }
        if len(failed) > 0 {
            sort.Strings(failed)
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "failed": failed})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
    }
}
