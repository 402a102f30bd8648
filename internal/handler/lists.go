package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/middleware"
    "github.com/iliyamo/movie-catalog/internal/watchlist"
)

// ListHandler exposes the caller's favorite/watched ids under
// /api/me/lists/:kind.  The lists are plain id sets: ids are not checked
// against the catalog, matching the local store.
type ListHandler struct {
    Store watchlist.Store
}

func NewListHandler(s watchlist.Store) *ListHandler { return &ListHandler{Store: s} }

func (h *ListHandler) kind(c echo.Context) (watchlist.Kind, error) {
    k, err := watchlist.ParseKind(c.Param("kind"))
    if err != nil {
        return "", badRequest{msg: err.Error()}
    }
    return k, nil
}

// List: GET /api/me/lists/:kind
func (h *ListHandler) List(c echo.Context) error {
    kind, err := h.kind(c)
    if err != nil {
        return errorResponse(c, http.StatusBadRequest, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()
    ids, err := h.Store.List(ctx, middleware.UserID(c), kind)
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"kind": kind, "ids": ids})
}

// Add: POST /api/me/lists/:kind/:movieId
func (h *ListHandler) Add(c echo.Context) error {
    return h.mutate(c, h.Store.Add)
}

// Remove: DELETE /api/me/lists/:kind/:movieId
func (h *ListHandler) Remove(c echo.Context) error {
    return h.mutate(c, h.Store.Remove)
}

func (h *ListHandler) mutate(c echo.Context, op func(ctx context.Context, userID string, kind watchlist.Kind, movieID string) error) error {
    kind, err := h.kind(c)
    if err != nil {
        return errorResponse(c, http.StatusBadRequest, err)
    }
    movieID := c.Param("movieId")
    if movieID == "" {
        return errorResponse(c, http.StatusBadRequest, errors.New("movie id required"))
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    uid := middleware.UserID(c)
    if err := op(ctx, uid, kind, movieID); err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    ids, err := h.Store.List(ctx, uid, kind)
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"kind": kind, "ids": ids})
}
