package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/middleware"
    "github.com/iliyamo/movie-catalog/internal/queue"
    "github.com/iliyamo/movie-catalog/internal/repository"
)

// crud is the create/list/get/update/delete flow shared by the three
// catalog resources.  T is the record type and P its partial update.
type crud[T any, P any] struct {
    Deps
    resource   string // route, cache and event name, e.g. "movies"
    label      string // message prefix, e.g. "Movie"
    store      repository.Store[T, P]
    decode     func(c echo.Context, ownerID string) (T, error)
    idOf       func(T) string
    embeddedIn []string // resources whose responses embed this one
}

// Create attaches the caller as owner; any owner sent by the client is
// ignored.
func (h *crud[T, P]) Create(c echo.Context) error {
    rec, err := h.decode(c, middleware.UserID(c))
    if err != nil {
        return errorResponse(c, http.StatusBadRequest, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    if err := h.store.Create(ctx, &rec); err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    h.changed(c, h.resource, queue.ActionCreated, h.idOf(rec), h.embeddedIn...)
    return c.JSON(http.StatusCreated, rec)
}

// List returns the records the caller may read, newest first.
func (h *crud[T, P]) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    scope, err := h.readScope(ctx, c)
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    recs, err := h.store.List(ctx, scope)
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    return c.JSON(http.StatusOK, recs)
}

// Get returns one readable record.  Missing and hidden look the same.
func (h *crud[T, P]) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    scope, err := h.readScope(ctx, c)
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    rec, err := h.store.Get(ctx, c.Param("id"), scope)
    if errors.Is(err, repository.ErrNotFound) {
        return messageResponse(c, http.StatusNotFound, h.label+" not found")
    }
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    return c.JSON(http.StatusOK, rec)
}

// Update merges the provided fields into a record the caller owns.
func (h *crud[T, P]) Update(c echo.Context) error {
    var patch P
    if err := bindAndValidate(c, &patch, h.label); err != nil {
        return errorResponse(c, http.StatusBadRequest, err)
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id := c.Param("id")
    rec, err := h.store.Update(ctx, id, writeScope(c), patch)
    if errors.Is(err, repository.ErrNotFound) {
        return messageResponse(c, http.StatusNotFound, h.label+" not found or unauthorized")
    }
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    h.changed(c, h.resource, queue.ActionUpdated, id, h.embeddedIn...)
    return c.JSON(http.StatusOK, rec)
}

// Delete removes a record the caller owns.
func (h *crud[T, P]) Delete(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id := c.Param("id")
    err := h.store.Delete(ctx, id, writeScope(c))
    if errors.Is(err, repository.ErrNotFound) {
        return messageResponse(c, http.StatusNotFound, h.label+" not found or unauthorized")
    }
    if err != nil {
        return errorResponse(c, http.StatusInternalServerError, err)
    }
    h.changed(c, h.resource, queue.ActionDeleted, id, h.embeddedIn...)
    return messageResponse(c, http.StatusOK, h.label+" deleted successfully")
}
