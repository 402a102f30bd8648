package handler

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/model"
    "github.com/iliyamo/movie-catalog/internal/repository"
)

// MovieHandler serves /api/movies.  Validation enforces duration > 0,
// rating within [0, 10] and well-formed director/actor ids; the referenced
// people are not required to exist.
type MovieHandler struct {
    *crud[model.Movie, model.MoviePatch]
}

func NewMovieHandler(store repository.MovieStore, deps Deps) *MovieHandler {
    if store == nil || deps.Users == nil {
        panic("nil dependency passed to NewMovieHandler")
    }
    return &MovieHandler{&crud[model.Movie, model.MoviePatch]{
        Deps:     deps,
        resource: "movies",
        label:    "Movie",
        store:    store,
        decode: func(c echo.Context, ownerID string) (model.Movie, error) {
            var in model.MovieInput
            if err := bindAndValidate(c, &in, "Movie"); err != nil {
                return model.Movie{}, err
            }
            return in.Movie(ownerID), nil
        },
        idOf: func(m model.Movie) string { return m.ID },
    }}
}
