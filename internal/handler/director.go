package handler

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/model"
    "github.com/iliyamo/movie-catalog/internal/repository"
)

// DirectorHandler serves /api/directors.
type DirectorHandler struct {
    *crud[model.Director, model.PersonPatch]
}

func NewDirectorHandler(store repository.DirectorStore, deps Deps) *DirectorHandler {
    if store == nil || deps.Users == nil {
        panic("nil dependency passed to NewDirectorHandler")
    }
    return &DirectorHandler{&crud[model.Director, model.PersonPatch]{
        Deps:     deps,
        resource: "directors",
        label:    "Director",
        store:    store,
        decode: func(c echo.Context, ownerID string) (model.Director, error) {
            var in model.PersonInput
            if err := bindAndValidate(c, &in, "Director"); err != nil {
                return model.Director{}, err
            }
            return model.Director{Person: in.Person(ownerID)}, nil
        },
        idOf: func(d model.Director) string { return d.ID },
        // Movie responses embed director summaries.
        embeddedIn: []string{"movies"},
    }}
}
