package handler

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movie-catalog/internal/model"
    "github.com/iliyamo/movie-catalog/internal/repository"
)

// ActorHandler serves /api/actors.
type ActorHandler struct {
    *crud[model.Actor, model.PersonPatch]
}

func NewActorHandler(store repository.ActorStore, deps Deps) *ActorHandler {
    if store == nil || deps.Users == nil {
        panic("nil dependency passed to NewActorHandler")
    }
    return &ActorHandler{&crud[model.Actor, model.PersonPatch]{
        Deps:     deps,
        resource: "actors",
        label:    "Actor",
        store:    store,
        decode: func(c echo.Context, ownerID string) (model.Actor, error) {
            var in model.PersonInput
            if err := bindAndValidate(c, &in, "Actor"); err != nil {
                return model.Actor{}, err
            }
            return model.Actor{Person: in.Person(ownerID)}, nil
        },
        idOf:       func(a model.Actor) string { return a.ID },
        embeddedIn: []string{"movies"},
    }}
}
