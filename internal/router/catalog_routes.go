package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
)

// Catalog groups the three resource handlers.
type Catalog struct {
	Directors *handler.DirectorHandler
	Actors    *handler.ActorHandler
	Movies    *handler.MovieHandler
}

// resource is what every catalog handler exposes.
type resource interface {
	Create(echo.Context) error
	List(echo.Context) error
	Get(echo.Context) error
	Update(echo.Context) error
	Delete(echo.Context) error
}

// RegisterCatalog mounts /api/directors, /api/actors and /api/movies.  All
// routes require a bearer token.  limiter runs per request; reads go
// through the response cache of their resource (nil disables caching).
func RegisterCatalog(e *echo.Echo, h Catalog, jwtSecret string, cache *middleware.ResponseCache, limiter echo.MiddlewareFunc) {
	mws := authenticated(jwtSecret)
	if limiter != nil {
		mws = append(mws, limiter)
	}
	api := e.Group(APIPrefix, mws...)

	mount(api, "directors", h.Directors, cache)
	mount(api, "actors", h.Actors, cache)
	mount(api, "movies", h.Movies, cache)
}

func mount(g *echo.Group, name string, r resource, cache *middleware.ResponseCache) {
	read := cache.Middleware(name)
	g.POST("/"+name, r.Create)
	g.GET("/"+name, r.List, read)
	g.GET("/"+name+"/:id", r.Get, read)
	g.PUT("/"+name+"/:id", r.Update)
	g.DELETE("/"+name+"/:id", r.Delete)
}

// RegisterLists mounts the caller's favorite/watched lists.
func RegisterLists(e *echo.Echo, l *handler.ListHandler, jwtSecret string) {
	g := e.Group(APIPrefix+"/me/lists", authenticated(jwtSecret)...)
	g.GET("/:kind", l.List)
	g.POST("/:kind/:movieId", l.Add)
	g.DELETE("/:kind/:movieId", l.Remove)
}
