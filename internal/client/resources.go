package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// resource describes one API collection and its cache keys.
type resource struct {
	list       string   // list key and path segment, e.g. "movies"
	one        string   // record key prefix, e.g. "movie"
	embeddedIn []string // resources whose records embed this one
}

var (
	movies    = resource{list: "movies", one: "movie"}
	directors = resource{list: "directors", one: "director", embeddedIn: []string{"movie"}}
	actors    = resource{list: "actors", one: "actor", embeddedIn: []string{"movie"}}
)

func (r resource) path() string               { return "/" + r.list }
func (r resource) recordPath(id string) string { return "/" + r.list + "/" + url.PathEscape(id) }
func (r resource) key(id string) string        { return r.one + ":" + id }

// stale lists the keys a write to id invalidates.  Movies embed director
// and actor summaries, so a person write also drops every movie read.
func (r resource) stale(id string) []string {
	keys := []string{r.list}
	if id != "" {
		keys = append(keys, r.key(id))
	}
	for _, e := range r.embeddedIn {
		keys = append(keys, e+"s", e+":")
	}
	return keys
}

// fetch serves key from cache or performs one shared GET for it.  Cached
// values are shared; callers must not modify them.
func fetch[T any](ctx context.Context, c *Client, key, path string) (T, error) {
	if v, ok := c.cache.get(key); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		var out T
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return nil, err
		}
		c.cache.set(key, out)
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// mutate performs a write and, on success, invalidates stale.
func mutate[T any](ctx context.Context, c *Client, method, path string, body any, stale []string) (T, error) {
	var out T
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return out, err
	}
	c.cache.invalidate(stale...)
	return out, nil
}

// deleteMessage is the body of a successful delete.
type deleteMessage struct {
	Message string `json:"message"`
}

func remove(ctx context.Context, c *Client, r resource, id string) error {
	_, err := mutate[deleteMessage](ctx, c, http.MethodDelete, r.recordPath(id), nil, r.stale(id))
	return err
}

// Movies lists the visible movies, newest first.
func (c *Client) Movies(ctx context.Context) ([]model.Movie, error) {
	return fetch[[]model.Movie](ctx, c, movies.list, movies.path())
}

func (c *Client) Movie(ctx context.Context, id string) (model.Movie, error) {
	return fetch[model.Movie](ctx, c, movies.key(id), movies.recordPath(id))
}

func (c *Client) CreateMovie(ctx context.Context, in model.MovieInput) (model.Movie, error) {
	return mutate[model.Movie](ctx, c, http.MethodPost, movies.path(), in, movies.stale(""))
}

func (c *Client) UpdateMovie(ctx context.Context, id string, p model.MoviePatch) (model.Movie, error) {
	return mutate[model.Movie](ctx, c, http.MethodPut, movies.recordPath(id), p, movies.stale(id))
}

func (c *Client) DeleteMovie(ctx context.Context, id string) error {
	return remove(ctx, c, movies, id)
}

// Directors lists the visible directors, newest first.
func (c *Client) Directors(ctx context.Context) ([]model.Director, error) {
	return fetch[[]model.Director](ctx, c, directors.list, directors.path())
}

func (c *Client) Director(ctx context.Context, id string) (model.Director, error) {
	return fetch[model.Director](ctx, c, directors.key(id), directors.recordPath(id))
}

func (c *Client) CreateDirector(ctx context.Context, in model.PersonInput) (model.Director, error) {
	return mutate[model.Director](ctx, c, http.MethodPost, directors.path(), in, directors.stale(""))
}

func (c *Client) UpdateDirector(ctx context.Context, id string, p model.PersonPatch) (model.Director, error) {
	return mutate[model.Director](ctx, c, http.MethodPut, directors.recordPath(id), p, directors.stale(id))
}

func (c *Client) DeleteDirector(ctx context.Context, id string) error {
	return remove(ctx, c, directors, id)
}

// Actors lists the visible actors, newest first.
func (c *Client) Actors(ctx context.Context) ([]model.Actor, error) {
	return fetch[[]model.Actor](ctx, c, actors.list, actors.path())
}

func (c *Client) Actor(ctx context.Context, id string) (model.Actor, error) {
	return fetch[model.Actor](ctx, c, actors.key(id), actors.recordPath(id))
}

func (c *Client) CreateActor(ctx context.Context, in model.PersonInput) (model.Actor, error) {
	return mutate[model.Actor](ctx, c, http.MethodPost, actors.path(), in, actors.stale(""))
}

func (c *Client) UpdateActor(ctx context.Context, id string, p model.PersonPatch) (model.Actor, error) {
	return mutate[model.Actor](ctx, c, http.MethodPut, actors.recordPath(id), p, actors.stale(id))
}

func (c *Client) DeleteActor(ctx context.Context, id string) error {
	return remove(ctx, c, actors, id)
}
