package client_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/client"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database/dbtest"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/view"
	"github.com/iliyamo/movie-catalog/internal/watchlist"
)

func startAPI(t *testing.T) string {
	t.Helper()
	db := dbtest.New(t)
	users := repository.NewUserRepo(db)
	cfg := config.Config{JWTSecret: "e2e", AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4}

	e := echo.New()
	e.Validator = middleware.NewValidator()
	deps := handler.Deps{Users: users}
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db)), cfg.JWTSecret)
	router.RegisterCatalog(e, router.Catalog{
		Directors: handler.NewDirectorHandler(repository.NewDirectorRepo(db), deps),
		Actors:    handler.NewActorHandler(repository.NewActorRepo(db), deps),
		Movies:    handler.NewMovieHandler(repository.NewMovieRepo(db), deps),
	}, cfg.JWTSecret, nil, nil)
	router.RegisterLists(e, handler.NewListHandler(watchlist.NewMemoryStore()), cfg.JWTSecret)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv.URL + router.APIPrefix
}

func TestEndToEnd_CatalogThroughClient(t *testing.T) {
	base := startAPI(t)
	ctx := t.Context()
	c := client.New(base, time.Minute)

	require.NoError(t, c.Register(ctx, "Ann", "ann@example.com", "secret123"))
	err := c.Register(ctx, "Ann", "ann@example.com", "secret123")
	require.Error(t, err)
	assert.Equal(t, "email already exists", err.Error())

	sess, err := c.Login(ctx, "ann@example.com", "secret123")
	require.NoError(t, err)

	d, err := c.CreateDirector(ctx, model.PersonInput{
		Name: "Agnès Varda", Nationality: "French", BirthDate: model.NewDate(time.Date(1928, 5, 30, 0, 0, 0, 0, time.UTC)), Bio: "b",
	})
	require.NoError(t, err)

	duration, rating := 90, 7.5
	in := model.MovieInput{
		Title: "Cléo from 5 to 7", Genre: "Drama", ReleaseDate: model.NewDate(time.Date(1962, 4, 11, 0, 0, 0, 0, time.UTC)),
		Duration: &duration, Director: d.ID, Rating: &rating, Description: "Paris", Country: "France",
	}
	m, err := c.CreateMovie(ctx, in)
	require.NoError(t, err)

	list, err := c.Movies(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, view.MoviesByDirector(list, d.ID), 1)
	assert.Len(t, view.Mine(list, sess.UserID), 1)

	// A rename must show through the movie's embedded director.
	name := "Agnès Varda (renamed)"
	_, err = c.UpdateDirector(ctx, d.ID, model.PersonPatch{Name: &name})
	require.NoError(t, err)
	got, err := c.Movie(ctx, m.ID)
	require.NoError(t, err)
	dir, ok := got.Director.Expanded()
	require.True(t, ok)
	assert.Equal(t, name, dir.Name)

	bad := 11.0
	_, err = c.UpdateMovie(ctx, m.ID, model.MoviePatch{Rating: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Movie validation failed")

	store := client.NewRemoteStore(c)
	on, err := watchlist.Toggle(ctx, store, sess.UserID, watchlist.Watched, m.ID)
	require.NoError(t, err)
	assert.True(t, on)
	watched, err := store.List(ctx, sess.UserID, watchlist.Watched)
	require.NoError(t, err)
	assert.Equal(t, []string{m.ID}, watched)

	require.NoError(t, c.DeleteMovie(ctx, m.ID))
	_, err = c.Movie(ctx, m.ID)
	assert.True(t, client.IsNotFound(err))

	require.NoError(t, c.Logout(ctx))
	_, err = c.Movies(ctx)
	assert.Error(t, err)
}
