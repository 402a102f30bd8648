package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database/dbtest"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/utils"
	"github.com/iliyamo/movie-catalog/internal/watchlist"
)

const secret = "handler-test-secret"

type server struct {
	e      *echo.Echo
	users  *repository.UserRepo
	events *queue.Recorder
	cfg    config.Config
}

func newServer(t *testing.T) *server {
	t.Helper()
	db := dbtest.New(t)
	users := repository.NewUserRepo(db)
	events := &queue.Recorder{}
	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4}

	e := echo.New()
	e.Validator = middleware.NewValidator()
	deps := handler.Deps{Users: users, Events: events}
	router.RegisterRoutes(e, nil)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db)), secret)
	router.RegisterCatalog(e, router.Catalog{
		Directors: handler.NewDirectorHandler(repository.NewDirectorRepo(db), deps),
		Actors:    handler.NewActorHandler(repository.NewActorRepo(db), deps),
		Movies:    handler.NewMovieHandler(repository.NewMovieRepo(db), deps),
	}, secret, nil, nil)
	router.RegisterLists(e, handler.NewListHandler(watchlist.NewMemoryStore()), secret)
	return &server{e: e, users: users, events: events, cfg: cfg}
}

// user creates an account and returns a bearer token for it.
func (s *server) user(t *testing.T, email string, role model.Role) (model.User, string) {
	t.Helper()
	u, err := s.users.Create(context.Background(), "name", email, "password1", role, 4)
	require.NoError(t, err)
	tok, err := utils.NewAccessToken(secret, u.ID, string(u.Role), 5)
	require.NoError(t, err)
	return u, tok.Token
}

func (s *server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = strings.NewReader(string(b))
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func movieBody(directorID string, rating float64, duration int) map[string]any {
	return map[string]any{
		"title":       "Stalker",
		"genre":       "Sci-Fi",
		"releaseDate": "1979-05-25",
		"duration":    duration,
		"director":    directorID,
		"actors":      []string{},
		"rating":      rating,
		"description": "The Zone",
		"country":     "USSR",
	}
}

func TestMovies_OwnershipAndVisibility(t *testing.T) {
	s := newServer(t)
	x, tx := s.user(t, "x@example.com", model.RoleUser)
	_, ty := s.user(t, "y@example.com", model.RoleUser)
	_, tz := s.user(t, "z@example.com", model.RoleAdmin)
	dirID := repository.NewID()

	// X creates M.
	rec := s.do(t, http.MethodPost, "/api/movies", tx, movieBody(dirID, 8.1, 161))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decode[model.Movie](t, rec)
	assert.Equal(t, x.ID, m.OwnerID())
	assert.Equal(t, dirID, m.Director.ID())

	// Y cannot see it.
	rec = s.do(t, http.MethodGet, "/api/movies/"+m.ID, ty, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Movie not found"}`, rec.Body.String())

	// Neither can admin Z: visibility follows the owner's role, not the reader's.
	rec = s.do(t, http.MethodGet, "/api/movies/"+m.ID, tz, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Y cannot update it.
	rec = s.do(t, http.MethodPut, "/api/movies/"+m.ID, ty, map[string]any{"rating": 9})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Movie not found or unauthorized"}`, rec.Body.String())

	// X updates the rating; other fields are kept.
	rec = s.do(t, http.MethodPut, "/api/movies/"+m.ID, tx, map[string]any{"rating": 9})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upd := decode[model.Movie](t, rec)
	assert.Equal(t, 9.0, upd.Rating)
	assert.Equal(t, "Stalker", upd.Title)

	// Y cannot delete it; X can.
	rec = s.do(t, http.MethodDelete, "/api/movies/"+m.ID, ty, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/movies/"+m.ID, tx, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Movie deleted successfully"}`, rec.Body.String())
	rec = s.do(t, http.MethodGet, "/api/movies/"+m.ID, tx, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovies_AdminRecordsAreShared(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)
	_, ty := s.user(t, "y@example.com", model.RoleUser)
	_, tz := s.user(t, "z@example.com", model.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/api/movies", tz, movieBody(repository.NewID(), 7, 100))
	require.Equal(t, http.StatusCreated, rec.Code)
	shared := decode[model.Movie](t, rec)
	rec = s.do(t, http.MethodPost, "/api/movies", tx, movieBody(repository.NewID(), 6, 90))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/movies/"+shared.ID, ty, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[model.Movie](t, rec)
	owner, ok := got.Owner.Expanded()
	require.True(t, ok)
	assert.Equal(t, model.RoleAdmin, owner.Role)

	rec = s.do(t, http.MethodGet, "/api/movies", ty, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Movie](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/movies", tx, nil)
	assert.Len(t, decode[[]model.Movie](t, rec), 2)

	// Shared does not mean writable, for users or other admins.
	rec = s.do(t, http.MethodPut, "/api/movies/"+shared.ID, tx, map[string]any{"rating": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, tz2 := s.user(t, "z2@example.com", model.RoleAdmin)
	rec = s.do(t, http.MethodDelete, "/api/movies/"+shared.ID, tz2, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovies_Validation(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)

	rec := s.do(t, http.MethodPost, "/api/movies", tx, movieBody(repository.NewID(), 11, 100))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Contains(t, body["error"], "Movie validation failed")
	assert.Contains(t, body["error"], "rating")

	rec = s.do(t, http.MethodPost, "/api/movies", tx, movieBody(repository.NewID(), 5, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration")

	missingDirector := movieBody("", 5, 90)
	delete(missingDirector, "director")
	rec = s.do(t, http.MethodPost, "/api/movies", tx, missingDirector)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "director")

	rec = s.do(t, http.MethodPost, "/api/movies", tx, movieBody("not-an-id", 5, 90))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad := movieBody(repository.NewID(), 5, 90)
	bad["releaseDate"] = "yesterday"
	rec = s.do(t, http.MethodPost, "/api/movies", tx, bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Partial updates are validated too.
	rec = s.do(t, http.MethodPost, "/api/movies", tx, movieBody(repository.NewID(), 5, 90))
	require.Equal(t, http.StatusCreated, rec.Code)
	m := decode[model.Movie](t, rec)
	rec = s.do(t, http.MethodPut, "/api/movies/"+m.ID, tx, map[string]any{"rating": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovies_ClientOwnerIgnored(t *testing.T) {
	s := newServer(t)
	x, tx := s.user(t, "x@example.com", model.RoleUser)
	y, _ := s.user(t, "y@example.com", model.RoleUser)

	body := movieBody(repository.NewID(), 5, 90)
	body["userId"] = y.ID
	rec := s.do(t, http.MethodPost, "/api/movies", tx, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, x.ID, decode[model.Movie](t, rec).OwnerID())
}

func TestMovies_ExpandsPeople(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)

	person := map[string]any{"name": "Andrei Tarkovsky", "nationality": "Soviet", "birthDate": "1932-04-04", "bio": "b"}
	rec := s.do(t, http.MethodPost, "/api/directors", tx, person)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	d := decode[model.Director](t, rec)
	person["name"] = "Alisa Freindlich"
	rec = s.do(t, http.MethodPost, "/api/actors", tx, person)
	require.Equal(t, http.StatusCreated, rec.Code)
	a := decode[model.Actor](t, rec)

	body := movieBody(d.ID, 8, 161)
	body["actors"] = []string{a.ID}
	rec = s.do(t, http.MethodPost, "/api/movies", tx, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/movies", tx, nil)
	list := decode[[]model.Movie](t, rec)
	require.Len(t, list, 1)
	dir, ok := list[0].Director.Expanded()
	require.True(t, ok)
	assert.Equal(t, "Andrei Tarkovsky", dir.Name)
	require.Len(t, list[0].Actors, 1)
	act, ok := list[0].Actors[0].Expanded()
	require.True(t, ok)
	assert.Equal(t, "Alisa Freindlich", act.Name)
}

func TestPeople_CRUDMessages(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)
	_, ty := s.user(t, "y@example.com", model.RoleUser)

	rec := s.do(t, http.MethodPost, "/api/actors", tx, map[string]any{"name": "only a name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Actor validation failed")

	rec = s.do(t, http.MethodPost, "/api/actors", tx,
		map[string]any{"name": "Anna", "nationality": "FR", "birthDate": "1960-01-01T00:00:00Z", "bio": "b"})
	require.Equal(t, http.StatusCreated, rec.Code)
	a := decode[model.Actor](t, rec)

	rec = s.do(t, http.MethodGet, "/api/actors/"+a.ID, ty, nil)
	assert.JSONEq(t, `{"message":"Actor not found"}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/api/actors/"+a.ID, tx, map[string]any{"bio": "updated"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "updated", decode[model.Actor](t, rec).Bio)

	rec = s.do(t, http.MethodDelete, "/api/actors/"+a.ID, ty, nil)
	assert.JSONEq(t, `{"message":"Actor not found or unauthorized"}`, rec.Body.String())
	rec = s.do(t, http.MethodDelete, "/api/actors/"+a.ID, tx, nil)
	assert.JSONEq(t, `{"message":"Actor deleted successfully"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/directors/garbage-id", tx, nil)
	assert.JSONEq(t, `{"message":"Director not found"}`, rec.Body.String())
}

func TestCatalog_UpdateCannotClearRequiredDates(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)

	rec := s.do(t, http.MethodPost, "/api/directors", tx,
		map[string]any{"name": "Agnes", "nationality": "BE", "birthDate": "1928-05-30", "bio": "b"})
	require.Equal(t, http.StatusCreated, rec.Code)
	d := decode[model.Director](t, rec)

	rec = s.do(t, http.MethodPut, "/api/directors/"+d.ID, tx, map[string]any{"birthDate": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "birthDate: is required")

	rec = s.do(t, http.MethodPost, "/api/movies", tx, movieBody(d.ID, 7, 90))
	require.Equal(t, http.StatusCreated, rec.Code)
	m := decode[model.Movie](t, rec)

	rec = s.do(t, http.MethodPut, "/api/movies/"+m.ID, tx, map[string]any{"releaseDate": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "releaseDate: is required")

	rec = s.do(t, http.MethodGet, "/api/movies/"+m.ID, tx, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1979, decode[model.Movie](t, rec).ReleaseDate.Year())
	rec = s.do(t, http.MethodGet, "/api/directors/"+d.ID, tx, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1928, decode[model.Director](t, rec).BirthDate.Year())
}

func TestCatalog_RequiresBearer(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/api/movies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/movies", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCatalog_PublishesEvents(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)
	rec := s.do(t, http.MethodPost, "/api/movies", tx, movieBody(repository.NewID(), 5, 90))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[model.Movie](t, rec).ID

	assert.Eventually(t, func() bool {
		for _, ev := range s.events.Events() {
			if ev.Resource == "movies" && ev.Action == queue.ActionCreated && ev.ID == id {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

type fakeCache struct{ bumped [][]string }

func (f *fakeCache) Bump(_ context.Context, resources ...string) error {
	f.bumped = append(f.bumped, resources)
	return nil
}

func TestCatalog_InvalidatesEmbeddingResources(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepo(db)
	cache := &fakeCache{}
	e := echo.New()
	e.Validator = middleware.NewValidator()
	h := handler.NewDirectorHandler(repository.NewDirectorRepo(db), handler.Deps{Users: users, Cache: cache})

	req := httptest.NewRequest(http.MethodPost, "/api/directors",
		strings.NewReader(`{"name":"n","nationality":"x","birthDate":"1950-01-01","bio":"b"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, repository.NewID(), model.RoleUser)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, [][]string{{"directors", "movies"}}, cache.bumped)
}

func TestAuth_Flow(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]any{"name": "Ann", "email": "Ann@Example.com", "password": "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "message")

	rec = s.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]any{"name": "Ann", "email": "ann@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]any{"name": "Boss", "email": "boss@example.com", "password": "secret123", "role": "admin"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/register", "",
		map[string]any{"name": "Bad", "email": "not-an-email", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ann@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ann@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
		Token   string `json:"token"`
		Refresh struct {
			Token string `json:"token"`
		} `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "user", login.User.Role)
	require.NotEmpty(t, login.Token)

	rec = s.do(t, http.MethodGet, "/api/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ann@example.com")

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refresh_token": login.Refresh.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	// The old refresh token was rotated out.
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]any{"refresh_token": login.Refresh.Token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuth_AdminSignupWhenAllowed(t *testing.T) {
	db := dbtest.New(t)
	users := repository.NewUserRepo(db)
	e := echo.New()
	e.Validator = middleware.NewValidator()
	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: 4, AllowAdminSignup: true}
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, repository.NewTokenRepo(db)), secret)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Boss","email":"boss@example.com","password":"secret123","role":"admin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	admins, err := users.AdminIDs(context.Background())
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}

func TestLists(t *testing.T) {
	s := newServer(t)
	_, tx := s.user(t, "x@example.com", model.RoleUser)
	_, ty := s.user(t, "y@example.com", model.RoleUser)

	rec := s.do(t, http.MethodPost, "/api/me/lists/favorites/m1", tx, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/me/lists/favorites/m1", tx, nil)
	assert.JSONEq(t, `{"kind":"favorites","ids":["m1"]}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/me/lists/favorites", ty, nil)
	assert.JSONEq(t, `{"kind":"favorites","ids":[]}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/me/lists/favorites/m1", tx, nil)
	assert.JSONEq(t, `{"kind":"favorites","ids":[]}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/me/lists/later", tx, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	router.RegisterRoutes(e, map[string]handler.Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("down") },
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","failed":["redis"]}`, rec.Body.String())
}
