package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/watchlist"
)

// fakeAPI counts GETs per path and answers with canned bodies.
type fakeAPI struct {
	mu     sync.Mutex
	gets   map[string]int
	auth   []string
	lists  map[string][]string
	gate   chan struct{}
	status int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *Client) {
	f := &fakeAPI{gets: map[string]int{}, lists: map[string][]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, New(srv.URL+"/api", time.Minute)
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets[path]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	if r.Method == http.MethodGet {
		f.gets[r.URL.Path]++
	}
	gate, status := f.gate, f.status
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"Movie not found"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch {
	case path == "/auth/login":
		_, _ = w.Write([]byte(`{"user":{"id":"u1","name":"Ann","email":"a@x.io","role":"user"},"token":"tok","refresh":{"token":"r1"}}`))
	case strings.HasPrefix(path, "/me/lists/"):
		parts := strings.Split(strings.TrimPrefix(path, "/me/lists/"), "/")
		f.mu.Lock()
		ids := f.lists[parts[0]]
		if len(parts) == 2 {
			switch r.Method {
			case http.MethodPost:
				ids = append(ids, parts[1])
			case http.MethodDelete:
				ids = nil
			}
			f.lists[parts[0]] = ids
		}
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"kind": parts[0], "ids": ids})
	case path == "/movies" || path == "/directors" || path == "/actors":
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"_id":"new"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"_id":"m1","title":"Stalker"}]`))
	case r.Method == http.MethodDelete:
		_, _ = w.Write([]byte(`{"message":"deleted successfully"}`))
	default:
		_, _ = w.Write([]byte(`{"_id":"m1","title":"Stalker"}`))
	}
}

func TestFetch_CachesPerKey(t *testing.T) {
	f, c := newFakeAPI(t)
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		ms, err := c.Movies(ctx)
		require.NoError(t, err)
		require.Len(t, ms, 1)
		_, err = c.Movie(ctx, "m1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.count("/api/movies"))
	assert.Equal(t, 1, f.count("/api/movies/m1"))
}

func TestFetch_ConcurrentReadsShareOneRequest(t *testing.T) {
	f, c := newFakeAPI(t)
	f.gate = make(chan struct{})
	ctx := t.Context()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Movies(ctx)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(f.gate)
	wg.Wait()
	assert.Equal(t, 1, f.count("/api/movies"))
}

func TestMutations_InvalidateAffectedKeys(t *testing.T) {
	f, c := newFakeAPI(t)
	ctx := t.Context()
	warm := func() {
		_, _ = c.Movies(ctx)
		_, _ = c.Movie(ctx, "m1")
		_, _ = c.Directors(ctx)
	}
	warm()

	rating := 9.0
	_, err := c.UpdateMovie(ctx, "m1", model.MoviePatch{Rating: &rating})
	require.NoError(t, err)
	warm()
	assert.Equal(t, 2, f.count("/api/movies"))
	assert.Equal(t, 2, f.count("/api/movies/m1"))
	assert.Equal(t, 1, f.count("/api/directors"), "movie writes leave directors cached")

	// Movies embed directors, so a director write drops movie reads too.
	require.NoError(t, c.DeleteDirector(ctx, "d1"))
	warm()
	assert.Equal(t, 3, f.count("/api/movies"))
	assert.Equal(t, 3, f.count("/api/movies/m1"))
	assert.Equal(t, 2, f.count("/api/directors"))

	_, err = c.CreateActor(ctx, model.PersonInput{Name: "n"})
	require.NoError(t, err)
	warm()
	assert.Equal(t, 4, f.count("/api/movies"))
}

func TestAPIError_CarriesServerMessage(t *testing.T) {
	f, c := newFakeAPI(t)
	f.status = http.StatusNotFound

	_, err := c.Movie(t.Context(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Movie not found", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestLogin_SetsBearer(t *testing.T) {
	f, c := newFakeAPI(t)
	s, err := c.Login(t.Context(), "a@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", s.UserID)
	assert.Equal(t, model.RoleUser, s.Role)
	assert.Equal(t, "r1", s.RefreshToken)

	_, err = c.Movies(t.Context())
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "Bearer tok", f.auth[len(f.auth)-1])
}

func TestSetSession_FlushesCache(t *testing.T) {
	f, c := newFakeAPI(t)
	_, _ = c.Movies(t.Context())
	c.SetSession(Session{UserID: "other", Token: "t2"})
	_, _ = c.Movies(t.Context())
	assert.Equal(t, 2, f.count("/api/movies"))
}

func TestRemoteStore(t *testing.T) {
	_, c := newFakeAPI(t)
	s := NewRemoteStore(c)
	ctx := t.Context()

	ids, err := s.List(ctx, "", watchlist.Favorites)
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)

	require.NoError(t, s.Add(ctx, "", watchlist.Favorites, "m1"))
	ok, err := s.Contains(ctx, "", watchlist.Favorites, "m1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Remove(ctx, "", watchlist.Favorites, "m1"))
	ok, err = s.Contains(ctx, "", watchlist.Favorites, "m1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.List(ctx, "", watchlist.Kind("later"))
	assert.ErrorIs(t, err, watchlist.ErrUnknownKind)
}
