package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/client"
	"github.com/iliyamo/movie-catalog/internal/model"
)

func TestMovieFlags_PatchOnlyGivenFields(t *testing.T) {
	fs := flag.NewFlagSet("update movie", flag.ContinueOnError)
	var mf movieFlags
	mf.bind(fs)
	require.NoError(t, fs.Parse([]string{"-rating", "9", "-title", "New", "-actors", "a, b,,"}))

	p := mf.patch(visited(fs))
	require.NotNil(t, p.Rating)
	assert.Equal(t, 9.0, *p.Rating)
	require.NotNil(t, p.Title)
	assert.Equal(t, "New", *p.Title)
	require.NotNil(t, p.Actors)
	assert.Equal(t, []string{"a", "b"}, *p.Actors)
	assert.Nil(t, p.Duration)
	assert.Nil(t, p.Genre)
	assert.Nil(t, p.ReleaseDate)
}

func TestMovieFlags_UnsetNumbersStayMissing(t *testing.T) {
	fs := flag.NewFlagSet("create movie", flag.ContinueOnError)
	var mf movieFlags
	mf.bind(fs)
	require.NoError(t, fs.Parse([]string{"-title", "T", "-release", "1999-03-31"}))

	in := mf.input(visited(fs))
	assert.Nil(t, in.Duration)
	assert.Nil(t, in.Rating)
	assert.Equal(t, 1999, in.ReleaseDate.Year())
	assert.Equal(t, []string{}, in.Actors)
}

func TestOptFloat(t *testing.T) {
	var o optFloat
	assert.Nil(t, o.v)
	require.NoError(t, o.Set("7.5"))
	assert.Equal(t, "7.5", o.String())
	assert.Error(t, o.Set("high"))
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	want := client.Session{UserID: "u1", Email: "a@x.io", Role: model.RoleAdmin, Token: "t"}
	require.NoError(t, saveSession(path, want))
	got, err := loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
