package view

import (
	"math"
	"sort"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// RecentCount is how many of each resource the dashboard shows.
const RecentCount = 3

// Dashboard is the home page summary.
type Dashboard struct {
	Movies          int
	Directors       int
	Actors          int
	Favorites       int
	Watched         int
	AverageRating   float64 // one decimal, 0 when there are no movies
	RecentMovies    []model.Movie
	RecentDirectors []model.Director
	RecentActors    []model.Actor
}

// BuildDashboard summarizes the visible lists.  Favorite and watched counts
// only include ids that are still in the movie list.
func BuildDashboard(movies []model.Movie, directors []model.Director, actors []model.Actor, favorites, watched []string) Dashboard {
	return Dashboard{
		Movies:          len(movies),
		Directors:       len(directors),
		Actors:          len(actors),
		Favorites:       len(ByIDs(movies, favorites)),
		Watched:         len(ByIDs(movies, watched)),
		AverageRating:   AverageRating(movies),
		RecentMovies:    recent(movies, func(m model.Movie) time.Time { return m.CreatedAt }),
		RecentDirectors: recent(directors, func(d model.Director) time.Time { return d.CreatedAt }),
		RecentActors:    recent(actors, func(a model.Actor) time.Time { return a.CreatedAt }),
	}
}

// AverageRating is the mean rating rounded to one decimal.
func AverageRating(movies []model.Movie) float64 {
	if len(movies) == 0 {
		return 0
	}
	var sum float64
	for _, m := range movies {
		sum += m.Rating
	}
	return math.Round(sum/float64(len(movies))*10) / 10
}

// recent returns the RecentCount newest records.
func recent[T any](recs []T, created func(T) time.Time) []T {
	out := append([]T(nil), recs...)
	sort.SliceStable(out, func(i, j int) bool { return created(out[i]).After(created(out[j])) })
	if len(out) > RecentCount {
		out = out[:RecentCount]
	}
	return out
}
