// Package view holds the derived views the catalog UI computes from the
// lists it already fetched: filtering, sorting, facets, cross references
// and the dashboard summary.  Nothing here talks to the server.
package view

import (
	"strings"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Slider bounds used when a rating or duration bound is not set.
const (
	DefaultRatingMin   = 0.0
	DefaultRatingMax   = 10.0
	DefaultDurationMin = 0.0
	DefaultDurationMax = 999.0
)

// Filter narrows a movie list.  Every set criterion must match.
type Filter struct {
	Search       string // case-insensitive substring of title or description
	Genre        string // exact
	Country      string // exact
	ReleaseFrom  *time.Time
	ReleaseTo    *time.Time
	RatingFrom   *float64
	RatingTo     *float64
	DurationFrom *float64
	DurationTo   *float64
}

// Apply returns the matching movies in input order.
func (f Filter) Apply(movies []model.Movie) []model.Movie {
	out := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Match reports whether m passes every criterion.
func (f Filter) Match(m model.Movie) bool {
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		if !strings.Contains(strings.ToLower(m.Title), s) && !strings.Contains(strings.ToLower(m.Description), s) {
			return false
		}
	}
	if f.Genre != "" && m.Genre != f.Genre {
		return false
	}
	if f.Country != "" && m.Country != f.Country {
		return false
	}
	if !f.matchRelease(m.ReleaseDate) {
		return false
	}
	if !between(m.Rating, f.RatingFrom, f.RatingTo, DefaultRatingMin, DefaultRatingMax) {
		return false
	}
	return between(float64(m.Duration), f.DurationFrom, f.DurationTo, DefaultDurationMin, DefaultDurationMax)
}

// matchRelease applies inclusive date bounds.  A movie without a release
// date fails as soon as either bound is set.
func (f Filter) matchRelease(d model.Date) bool {
	if f.ReleaseFrom == nil && f.ReleaseTo == nil {
		return true
	}
	if d.IsZero() {
		return false
	}
	if f.ReleaseFrom != nil && d.Before(*f.ReleaseFrom) {
		return false
	}
	if f.ReleaseTo != nil && d.After(*f.ReleaseTo) {
		return false
	}
	return true
}

func between(v float64, lo, hi *float64, defLo, defHi float64) bool {
	from, to := defLo, defHi
	if lo != nil {
		from = *lo
	}
	if hi != nil {
		to = *hi
	}
	return v >= from && v <= to
}

// Genres returns the distinct non-empty genres in first-seen order.
func Genres(movies []model.Movie) []string {
	return distinct(movies, func(m model.Movie) string { return m.Genre })
}

// Countries returns the distinct non-empty countries in first-seen order.
func Countries(movies []model.Movie) []string {
	return distinct(movies, func(m model.Movie) string { return m.Country })
}

func distinct(movies []model.Movie, field func(model.Movie) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range movies {
		v := field(m)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
