package view

import (
	"sort"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// SortOption names one of the list orderings.
type SortOption string

const (
	RatingDesc   SortOption = "ratingDesc"
	RatingAsc    SortOption = "ratingAsc"
	YearDesc     SortOption = "yearDesc"
	YearAsc      SortOption = "yearAsc"
	DurationDesc SortOption = "durationDesc"
	DurationAsc  SortOption = "durationAsc"

	DefaultSort = YearDesc
)

// SortOptions lists the valid options in display order.
var SortOptions = []SortOption{RatingDesc, RatingAsc, YearDesc, YearAsc, DurationDesc, DurationAsc}

// less returns the comparator for opt, or nil for an unknown option.
func (opt SortOption) less() func(a, b model.Movie) bool {
	switch opt {
	case RatingDesc:
		return func(a, b model.Movie) bool { return a.Rating > b.Rating }
	case RatingAsc:
		return func(a, b model.Movie) bool { return a.Rating < b.Rating }
	case YearDesc:
		return func(a, b model.Movie) bool { return a.ReleaseDate.Year() > b.ReleaseDate.Year() }
	case YearAsc:
		return func(a, b model.Movie) bool { return a.ReleaseDate.Year() < b.ReleaseDate.Year() }
	case DurationDesc:
		return func(a, b model.Movie) bool { return a.Duration > b.Duration }
	case DurationAsc:
		return func(a, b model.Movie) bool { return a.Duration < b.Duration }
	}
	return nil
}

// Sort returns a sorted copy.  Movies not in watched come first, then the
// watched ones; each tier is ordered by opt.  The sort is stable, and an
// unknown option keeps the input order within each tier.  An empty option
// means DefaultSort.
func Sort(movies []model.Movie, opt SortOption, watched []string) []model.Movie {
	if opt == "" {
		opt = DefaultSort
	}
	seen := make(map[string]bool, len(watched))
	for _, id := range watched {
		seen[id] = true
	}
	out := append([]model.Movie(nil), movies...)
	less := opt.less()
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := seen[out[i].ID], seen[out[j].ID]
		if wi != wj {
			return !wi
		}
		if less == nil {
			return false
		}
		return less(out[i], out[j])
	})
	return out
}
