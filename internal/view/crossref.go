package view

import (
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// MoviesByDirector returns the movies whose director reference names id.
func MoviesByDirector(movies []model.Movie, id string) []model.Movie {
	out := []model.Movie{}
	for _, m := range movies {
		if m.Director.ID() == id {
			out = append(out, m)
		}
	}
	return out
}

// MoviesByActor returns the movies whose actor set contains id.
func MoviesByActor(movies []model.Movie, id string) []model.Movie {
	out := []model.Movie{}
	for _, m := range movies {
		for _, a := range m.Actors {
			if a.ID() == id {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Mine keeps the movies owned by userID (the "my movies" tab).
func Mine(movies []model.Movie, userID string) []model.Movie {
	return policy.FilterWritable(policy.WriteScope{OwnerID: userID}, movies, model.Movie.OwnerID)
}

// ByIDs returns the movies whose id is in ids, in movie-list order.  Ids
// that are not in the list are ignored.
func ByIDs(movies []model.Movie, ids []string) []model.Movie {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []model.Movie{}
	for _, m := range movies {
		if want[m.ID] {
			out = append(out, m)
		}
	}
	return out
}
