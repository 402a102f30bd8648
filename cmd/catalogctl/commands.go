package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/client"
	"github.com/iliyamo/movie-catalog/internal/view"
	"github.com/iliyamo/movie-catalog/internal/watchlist"
)

// lists picks the local file store or the server-side lists.
func (a *app) lists(remote bool) watchlist.Store {
	if remote {
		return client.NewRemoteStore(a.api)
	}
	return watchlist.NewFileStore(filepath.Join(a.home, "lists.json"))
}

func set(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func (a *app) movies(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("movies", flag.ContinueOnError)
	var f view.Filter
	var from, to optDate
	var rMin, rMax, dMin, dMax optFloat
	fs.StringVar(&f.Search, "search", "", "substring of title or description")
	fs.StringVar(&f.Genre, "genre", "", "exact genre")
	fs.StringVar(&f.Country, "country", "", "exact country")
	fs.Var(&from, "from", "released on or after (YYYY-MM-DD)")
	fs.Var(&to, "to", "released on or before (YYYY-MM-DD)")
	fs.Var(&rMin, "rating-min", "minimum rating (default 0)")
	fs.Var(&rMax, "rating-max", "maximum rating (default 10)")
	fs.Var(&dMin, "duration-min", "minimum minutes (default 0)")
	fs.Var(&dMax, "duration-max", "maximum minutes (default 999)")
	sortBy := fs.String("sort", string(view.DefaultSort), "one of "+sortNames())
	mine := fs.Bool("mine", false, "only movies you own")
	onlyFav := fs.Bool("favorites", false, "only favorites")
	onlyWatched := fs.Bool("watched", false, "only watched")
	facets := fs.Bool("facets", false, "print available genres and countries")
	remote := fs.Bool("remote", false, "use server-side lists")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f.ReleaseFrom, f.ReleaseTo = from.time(), to.time()
	f.RatingFrom, f.RatingTo = rMin.v, rMax.v
	f.DurationFrom, f.DurationTo = dMin.v, dMax.v

	s, err := a.requireSession()
	if err != nil {
		return err
	}
	list, err := a.api.Movies(ctx)
	if err != nil {
		return err
	}
	favs, watched := a.listIDs(ctx, s.UserID, *remote)

	if *facets {
		fmt.Println("genres:   ", strings.Join(view.Genres(list), ", "))
		fmt.Println("countries:", strings.Join(view.Countries(list), ", "))
	}
	if *mine {
		list = view.Mine(list, s.UserID)
	}
	if *onlyFav {
		list = view.ByIDs(list, favs)
	}
	if *onlyWatched {
		list = view.ByIDs(list, watched)
	}
	list = view.Sort(f.Apply(list), view.SortOption(*sortBy), watched)
	printMovies(os.Stdout, list, set(favs), set(watched))
	return nil
}

// listIDs reads both lists; a failing list is shown as empty.
func (a *app) listIDs(ctx context.Context, userID string, remote bool) (favs, watched []string) {
	store := a.lists(remote)
	favs, err := store.List(ctx, userID, watchlist.Favorites)
	if err != nil {
		warn("favorites: %v", err)
	}
	watched, err = store.List(ctx, userID, watchlist.Watched)
	if err != nil {
		warn("watched: %v", err)
	}
	return favs, watched
}

func sortNames() string {
	names := make([]string, len(view.SortOptions))
	for i, o := range view.SortOptions {
		names[i] = string(o)
	}
	return strings.Join(names, ", ")
}

func idFlag(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" && fs.NArg() > 0 {
		*id = fs.Arg(0)
	}
	if *id == "" {
		return "", fmt.Errorf("%s: -id is required", name)
	}
	return *id, nil
}

func (a *app) movie(ctx context.Context, args []string) error {
	id, err := idFlag("movie", args)
	if err != nil {
		return err
	}
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	m, err := a.api.Movie(ctx, id)
	if err != nil {
		return err
	}
	printMovie(m, view.ShowsEditControls(s.Requester(), m.Owner))
	return nil
}

func (a *app) directors(ctx context.Context) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	ds, err := a.api.Directors(ctx)
	if err != nil {
		return err
	}
	printPeople(os.Stdout, persons(ds, directorPerson))
	return nil
}

func (a *app) actors(ctx context.Context) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	as, err := a.api.Actors(ctx)
	if err != nil {
		return err
	}
	printPeople(os.Stdout, persons(as, actorPerson))
	return nil
}

func (a *app) director(ctx context.Context, args []string) error {
	id, err := idFlag("director", args)
	if err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}
	d, err := a.api.Director(ctx, id)
	if err != nil {
		return err
	}
	movies, err := a.api.Movies(ctx)
	if err != nil {
		return err
	}
	printPerson(d.Person, "director")
	fmt.Println("\nfilmography:")
	printMovies(os.Stdout, view.MoviesByDirector(movies, d.ID), nil, nil)
	return nil
}

func (a *app) actor(ctx context.Context, args []string) error {
	id, err := idFlag("actor", args)
	if err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}
	p, err := a.api.Actor(ctx, id)
	if err != nil {
		return err
	}
	movies, err := a.api.Movies(ctx)
	if err != nil {
		return err
	}
	printPerson(p.Person, "actor")
	fmt.Println("\nfilmography:")
	printMovies(os.Stdout, view.MoviesByActor(movies, p.ID), nil, nil)
	return nil
}

func (a *app) list(ctx context.Context, kind string, args []string) error {
	fs := flag.NewFlagSet(kind, flag.ContinueOnError)
	remote := fs.Bool("remote", false, "use server-side lists")
	if len(args) == 0 {
		return errUsage
	}
	op := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	k, err := watchlist.ParseKind(kind)
	if err != nil {
		return err
	}
	store := a.lists(*remote)

	if op == "ls" {
		ids, err := store.List(ctx, s.UserID, k)
		if err != nil {
			return err
		}
		movies, err := a.api.Movies(ctx)
		if err != nil {
			return err
		}
		printMovies(os.Stdout, view.ByIDs(movies, ids), nil, nil)
		return nil
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%s %s: movie id required", kind, op)
	}
	movieID := fs.Arg(0)
	switch op {
	case "add":
		return store.Add(ctx, s.UserID, k, movieID)
	case "rm":
		return store.Remove(ctx, s.UserID, k, movieID)
	case "toggle":
		on, err := watchlist.Toggle(ctx, store, s.UserID, k, movieID)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %v\n", kind, on)
		return nil
	}
	return errUsage
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	remote := fs.Bool("remote", false, "use server-side lists")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.requireSession()
	if err != nil {
		return err
	}
	movies, err := a.api.Movies(ctx)
	if err != nil {
		return err
	}
	directors, err := a.api.Directors(ctx)
	if err != nil {
		return err
	}
	actors, err := a.api.Actors(ctx)
	if err != nil {
		return err
	}
	favs, watched := a.listIDs(ctx, s.UserID, *remote)
	d := view.BuildDashboard(movies, directors, actors, favs, watched)

	fmt.Printf("movies %d  directors %d  actors %d  favorites %d  watched %d  avg rating %.1f\n\n",
		d.Movies, d.Directors, d.Actors, d.Favorites, d.Watched, d.AverageRating)
	fmt.Println("recent movies:")
	printMovies(os.Stdout, d.RecentMovies, set(favs), set(watched))
	fmt.Println("\nrecent directors:")
	printPeople(os.Stdout, persons(d.RecentDirectors, directorPerson))
	fmt.Println("\nrecent actors:")
	printPeople(os.Stdout, persons(d.RecentActors, actorPerson))
	return nil
}
