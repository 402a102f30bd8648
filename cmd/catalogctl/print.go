package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/iliyamo/movie-catalog/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func year(d model.Date) string {
	if y := d.Year(); y != 0 {
		return strconv.Itoa(y)
	}
	return "-"
}

// directorName prefers the expanded name and falls back to the bare id.
func directorName(m model.Movie) string {
	if d, ok := m.Director.Expanded(); ok {
		return d.Name
	}
	if id := m.Director.ID(); id != "" {
		return id
	}
	return "-"
}

func actorNames(m model.Movie) string {
	names := make([]string, 0, len(m.Actors))
	for _, a := range m.Actors {
		if v, ok := a.Expanded(); ok {
			names = append(names, v.Name)
		} else {
			names = append(names, a.ID())
		}
	}
	return strings.Join(names, ", ")
}

func printMovies(w io.Writer, movies []model.Movie, favorites, watched map[string]bool) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tGENRE\tRATING\tMIN\tDIRECTOR\tLISTS")
	for _, m := range movies {
		marks := ""
		if favorites[m.ID] {
			marks += "fav "
		}
		if watched[m.ID] {
			marks += "watched"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%d\t%s\t%s\n",
			m.ID, m.Title, year(m.ReleaseDate), m.Genre, m.Rating, m.Duration, directorName(m), strings.TrimSpace(marks))
	}
	tw.Flush()
}

func printPeople(w io.Writer, people []model.Person) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tNATIONALITY\tBORN")
	for _, p := range people {
		born := "-"
		if !p.BirthDate.IsZero() {
			born = p.BirthDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Nationality, born)
	}
	tw.Flush()
}

func printPerson(p model.Person, role string) {
	fmt.Printf("%s (%s)\n", p.Name, role)
	fmt.Printf("  nationality: %s\n", p.Nationality)
	if !p.BirthDate.IsZero() {
		fmt.Printf("  born:        %s\n", p.BirthDate.Format("2006-01-02"))
	}
	if p.ImageURL != "" {
		fmt.Printf("  image:       %s\n", p.ImageURL)
	}
	fmt.Printf("  bio:         %s\n", p.Bio)
}

func printMovie(m model.Movie, editable bool) {
	fmt.Printf("%s (%s)\n", m.Title, year(m.ReleaseDate))
	fmt.Printf("  genre:    %s\n", m.Genre)
	fmt.Printf("  rating:   %.1f/10\n", m.Rating)
	fmt.Printf("  duration: %d min\n", m.Duration)
	fmt.Printf("  director: %s\n", directorName(m))
	if len(m.Actors) > 0 {
		fmt.Printf("  actors:   %s\n", actorNames(m))
	}
	if m.Country != "" {
		fmt.Printf("  country:  %s\n", m.Country)
	}
	if m.TeaserURL != "" {
		fmt.Printf("  teaser:   %s\n", m.TeaserURL)
	}
	fmt.Printf("  %s\n", m.Description)
	if editable {
		fmt.Println("  (you can edit or delete this movie)")
	}
}

func persons[T any](recs []T, person func(T) model.Person) []model.Person {
	out := make([]model.Person, len(recs))
	for i, r := range recs {
		out[i] = person(r)
	}
	return out
}

func directorPerson(d model.Director) model.Person { return d.Person }
func actorPerson(a model.Actor) model.Person       { return a.Person }

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
