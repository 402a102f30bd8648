package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// personFlags binds the director/actor fields.
type personFlags struct {
	name, nationality, bio, image string
	birth                         optDate
}

func (p *personFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&p.name, "name", "", "name")
	fs.StringVar(&p.nationality, "nationality", "", "nationality")
	fs.Var(&p.birth, "birth", "birth date (YYYY-MM-DD)")
	fs.StringVar(&p.bio, "bio", "", "biography")
	fs.StringVar(&p.image, "image", "", "image URL")
}

func (p *personFlags) input() model.PersonInput {
	in := model.PersonInput{Name: p.name, Nationality: p.nationality, Bio: p.bio, ImageURL: p.image}
	if p.birth.v != nil {
		in.BirthDate = *p.birth.v
	}
	return in
}

func (p *personFlags) patch(given map[string]bool) model.PersonPatch {
	var pp model.PersonPatch
	if given["name"] {
		pp.Name = &p.name
	}
	if given["nationality"] {
		pp.Nationality = &p.nationality
	}
	if given["birth"] {
		pp.BirthDate = p.birth.v
	}
	if given["bio"] {
		pp.Bio = &p.bio
	}
	if given["image"] {
		pp.ImageURL = &p.image
	}
	return pp
}

// movieFlags binds the movie fields.
type movieFlags struct {
	title, genre, director, actors, description, image, country, teaser string
	duration                                                            int
	rating                                                              float64
	release                                                             optDate
}

func (m *movieFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&m.title, "title", "", "title")
	fs.StringVar(&m.genre, "genre", "", "genre")
	fs.Var(&m.release, "release", "release date (YYYY-MM-DD)")
	fs.IntVar(&m.duration, "duration", 0, "minutes, > 0")
	fs.StringVar(&m.director, "director", "", "director id")
	fs.StringVar(&m.actors, "actors", "", "comma separated actor ids")
	fs.Float64Var(&m.rating, "rating", 0, "rating 0-10")
	fs.StringVar(&m.description, "description", "", "description")
	fs.StringVar(&m.image, "image", "", "poster URL")
	fs.StringVar(&m.country, "country", "", "country")
	fs.StringVar(&m.teaser, "teaser", "", "teaser URL")
}

func (m *movieFlags) input(given map[string]bool) model.MovieInput {
	in := model.MovieInput{
		Title:       m.title,
		Genre:       m.genre,
		Director:    m.director,
		Actors:      splitIDs(m.actors),
		Description: m.description,
		ImageURL:    m.image,
		Country:     m.country,
		TeaserURL:   m.teaser,
	}
	if m.release.v != nil {
		in.ReleaseDate = *m.release.v
	}
	// Unset numbers stay nil so the server reports them as missing.
	if given["duration"] {
		in.Duration = &m.duration
	}
	if given["rating"] {
		in.Rating = &m.rating
	}
	return in
}

func (m *movieFlags) patch(given map[string]bool) model.MoviePatch {
	var p model.MoviePatch
	str := map[string]**string{
		"title": &p.Title, "genre": &p.Genre, "director": &p.Director, "description": &p.Description,
		"image": &p.ImageURL, "country": &p.Country, "teaser": &p.TeaserURL,
	}
	src := map[string]*string{
		"title": &m.title, "genre": &m.genre, "director": &m.director, "description": &m.description,
		"image": &m.image, "country": &m.country, "teaser": &m.teaser,
	}
	for name, dst := range str {
		if given[name] {
			*dst = src[name]
		}
	}
	if given["release"] {
		p.ReleaseDate = m.release.v
	}
	if given["duration"] {
		p.Duration = &m.duration
	}
	if given["rating"] {
		p.Rating = &m.rating
	}
	if given["actors"] {
		ids := splitIDs(m.actors)
		p.Actors = &ids
	}
	return p
}

func (a *app) create(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}
	kind, fs := args[0], flag.NewFlagSet("create "+args[0], flag.ContinueOnError)
	switch kind {
	case "director", "actor":
		var pf personFlags
		pf.bind(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if kind == "director" {
			d, err := a.api.CreateDirector(ctx, pf.input())
			if err != nil {
				return err
			}
			fmt.Println("created director", d.ID)
			return nil
		}
		p, err := a.api.CreateActor(ctx, pf.input())
		if err != nil {
			return err
		}
		fmt.Println("created actor", p.ID)
		return nil
	case "movie":
		var mf movieFlags
		mf.bind(fs)
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		m, err := a.api.CreateMovie(ctx, mf.input(visited(fs)))
		if err != nil {
			return err
		}
		fmt.Println("created movie", m.ID)
		return nil
	}
	return errUsage
}

func (a *app) update(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}
	kind, fs := args[0], flag.NewFlagSet("update "+args[0], flag.ContinueOnError)
	id := fs.String("id", "", "record id")
	var pf personFlags
	var mf movieFlags
	switch kind {
	case "director", "actor":
		pf.bind(fs)
	case "movie":
		mf.bind(fs)
	default:
		return errUsage
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("update %s: -id is required", kind)
	}
	given := visited(fs)

	var err error
	switch kind {
	case "director":
		_, err = a.api.UpdateDirector(ctx, *id, pf.patch(given))
	case "actor":
		_, err = a.api.UpdateActor(ctx, *id, pf.patch(given))
	case "movie":
		_, err = a.api.UpdateMovie(ctx, *id, mf.patch(given))
	}
	if err != nil {
		return err
	}
	fmt.Println("updated", kind, *id)
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	id, err := idFlag("delete "+args[0], args[1:])
	if err != nil {
		return err
	}
	if _, err := a.requireSession(); err != nil {
		return err
	}
	switch args[0] {
	case "director":
		err = a.api.DeleteDirector(ctx, id)
	case "actor":
		err = a.api.DeleteActor(ctx, id)
	case "movie":
		err = a.api.DeleteMovie(ctx, id)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	fmt.Println("deleted", args[0], id)
	return nil
}
