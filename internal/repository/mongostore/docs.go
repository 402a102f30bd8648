// Package mongostore implements the repository contracts on MongoDB.  It is
// selected with STORE_DRIVER=mongo and shares ids, errors and visibility
// semantics with the SQL stores.
package mongostore

import (
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

const (
	colUsers     = "users"
	colTokens    = "refresh_tokens"
	colDirectors = "directors"
	colActors    = "actors"
	colMovies    = "movies"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d userDoc) model() model.User {
	return model.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         model.ParseRole(d.Role),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type tokenDoc struct {
	Hash      string     `bson:"_id"`
	UserID    string     `bson:"user_id"`
	ExpiresAt time.Time  `bson:"expires_at"`
	RevokedAt *time.Time `bson:"revoked_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at"`
}

type personDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Nationality string    `bson:"nationality"`
	BirthDate   time.Time `bson:"birth_date"`
	Bio         string    `bson:"bio"`
	ImageURL    string    `bson:"image_url"`
	UserID      string    `bson:"user_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newPersonDoc(p model.Person) personDoc {
	return personDoc{
		ID:          p.ID,
		Name:        p.Name,
		Nationality: p.Nationality,
		BirthDate:   p.BirthDate.Time,
		Bio:         p.Bio,
		ImageURL:    p.ImageURL,
		UserID:      p.OwnerID(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d personDoc) model() model.Person {
	return model.Person{
		ID:          d.ID,
		Name:        d.Name,
		Nationality: d.Nationality,
		BirthDate:   model.NewDate(d.BirthDate),
		Bio:         d.Bio,
		ImageURL:    d.ImageURL,
		Owner:       model.Ref[model.UserRef](d.UserID),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// summary is the reduced person embedded in movie responses.
func (d personDoc) summary() model.Person {
	return model.Person{ID: d.ID, Name: d.Name, ImageURL: d.ImageURL, Nationality: d.Nationality, Bio: d.Bio}
}

type movieDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Genre       string    `bson:"genre"`
	ReleaseDate time.Time `bson:"release_date"`
	Duration    int       `bson:"duration"`
	DirectorID  string    `bson:"director_id"`
	ActorIDs    []string  `bson:"actor_ids"`
	Rating      float64   `bson:"rating"`
	Description string    `bson:"description"`
	ImageURL    string    `bson:"image_url"`
	Country     string    `bson:"country"`
	TeaserURL   string    `bson:"teaser_url"`
	UserID      string    `bson:"user_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newMovieDoc(m model.Movie) movieDoc {
	return movieDoc{
		ID:          m.ID,
		Title:       m.Title,
		Genre:       m.Genre,
		ReleaseDate: m.ReleaseDate.Time,
		Duration:    m.Duration,
		DirectorID:  m.Director.ID(),
		ActorIDs:    m.ActorIDs(),
		Rating:      m.Rating,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Country:     m.Country,
		TeaserURL:   m.TeaserURL,
		UserID:      m.OwnerID(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// model returns the movie with every reference bare.
func (d movieDoc) model() model.Movie {
	actors := make([]model.Reference[model.Actor], 0, len(d.ActorIDs))
	for _, id := range d.ActorIDs {
		actors = append(actors, model.Ref[model.Actor](id))
	}
	return model.Movie{
		ID:          d.ID,
		Title:       d.Title,
		Genre:       d.Genre,
		ReleaseDate: model.NewDate(d.ReleaseDate),
		Duration:    d.Duration,
		Director:    model.Ref[model.Director](d.DirectorID),
		Actors:      actors,
		Rating:      d.Rating,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Country:     d.Country,
		TeaserURL:   d.TeaserURL,
		Owner:       model.Ref[model.UserRef](d.UserID),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
