package model

import "time"

// Movie is a catalog entry.  Director and Actors are references that may
// arrive expanded (list/get) or as bare ids (create/update responses).
type Movie struct {
    ID          string                `json:"_id"`
    Title       string                `json:"title"`
    Genre       string                `json:"genre"`
    ReleaseDate Date                  `json:"releaseDate"`
    Duration    int                   `json:"duration"` // minutes
    Director    Reference[Director]   `json:"director"`
    Actors      []Reference[Actor]    `json:"actors"`
    Rating      float64               `json:"rating"`
    Description string                `json:"description"`
    ImageURL    string                `json:"imageUrl,omitempty"`
    Country     string                `json:"country,omitempty"`
    TeaserURL   string                `json:"teaserUrl,omitempty"`
    Owner       Reference[UserRef]    `json:"userId"`
    CreatedAt   time.Time             `json:"createdAt"`
    UpdatedAt   time.Time             `json:"updatedAt"`
}

// RefID implements Identified.
func (m Movie) RefID() string { return m.ID }

// OwnerID returns the id of the owning user.
func (m Movie) OwnerID() string { return m.Owner.ID() }

// ActorIDs returns the ids of all referenced actors.
func (m Movie) ActorIDs() []string { return RefIDs(m.Actors) }

// MovieInput is the create payload for movies.  Rating and Duration are
// pointers so that a missing value can be told apart from zero.
type MovieInput struct {
    Title       string   `json:"title" validate:"required"`
    Genre       string   `json:"genre" validate:"required"`
    ReleaseDate Date     `json:"releaseDate" validate:"required"`
    Duration    *int     `json:"duration" validate:"required,gt=0"`
    Director    string   `json:"director" validate:"required,uuid"`
    Actors      []string `json:"actors" validate:"dive,uuid"`
    Rating      *float64 `json:"rating" validate:"required,gte=0,lte=10"`
    Description string   `json:"description" validate:"required"`
    ImageURL    string   `json:"imageUrl"`
    Country     string   `json:"country"`
    TeaserURL   string   `json:"teaserUrl"`
}

// Movie builds a record owned by ownerID.  Callers validate first, so the
// pointer fields are set.
func (in MovieInput) Movie(ownerID string) Movie {
    m := Movie{
        Title:       in.Title,
        Genre:       in.Genre,
        ReleaseDate: in.ReleaseDate,
        Director:    Ref[Director](in.Director),
        Actors:      actorRefs(in.Actors),
        Description: in.Description,
        ImageURL:    in.ImageURL,
        Country:     in.Country,
        TeaserURL:   in.TeaserURL,
        Owner:       Ref[UserRef](ownerID),
    }
    if in.Duration != nil {
        m.Duration = *in.Duration
    }
    if in.Rating != nil {
        m.Rating = *in.Rating
    }
    return m
}

// MoviePatch is a partial movie update.
type MoviePatch struct {
    Title       *string   `json:"title,omitempty" validate:"omitempty,min=1"`
    Genre       *string   `json:"genre,omitempty" validate:"omitempty,min=1"`
    ReleaseDate *Date     `json:"releaseDate,omitempty" validate:"omitempty"`
    Duration    *int      `json:"duration,omitempty" validate:"omitempty,gt=0"`
    Director    *string   `json:"director,omitempty" validate:"omitempty,uuid"`
    Actors      *[]string `json:"actors,omitempty" validate:"omitempty,dive,uuid"`
    Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
    Description *string   `json:"description,omitempty" validate:"omitempty,min=1"`
    ImageURL    *string   `json:"imageUrl,omitempty"`
    Country     *string   `json:"country,omitempty"`
    TeaserURL   *string   `json:"teaserUrl,omitempty"`
}

// Apply merges the provided fields into m.
func (p MoviePatch) Apply(m *Movie) {
    if p.Title != nil {
        m.Title = *p.Title
    }
    if p.Genre != nil {
        m.Genre = *p.Genre
    }
    if p.ReleaseDate != nil {
        m.ReleaseDate = *p.ReleaseDate
    }
    if p.Duration != nil {
        m.Duration = *p.Duration
    }
    if p.Director != nil {
        m.Director = Ref[Director](*p.Director)
    }
    if p.Actors != nil {
        m.Actors = actorRefs(*p.Actors)
    }
    if p.Rating != nil {
        m.Rating = *p.Rating
    }
    if p.Description != nil {
        m.Description = *p.Description
    }
    if p.ImageURL != nil {
        m.ImageURL = *p.ImageURL
    }
    if p.Country != nil {
        m.Country = *p.Country
    }
    if p.TeaserURL != nil {
        m.TeaserURL = *p.TeaserURL
    }
}

// actorRefs converts ids into references, dropping duplicates since the
// actor list is a set.
func actorRefs(ids []string) []Reference[Actor] {
    seen := make(map[string]bool, len(ids))
    out := make([]Reference[Actor], 0, len(ids))
    for _, id := range ids {
        if id == "" || seen[id] {
            continue
        }
        seen[id] = true
        out = append(out, Ref[Actor](id))
    }
    return out
}
