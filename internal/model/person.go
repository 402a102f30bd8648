package model

import "time"

// Person holds the fields shared by directors and actors.  Both resources
// have the same shape and the same required-field rule; only ImageURL is
// optional.
type Person struct {
    ID          string             `json:"_id"`
    Name        string             `json:"name"`
    Nationality string             `json:"nationality"`
    BirthDate   Date               `json:"birthDate"`
    Bio         string             `json:"bio"`
    ImageURL    string             `json:"imageUrl,omitempty"`
    Owner       Reference[UserRef] `json:"userId"`
    CreatedAt   time.Time          `json:"createdAt"`
    UpdatedAt   time.Time          `json:"updatedAt"`
}

// RefID implements Identified.
func (p Person) RefID() string { return p.ID }

// OwnerID returns the id of the owning user.
func (p Person) OwnerID() string { return p.Owner.ID() }

// Director is a film director record.
type Director struct {
    Person
}

// Actor is a film actor record.
type Actor struct {
    Person
}

// PersonInput is the create payload for directors and actors.
type PersonInput struct {
    Name        string `json:"name" validate:"required"`
    Nationality string `json:"nationality" validate:"required"`
    BirthDate   Date   `json:"birthDate" validate:"required"`
    Bio         string `json:"bio" validate:"required"`
    ImageURL    string `json:"imageUrl"`
}

// Person builds a record owned by ownerID.  ID and timestamps are assigned
// by the store.
func (in PersonInput) Person(ownerID string) Person {
    return Person{
        Name:        in.Name,
        Nationality: in.Nationality,
        BirthDate:   in.BirthDate,
        Bio:         in.Bio,
        ImageURL:    in.ImageURL,
        Owner:       Ref[UserRef](ownerID),
    }
}

// PersonPatch is a partial update: nil fields are left untouched.
type PersonPatch struct {
    Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
    Nationality *string `json:"nationality,omitempty" validate:"omitempty,min=1"`
    BirthDate   *Date   `json:"birthDate,omitempty" validate:"omitempty"`
    Bio         *string `json:"bio,omitempty" validate:"omitempty,min=1"`
    ImageURL    *string `json:"imageUrl,omitempty"`
}

// Apply merges the provided fields into p.
func (pp PersonPatch) Apply(p *Person) {
    if pp.Name != nil {
        p.Name = *pp.Name
    }
    if pp.Nationality != nil {
        p.Nationality = *pp.Nationality
    }
    if pp.BirthDate != nil {
        p.BirthDate = *pp.BirthDate
    }
    if pp.Bio != nil {
        p.Bio = *pp.Bio
    }
    if pp.ImageURL != nil {
        p.ImageURL = *pp.ImageURL
    }
}

// Empty reports whether the patch carries no fields.
func (pp PersonPatch) Empty() bool {
    return pp.Name == nil && pp.Nationality == nil && pp.BirthDate == nil && pp.Bio == nil && pp.ImageURL == nil
}
