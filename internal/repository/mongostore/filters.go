package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// visibleFilter is the read rule as a query:
// {$or: [{user_id: me}, {user_id: {$in: admins}}]}.
func visibleFilter(s policy.ReadScope) bson.M {
	admins := s.AdminIDs
	if admins == nil {
		admins = []string{}
	}
	return bson.M{"$or": bson.A{
		bson.M{"user_id": s.RequesterID},
		bson.M{"user_id": bson.M{"$in": admins}},
	}}
}

// visibleByID narrows visibleFilter to one document.
func visibleByID(id string, s policy.ReadScope) bson.M {
	f := visibleFilter(s)
	f["_id"] = id
	return f
}

// ownedByID is the write rule as a query.
func ownedByID(id string, s policy.WriteScope) bson.M {
	return bson.M{"_id": id, "user_id": s.OwnerID}
}

// newestFirst sorts like the SQL stores.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
}

// personSet translates a patch into a $set document.  Only provided fields
// appear; updated_at is always set.
func personSet(p model.PersonPatch, ts time.Time) bson.M {
	set := bson.M{"updated_at": ts}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Nationality != nil {
		set["nationality"] = *p.Nationality
	}
	if p.BirthDate != nil {
		set["birth_date"] = p.BirthDate.Time
	}
	if p.Bio != nil {
		set["bio"] = *p.Bio
	}
	if p.ImageURL != nil {
		set["image_url"] = *p.ImageURL
	}
	return bson.M{"$set": set}
}

// movieSet is personSet for movies.  Actor ids are merged through the
// model so duplicates are dropped the same way as on create.
func movieSet(p model.MoviePatch, ts time.Time) bson.M {
	set := bson.M{"updated_at": ts}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Genre != nil {
		set["genre"] = *p.Genre
	}
	if p.ReleaseDate != nil {
		set["release_date"] = p.ReleaseDate.Time
	}
	if p.Duration != nil {
		set["duration"] = *p.Duration
	}
	if p.Director != nil {
		set["director_id"] = *p.Director
	}
	if p.Actors != nil {
		var m model.Movie
		p.Apply(&m)
		set["actor_ids"] = m.ActorIDs()
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ImageURL != nil {
		set["image_url"] = *p.ImageURL
	}
	if p.Country != nil {
		set["country"] = *p.Country
	}
	if p.TeaserURL != nil {
		set["teaser_url"] = *p.TeaserURL
	}
	return bson.M{"$set": set}
}
