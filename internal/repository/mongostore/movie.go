package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

// MovieStore keeps movies with director and actor ids inline.  References
// are expanded after the read with one query per referenced collection.
type MovieStore struct {
	coll      *mongo.Collection
	directors *mongo.Collection
	actors    *mongo.Collection
	users     *mongo.Collection
}

func NewMovieStore(db *mongo.Database) *MovieStore {
	return &MovieStore{
		coll:      db.Collection(colMovies),
		directors: db.Collection(colDirectors),
		actors:    db.Collection(colActors),
		users:     db.Collection(colUsers),
	}
}

var _ repository.MovieStore = (*MovieStore)(nil)

func (s *MovieStore) Create(ctx context.Context, m *model.Movie) error {
	ts := repository.Now()
	m.ID = repository.NewID()
	m.CreatedAt, m.UpdatedAt = ts, ts
	_, err := s.coll.InsertOne(ctx, newMovieDoc(*m))
	return err
}

func (s *MovieStore) List(ctx context.Context, scope policy.ReadScope) ([]model.Movie, error) {
	cur, err := s.coll.Find(ctx, visibleFilter(scope), newestFirst())
	if err != nil {
		return nil, err
	}
	var docs []movieDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return s.expand(ctx, docs, true)
}

func (s *MovieStore) Get(ctx context.Context, id string, scope policy.ReadScope) (model.Movie, error) {
	if err := repository.CheckID(id); err != nil {
		return model.Movie{}, err
	}
	var d movieDoc
	err := s.coll.FindOne(ctx, visibleByID(id, scope)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Movie{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	out, err := s.expand(ctx, []movieDoc{d}, true)
	if err != nil {
		return model.Movie{}, err
	}
	return out[0], nil
}

// Update returns director and actors expanded and the owner bare.
func (s *MovieStore) Update(ctx context.Context, id string, scope policy.WriteScope, patch model.MoviePatch) (model.Movie, error) {
	if err := repository.CheckID(id); err != nil {
		return model.Movie{}, err
	}
	var d movieDoc
	err := s.coll.FindOneAndUpdate(ctx, ownedByID(id, scope), movieSet(patch, repository.Now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Movie{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	out, err := s.expand(ctx, []movieDoc{d}, false)
	if err != nil {
		return model.Movie{}, err
	}
	return out[0], nil
}

func (s *MovieStore) Delete(ctx context.Context, id string, scope policy.WriteScope) error {
	if err := repository.CheckID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, ownedByID(id, scope))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// expand converts docs into movies and replaces every reference that
// still resolves with its summary.
func (s *MovieStore) expand(ctx context.Context, docs []movieDoc, withOwner bool) ([]model.Movie, error) {
	var dirIDs, actorIDs, ownerIDs []string
	for _, d := range docs {
		dirIDs = append(dirIDs, d.DirectorID)
		actorIDs = append(actorIDs, d.ActorIDs...)
		ownerIDs = append(ownerIDs, d.UserID)
	}
	dirs, err := summaries(ctx, s.directors, dirIDs)
	if err != nil {
		return nil, err
	}
	acts, err := summaries(ctx, s.actors, actorIDs)
	if err != nil {
		return nil, err
	}
	roles := map[string]model.Role{}
	if withOwner {
		if roles, err = ownerRoles(ctx, s.users, ownerIDs); err != nil {
			return nil, err
		}
	}

	out := make([]model.Movie, 0, len(docs))
	for _, d := range docs {
		m := d.model()
		if p, ok := dirs[d.DirectorID]; ok {
			m.Director = model.Expand(model.Director{Person: p})
		}
		for i, ref := range m.Actors {
			if p, ok := acts[ref.ID()]; ok {
				m.Actors[i] = model.Expand(model.Actor{Person: p})
			}
		}
		if withOwner {
			m.Owner = expandOwner(d.UserID, roles)
		}
		out = append(out, m)
	}
	return out, nil
}

// summaries loads name, image, nationality and bio for the given ids.
func summaries(ctx context.Context, coll *mongo.Collection, ids []string) (map[string]model.Person, error) {
	out := map[string]model.Person{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{
		"_id": 1, "name": 1, "image_url": 1, "nationality": 1, "bio": 1,
	}))
	if err != nil {
		return nil, err
	}
	var docs []personDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d.summary()
	}
	return out, nil
}
