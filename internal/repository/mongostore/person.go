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

// PersonStore keeps directors or actors in one collection.
type PersonStore[T any] struct {
	coll   *mongo.Collection
	users  *mongo.Collection
	wrap   func(model.Person) T
	unwrap func(*T) *model.Person
}

func NewDirectorStore(db *mongo.Database) *PersonStore[model.Director] {
	return &PersonStore[model.Director]{
		coll:   db.Collection(colDirectors),
		users:  db.Collection(colUsers),
		wrap:   func(p model.Person) model.Director { return model.Director{Person: p} },
		unwrap: func(d *model.Director) *model.Person { return &d.Person },
	}
}

func NewActorStore(db *mongo.Database) *PersonStore[model.Actor] {
	return &PersonStore[model.Actor]{
		coll:   db.Collection(colActors),
		users:  db.Collection(colUsers),
		wrap:   func(p model.Person) model.Actor { return model.Actor{Person: p} },
		unwrap: func(a *model.Actor) *model.Person { return &a.Person },
	}
}

var (
	_ repository.DirectorStore = (*PersonStore[model.Director])(nil)
	_ repository.ActorStore    = (*PersonStore[model.Actor])(nil)
)

func (s *PersonStore[T]) Create(ctx context.Context, rec *T) error {
	p := s.unwrap(rec)
	ts := repository.Now()
	p.ID = repository.NewID()
	p.CreatedAt, p.UpdatedAt = ts, ts
	_, err := s.coll.InsertOne(ctx, newPersonDoc(*p))
	return err
}

func (s *PersonStore[T]) List(ctx context.Context, scope policy.ReadScope) ([]T, error) {
	cur, err := s.coll.Find(ctx, visibleFilter(scope), newestFirst())
	if err != nil {
		return nil, err
	}
	var docs []personDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	roles, err := ownerRoles(ctx, s.users, personOwners(docs))
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		p := d.model()
		p.Owner = expandOwner(d.UserID, roles)
		out = append(out, s.wrap(p))
	}
	return out, nil
}

func (s *PersonStore[T]) Get(ctx context.Context, id string, scope policy.ReadScope) (T, error) {
	var zero T
	if err := repository.CheckID(id); err != nil {
		return zero, err
	}
	var d personDoc
	err := s.coll.FindOne(ctx, visibleByID(id, scope)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, repository.ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	roles, err := ownerRoles(ctx, s.users, []string{d.UserID})
	if err != nil {
		return zero, err
	}
	p := d.model()
	p.Owner = expandOwner(d.UserID, roles)
	return s.wrap(p), nil
}

func (s *PersonStore[T]) Update(ctx context.Context, id string, scope policy.WriteScope, patch model.PersonPatch) (T, error) {
	var zero T
	if err := repository.CheckID(id); err != nil {
		return zero, err
	}
	var d personDoc
	err := s.coll.FindOneAndUpdate(ctx, ownedByID(id, scope), personSet(patch, repository.Now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, repository.ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return s.wrap(d.model()), nil
}

func (s *PersonStore[T]) Delete(ctx context.Context, id string, scope policy.WriteScope) error {
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

func personOwners(docs []personDoc) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.UserID)
	}
	return ids
}

// ownerRoles loads the role of each owner id in one query.
func ownerRoles(ctx context.Context, users *mongo.Collection, ids []string) (map[string]model.Role, error) {
	roles := map[string]model.Role{}
	if len(ids) == 0 {
		return roles, nil
	}
	cur, err := users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1, "role": 1}))
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, u := range docs {
		roles[u.ID] = model.ParseRole(u.Role)
	}
	return roles, nil
}

// expandOwner mirrors the SQL LEFT JOIN: unknown owners stay bare.
func expandOwner(id string, roles map[string]model.Role) model.Reference[model.UserRef] {
	role, ok := roles[id]
	if !ok {
		return model.Ref[model.UserRef](id)
	}
	return model.Expand(model.UserRef{ID: id, Role: role})
}
