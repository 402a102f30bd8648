package mongostore

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

// UserStore relies on the unique email index from database.EnsureIndexes.
type UserStore struct{ coll *mongo.Collection }

func NewUserStore(db *mongo.Database) *UserStore { return &UserStore{coll: db.Collection(colUsers)} }

var _ repository.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, name, email, password string, role model.Role, cost int) (model.User, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	ts := repository.Now()
	d := userDoc{
		ID:           repository.NewID(),
		Name:         strings.TrimSpace(name),
		Email:        repository.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         string(model.ParseRole(string(role))),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, repository.ErrEmailExists
		}
		return model.User{}, err
	}
	return d.model(), nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return s.findOne(ctx, bson.M{"email": repository.NormalizeEmail(email)})
}

func (s *UserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	if err := repository.CheckID(id); err != nil {
		return model.User{}, err
	}
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (model.User, error) {
	var d userDoc
	err := s.coll.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, repository.ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return d.model(), nil
}

func (s *UserStore) AdminIDs(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{"role": string(model.RoleAdmin)},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
