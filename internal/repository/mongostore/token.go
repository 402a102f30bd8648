package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/movie-catalog/internal/repository"
)

// TokenStore keeps refresh token hashes.  Expired documents are also
// reaped by the TTL index on expires_at.
type TokenStore struct{ coll *mongo.Collection }

func NewTokenStore(db *mongo.Database) *TokenStore { return &TokenStore{coll: db.Collection(colTokens)} }

var _ repository.TokenStore = (*TokenStore)(nil)

func (s *TokenStore) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	_, err := s.coll.InsertOne(ctx, tokenDoc{
		Hash:      tokenHash,
		UserID:    userID,
		ExpiresAt: exp.UTC(),
		CreatedAt: repository.Now(),
	})
	return err
}

func (s *TokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var d tokenDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": tokenHash}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if d.RevokedAt != nil || time.Now().UTC().After(d.ExpiresAt) {
		return "", repository.ErrNotFound
	}
	return d.UserID, nil
}

func (s *TokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": tokenHash, "revoked_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revoked_at": repository.Now()}})
	return err
}

func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "revoked_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revoked_at": repository.Now()}})
	return err
}
