package repository

import (
	"context"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// Store is the contract every catalog resource implements, whatever the
// backend.  Reads take a ReadScope and writes a WriteScope; a record outside
// the scope is reported as ErrNotFound.
type Store[T any, P any] interface {
	// Create assigns the id and timestamps and persists rec.  The owner
	// reference must already be set.
	Create(ctx context.Context, rec *T) error
	// List returns the visible records, newest first.
	List(ctx context.Context, scope policy.ReadScope) ([]T, error)
	// Get returns one visible record.
	Get(ctx context.Context, id string, scope policy.ReadScope) (T, error)
	// Update merges patch into the record if scope owns it.
	Update(ctx context.Context, id string, scope policy.WriteScope, patch P) (T, error)
	// Delete removes the record if scope owns it.
	Delete(ctx context.Context, id string, scope policy.WriteScope) error
}

type (
	DirectorStore = Store[model.Director, model.PersonPatch]
	ActorStore    = Store[model.Actor, model.PersonPatch]
	MovieStore    = Store[model.Movie, model.MoviePatch]
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, role model.Role, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
	// AdminIDs returns the ids of every admin account.  It is queried on
	// each read so a newly registered admin is visible immediately.
	AdminIDs(ctx context.Context) ([]string, error)
}

// TokenStore persists refresh token hashes.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (string, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// now is the timestamp source for every store.  Millisecond precision
// matches DATETIME(3) and BSON dates.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// Now is exported for the Mongo stores.
func Now() time.Time { return now() }
