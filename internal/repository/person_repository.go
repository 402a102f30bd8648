package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// PersonRepo stores one of the two person tables (directors, actors).  The
// rows are identical; T is the record type handed to callers and
// wrap/unwrap convert between it and the shared model.Person.
type PersonRepo[T any] struct {
	db     *sql.DB
	table  string
	wrap   func(model.Person) T
	unwrap func(*T) *model.Person
}

// NewDirectorRepo returns the SQL director store.
func NewDirectorRepo(db *sql.DB) *PersonRepo[model.Director] {
	return &PersonRepo[model.Director]{
		db:     db,
		table:  "directors",
		wrap:   func(p model.Person) model.Director { return model.Director{Person: p} },
		unwrap: func(d *model.Director) *model.Person { return &d.Person },
	}
}

// NewActorRepo returns the SQL actor store.
func NewActorRepo(db *sql.DB) *PersonRepo[model.Actor] {
	return &PersonRepo[model.Actor]{
		db:     db,
		table:  "actors",
		wrap:   func(p model.Person) model.Actor { return model.Actor{Person: p} },
		unwrap: func(a *model.Actor) *model.Person { return &a.Person },
	}
}

var (
	_ DirectorStore = (*PersonRepo[model.Director])(nil)
	_ ActorStore    = (*PersonRepo[model.Actor])(nil)
)

const personCols = "p.id, p.name, p.nationality, p.birth_date, p.bio, p.image_url, p.user_id, p.created_at, p.updated_at"

// Create inserts rec and fills in its id and timestamps.
func (r *PersonRepo[T]) Create(ctx context.Context, rec *T) error {
	p := r.unwrap(rec)
	ts := now()
	p.ID = NewID()
	p.CreatedAt, p.UpdatedAt = ts, ts
	q := fmt.Sprintf(`INSERT INTO %s (id, name, nationality, birth_date, bio, image_url, user_id, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?)`, r.table)
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Nationality, p.BirthDate.Time, p.Bio, p.ImageURL, p.OwnerID(), p.CreatedAt, p.UpdatedAt)
	return err
}

// List returns visible rows newest first, with the owner's role expanded.
func (r *PersonRepo[T]) List(ctx context.Context, scope policy.ReadScope) ([]T, error) {
	owners := scope.Owners()
	if len(owners) == 0 {
		return []T{}, nil
	}
	q := fmt.Sprintf(`SELECT %s, COALESCE(u.role, '') FROM %s p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.user_id IN (%s)
		ORDER BY p.created_at DESC, p.id DESC`, personCols, r.table, placeholders(len(owners)))
	rows, err := r.db.QueryContext(ctx, q, toArgs(owners)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		p, err := scanPerson(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, r.wrap(p))
	}
	return out, rows.Err()
}

// Get returns one visible row with the owner's role expanded.
func (r *PersonRepo[T]) Get(ctx context.Context, id string, scope policy.ReadScope) (T, error) {
	var zero T
	if err := CheckID(id); err != nil {
		return zero, err
	}
	owners := scope.Owners()
	if len(owners) == 0 {
		return zero, ErrNotFound
	}
	q := fmt.Sprintf(`SELECT %s, COALESCE(u.role, '') FROM %s p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.id = ? AND p.user_id IN (%s)`, personCols, r.table, placeholders(len(owners)))
	args := append([]any{id}, toArgs(owners)...)
	p, err := scanPerson(r.db.QueryRowContext(ctx, q, args...), true)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}
	return r.wrap(p), nil
}

// Update merges patch into the row owned by scope.  The owner comes back
// as a bare id.
func (r *PersonRepo[T]) Update(ctx context.Context, id string, scope policy.WriteScope, patch model.PersonPatch) (T, error) {
	var zero T
	if err := CheckID(id); err != nil {
		return zero, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s p WHERE p.id = ? AND p.user_id = ?", personCols, r.table)
	p, err := scanPerson(r.db.QueryRowContext(ctx, q, id, scope.OwnerID), false)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err
	}

	patch.Apply(&p)
	p.UpdatedAt = now()
	upd := fmt.Sprintf(`UPDATE %s SET name=?, nationality=?, birth_date=?, bio=?, image_url=?, updated_at=?
		WHERE id=? AND user_id=?`, r.table)
	if _, err := r.db.ExecContext(ctx, upd,
		p.Name, p.Nationality, p.BirthDate.Time, p.Bio, p.ImageURL, p.UpdatedAt, id, scope.OwnerID); err != nil {
		return zero, err
	}
	return r.wrap(p), nil
}

// Delete removes the row owned by scope.  Movies referencing it keep the
// dangling id.
func (r *PersonRepo[T]) Delete(ctx context.Context, id string, scope policy.WriteScope) error {
	if err := CheckID(id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", r.table), id, scope.OwnerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPerson reads personCols, plus the owner role when withRole is set.
func scanPerson(s rowScanner, withRole bool) (model.Person, error) {
	var (
		p       model.Person
		birth   time.Time
		ownerID string
		role    string
	)
	dest := []any{&p.ID, &p.Name, &p.Nationality, &birth, &p.Bio, &p.ImageURL, &ownerID, &p.CreatedAt, &p.UpdatedAt}
	if withRole {
		dest = append(dest, &role)
	}
	if err := s.Scan(dest...); err != nil {
		return model.Person{}, err
	}
	p.BirthDate = model.NewDate(birth)
	p.Owner = ownerRef(ownerID, role)
	return p, nil
}

// ownerRef expands the owner when its role is known.
func ownerRef(id, role string) model.Reference[model.UserRef] {
	if role == "" {
		return model.Ref[model.UserRef](id)
	}
	return model.Expand(model.UserRef{ID: id, Role: model.Role(role)})
}
