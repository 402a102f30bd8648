package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/policy"
)

// MovieRepo stores movies and their actor list (movie_actors).  Director
// and actor ids are not foreign keys: a reference to a deleted person is
// kept and returned unexpanded.
type MovieRepo struct{ db *sql.DB }

func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

var _ MovieStore = (*MovieRepo)(nil)

// movieSelect joins the owner role and the director summary (name, image,
// nationality, bio) onto each movie row.
const movieSelect = `SELECT m.id, m.title, m.genre, m.release_date, m.duration, m.director_id,
		m.rating, m.description, m.image_url, m.country, m.teaser_url, m.user_id,
		m.created_at, m.updated_at, COALESCE(u.role, ''),
		d.id, d.name, d.image_url, d.nationality, d.bio
	FROM movies m
	LEFT JOIN users u ON u.id = m.user_id
	LEFT JOIN directors d ON d.id = m.director_id`

// Create inserts the movie and its actor rows in one transaction.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	ts := now()
	m.ID = NewID()
	m.CreatedAt, m.UpdatedAt = ts, ts

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op after commit

	_, err = tx.ExecContext(ctx, `INSERT INTO movies
		(id, title, genre, release_date, duration, director_id, rating, description,
		 image_url, country, teaser_url, user_id, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.Title, m.Genre, m.ReleaseDate.Time, m.Duration, m.Director.ID(), m.Rating, m.Description,
		m.ImageURL, m.Country, m.TeaserURL, m.OwnerID(), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return err
	}
	if err := insertActors(ctx, tx, m.ID, m.ActorIDs()); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns visible movies newest first with director, actors and owner
// role expanded.
func (r *MovieRepo) List(ctx context.Context, scope policy.ReadScope) ([]model.Movie, error) {
	owners := scope.Owners()
	if len(owners) == 0 {
		return []model.Movie{}, nil
	}
	q := movieSelect + fmt.Sprintf(" WHERE m.user_id IN (%s) ORDER BY m.created_at DESC, m.id DESC",
		placeholders(len(owners)))
	return r.query(ctx, q, toArgs(owners)...)
}

// Get returns one visible movie, expanded like List.
func (r *MovieRepo) Get(ctx context.Context, id string, scope policy.ReadScope) (model.Movie, error) {
	if err := CheckID(id); err != nil {
		return model.Movie{}, err
	}
	owners := scope.Owners()
	if len(owners) == 0 {
		return model.Movie{}, ErrNotFound
	}
	q := movieSelect + fmt.Sprintf(" WHERE m.id = ? AND m.user_id IN (%s)", placeholders(len(owners)))
	return r.one(ctx, q, append([]any{id}, toArgs(owners)...)...)
}

// Update merges patch into the movie owned by scope.  The result has
// director and actors expanded and the owner as a bare id.
func (r *MovieRepo) Update(ctx context.Context, id string, scope policy.WriteScope, patch model.MoviePatch) (model.Movie, error) {
	if err := CheckID(id); err != nil {
		return model.Movie{}, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Movie{}, err
	}
	defer tx.Rollback()

	cur, err := r.oneTx(ctx, tx, movieSelect+" WHERE m.id = ? AND m.user_id = ?", id, scope.OwnerID)
	if err != nil {
		return model.Movie{}, err
	}

	patch.Apply(&cur)
	cur.UpdatedAt = now()
	_, err = tx.ExecContext(ctx, `UPDATE movies SET title=?, genre=?, release_date=?, duration=?, director_id=?,
		rating=?, description=?, image_url=?, country=?, teaser_url=?, updated_at=?
		WHERE id=? AND user_id=?`,
		cur.Title, cur.Genre, cur.ReleaseDate.Time, cur.Duration, cur.Director.ID(),
		cur.Rating, cur.Description, cur.ImageURL, cur.Country, cur.TeaserURL, cur.UpdatedAt,
		id, scope.OwnerID)
	if err != nil {
		return model.Movie{}, err
	}
	if patch.Actors != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM movie_actors WHERE movie_id = ?", id); err != nil {
			return model.Movie{}, err
		}
		if err := insertActors(ctx, tx, id, cur.ActorIDs()); err != nil {
			return model.Movie{}, err
		}
	}

	// Re-read so the replaced director/actors come back expanded.
	out, err := r.oneTx(ctx, tx, movieSelect+" WHERE m.id = ?", id)
	if err != nil {
		return model.Movie{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Movie{}, err
	}
	out.Owner = model.Ref[model.UserRef](out.OwnerID())
	return out, nil
}

// Delete removes the movie owned by scope together with its actor rows.
func (r *MovieRepo) Delete(ctx context.Context, id string, scope policy.WriteScope) error {
	if err := CheckID(id); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM movies WHERE id = ? AND user_id = ?", id, scope.OwnerID)
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM movie_actors WHERE movie_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

type queryer interface {
	QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error)
}

func (r *MovieRepo) query(ctx context.Context, q string, args ...any) ([]model.Movie, error) {
	return queryMovies(ctx, r.db, q, args...)
}

func (r *MovieRepo) one(ctx context.Context, q string, args ...any) (model.Movie, error) {
	return oneMovie(ctx, r.db, q, args...)
}

func (r *MovieRepo) oneTx(ctx context.Context, tx *sql.Tx, q string, args ...any) (model.Movie, error) {
	return oneMovie(ctx, tx, q, args...)
}

func oneMovie(ctx context.Context, db queryer, q string, args ...any) (model.Movie, error) {
	ms, err := queryMovies(ctx, db, q, args...)
	if err != nil {
		return model.Movie{}, err
	}
	if len(ms) == 0 {
		return model.Movie{}, ErrNotFound
	}
	return ms[0], nil
}

// queryMovies runs a movieSelect query and then loads the actor lists of
// every returned movie with one extra query.
func queryMovies(ctx context.Context, db queryer, q string, args ...any) ([]model.Movie, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	out := []model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	actors, err := loadActors(ctx, db, out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Actors = actors[out[i].ID]
		if out[i].Actors == nil {
			out[i].Actors = []model.Reference[model.Actor]{}
		}
	}
	return out, nil
}

func scanMovie(s rowScanner) (model.Movie, error) {
	var (
		m                                      model.Movie
		release                                time.Time
		directorID, ownerID, role              string
		dID, dName, dImage, dNationality, dBio sql.NullString
	)
	err := s.Scan(&m.ID, &m.Title, &m.Genre, &release, &m.Duration, &directorID,
		&m.Rating, &m.Description, &m.ImageURL, &m.Country, &m.TeaserURL, &ownerID,
		&m.CreatedAt, &m.UpdatedAt, &role,
		&dID, &dName, &dImage, &dNationality, &dBio)
	if err != nil {
		return model.Movie{}, err
	}
	m.ReleaseDate = model.NewDate(release)
	m.Owner = ownerRef(ownerID, role)
	if dID.Valid {
		m.Director = model.Expand(model.Director{Person: model.Person{
			ID:          dID.String,
			Name:        dName.String,
			ImageURL:    dImage.String,
			Nationality: dNationality.String,
			Bio:         dBio.String,
		}})
	} else {
		m.Director = model.Ref[model.Director](directorID)
	}
	return m, nil
}

// loadActors returns each movie's actors in stored order.  Ids whose actor
// row no longer exists stay as bare references.
func loadActors(ctx context.Context, db queryer, movies []model.Movie) (map[string][]model.Reference[model.Actor], error) {
	ids := make([]string, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	q := fmt.Sprintf(`SELECT ma.movie_id, ma.actor_id, a.id, a.name, a.image_url, a.nationality, a.bio
		FROM movie_actors ma
		LEFT JOIN actors a ON a.id = ma.actor_id
		WHERE ma.movie_id IN (%s)
		ORDER BY ma.movie_id, ma.position`, placeholders(len(ids)))
	rows, err := db.QueryContext(ctx, q, toArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Reference[model.Actor], len(movies))
	for rows.Next() {
		var (
			movieID, actorID               string
			aID, aName, aImage, aNat, aBio sql.NullString
		)
		if err := rows.Scan(&movieID, &actorID, &aID, &aName, &aImage, &aNat, &aBio); err != nil {
			return nil, err
		}
		ref := model.Ref[model.Actor](actorID)
		if aID.Valid {
			ref = model.Expand(model.Actor{Person: model.Person{
				ID:          aID.String,
				Name:        aName.String,
				ImageURL:    aImage.String,
				Nationality: aNat.String,
				Bio:         aBio.String,
			}})
		}
		out[movieID] = append(out[movieID], ref)
	}
	return out, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error)
}

func insertActors(ctx context.Context, db execer, movieID string, actorIDs []string) error {
	for i, aid := range actorIDs {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO movie_actors (movie_id, actor_id, position) VALUES (?,?,?)",
			movieID, aid, i); err != nil {
			return err
		}
	}
	return nil
}
